package registry

import (
	"errors"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/barkbase/barkbase/pkg/age"
	"github.com/barkbase/barkbase/pkg/storage"
)

var (
	ErrNotFound = errors.New("not found")
	ErrNoName   = errors.New("name is required")
)

const snapshotFile = "registry.jz"

type snapshot struct {
	Dogs []*Dog        `json:"dogs"`
	Vets []*VetContact `json:"vets"`
}

// Registry holds every owner's dogs and vet contacts in memory, snapshot
// persisted through a storage provider.
type Registry struct {
	mu            sync.RWMutex
	dogs          map[string]*Dog
	vets          map[string]*VetContact
	ChangeHandler ChangeHandler
}

func NewRegistry() *Registry {
	return &Registry{
		dogs: make(map[string]*Dog),
		vets: make(map[string]*VetContact),
	}
}

func (r *Registry) Load(db storage.Provider) error {
	var snap snapshot
	if err := db.LoadGzippedJson(&snap, snapshotFile); err != nil {
		log.Printf("No registry snapshot: %v", err)
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range snap.Dogs {
		r.dogs[d.Id] = d
	}
	for _, v := range snap.Vets {
		r.vets[v.Id] = v
	}
	return nil
}

func (r *Registry) Save(db storage.Provider) error {
	// The snapshot shares the live *Dog pointers, so the lock must be held
	// through the encode or a concurrent record append tears the output.
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap := snapshot{
		Dogs: make([]*Dog, 0, len(r.dogs)),
		Vets: make([]*VetContact, 0, len(r.vets)),
	}
	for _, d := range r.dogs {
		snap.Dogs = append(snap.Dogs, d)
	}
	for _, v := range r.vets {
		snap.Vets = append(snap.Vets, v)
	}
	return db.SaveGzippedJson(&snap, snapshotFile)
}

// withAge returns a copy of the dog with the derived age label filled in.
func withAge(d *Dog) Dog {
	out := *d
	if label, ok := age.LabelNow(d.BirthDate); ok {
		out.AgeLabel = label
	}
	return out
}

func (r *Registry) AddDog(ownerId string, input Dog) (Dog, error) {
	if strings.TrimSpace(input.Name) == "" {
		return Dog{}, ErrNoName
	}
	now := time.Now().Unix()
	dog := &Dog{
		Id:           uuid.New().String(),
		OwnerId:      ownerId,
		Name:         strings.TrimSpace(input.Name),
		Breed:        input.Breed,
		Sex:          input.Sex,
		BirthDate:    input.BirthDate,
		PhotoUrl:     input.PhotoUrl,
		Weights:      []WeightEntry{},
		Vaccinations: []Vaccination{},
		Medications:  []Medication{},
		Appointments: []Appointment{},
		Records:      []HealthRecord{},
		Created:      now,
		Updated:      now,
	}
	r.mu.Lock()
	r.dogs[dog.Id] = dog
	r.mu.Unlock()
	return withAge(dog), nil
}

func (r *Registry) getOwned(ownerId, dogId string) (*Dog, error) {
	dog, ok := r.dogs[dogId]
	if !ok || dog.OwnerId != ownerId {
		return nil, ErrNotFound
	}
	return dog, nil
}

func (r *Registry) GetDog(ownerId, dogId string) (Dog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dog, err := r.getOwned(ownerId, dogId)
	if err != nil {
		return Dog{}, err
	}
	return withAge(dog), nil
}

func (r *Registry) UpdateDog(ownerId, dogId string, input Dog) (Dog, error) {
	if strings.TrimSpace(input.Name) == "" {
		return Dog{}, ErrNoName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	dog, err := r.getOwned(ownerId, dogId)
	if err != nil {
		return Dog{}, err
	}
	dog.Name = strings.TrimSpace(input.Name)
	dog.Breed = input.Breed
	dog.Sex = input.Sex
	dog.BirthDate = input.BirthDate
	dog.PhotoUrl = input.PhotoUrl
	dog.Updated = time.Now().Unix()
	return withAge(dog), nil
}

func (r *Registry) DeleteDog(ownerId, dogId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.getOwned(ownerId, dogId); err != nil {
		return err
	}
	delete(r.dogs, dogId)
	return nil
}

func (r *Registry) DogsByOwner(ownerId string) []Dog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ret := make([]Dog, 0)
	for _, dog := range r.dogs {
		if dog.OwnerId == ownerId {
			ret = append(ret, withAge(dog))
		}
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].Name < ret[j].Name
	})
	return ret
}

func (r *Registry) DogCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.dogs)
}

func (r *Registry) touch(dog *Dog) {
	dog.Updated = time.Now().Unix()
}

func (r *Registry) notify(event CareEvent) {
	if r.ChangeHandler != nil {
		r.ChangeHandler.CareEventAdded(event)
	}
}
