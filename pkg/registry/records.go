package registry

import (
	"strings"

	"github.com/google/uuid"
)

func (r *Registry) AddWeight(ownerId, dogId string, entry WeightEntry) (WeightEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dog, err := r.getOwned(ownerId, dogId)
	if err != nil {
		return WeightEntry{}, err
	}
	entry.Id = uuid.New().String()
	dog.Weights = append(dog.Weights, entry)
	r.touch(dog)
	return entry, nil
}

func (r *Registry) AddVaccination(ownerId, dogId string, v Vaccination) (Vaccination, error) {
	if strings.TrimSpace(v.Name) == "" {
		return Vaccination{}, ErrNoName
	}
	r.mu.Lock()
	dog, err := r.getOwned(ownerId, dogId)
	if err != nil {
		r.mu.Unlock()
		return Vaccination{}, err
	}
	v.Id = uuid.New().String()
	dog.Vaccinations = append(dog.Vaccinations, v)
	r.touch(dog)
	dogName := dog.Name
	r.mu.Unlock()

	if v.NextDue != "" {
		r.notify(CareEvent{
			Kind:     EventVaccination,
			OwnerId:  ownerId,
			DogId:    dogId,
			DogName:  dogName,
			RecordId: v.Id,
			Title:    v.Name + " booster",
			Due:      v.NextDue,
		})
	}
	return v, nil
}

func (r *Registry) AddMedication(ownerId, dogId string, m Medication) (Medication, error) {
	if strings.TrimSpace(m.Name) == "" {
		return Medication{}, ErrNoName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	dog, err := r.getOwned(ownerId, dogId)
	if err != nil {
		return Medication{}, err
	}
	m.Id = uuid.New().String()
	dog.Medications = append(dog.Medications, m)
	r.touch(dog)
	return m, nil
}

func (r *Registry) AddAppointment(ownerId, dogId string, a Appointment) (Appointment, error) {
	if strings.TrimSpace(a.Title) == "" {
		return Appointment{}, ErrNoName
	}
	r.mu.Lock()
	dog, err := r.getOwned(ownerId, dogId)
	if err != nil {
		r.mu.Unlock()
		return Appointment{}, err
	}
	a.Id = uuid.New().String()
	dog.Appointments = append(dog.Appointments, a)
	r.touch(dog)
	dogName := dog.Name
	r.mu.Unlock()

	r.notify(CareEvent{
		Kind:     EventAppointment,
		OwnerId:  ownerId,
		DogId:    dogId,
		DogName:  dogName,
		RecordId: a.Id,
		Title:    a.Title,
		Due:      a.Date,
	})
	return a, nil
}

func (r *Registry) AddHealthRecord(ownerId, dogId string, h HealthRecord) (HealthRecord, error) {
	if strings.TrimSpace(h.Title) == "" {
		return HealthRecord{}, ErrNoName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	dog, err := r.getOwned(ownerId, dogId)
	if err != nil {
		return HealthRecord{}, err
	}
	h.Id = uuid.New().String()
	dog.Records = append(dog.Records, h)
	r.touch(dog)
	return h, nil
}

// DeleteRecord removes a sub-record of any kind by id.
func (r *Registry) DeleteRecord(ownerId, dogId, recordId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	dog, err := r.getOwned(ownerId, dogId)
	if err != nil {
		return err
	}
	for i, v := range dog.Weights {
		if v.Id == recordId {
			dog.Weights = append(dog.Weights[:i], dog.Weights[i+1:]...)
			r.touch(dog)
			return nil
		}
	}
	for i, v := range dog.Vaccinations {
		if v.Id == recordId {
			dog.Vaccinations = append(dog.Vaccinations[:i], dog.Vaccinations[i+1:]...)
			r.touch(dog)
			return nil
		}
	}
	for i, v := range dog.Medications {
		if v.Id == recordId {
			dog.Medications = append(dog.Medications[:i], dog.Medications[i+1:]...)
			r.touch(dog)
			return nil
		}
	}
	for i, v := range dog.Appointments {
		if v.Id == recordId {
			dog.Appointments = append(dog.Appointments[:i], dog.Appointments[i+1:]...)
			r.touch(dog)
			return nil
		}
	}
	for i, v := range dog.Records {
		if v.Id == recordId {
			dog.Records = append(dog.Records[:i], dog.Records[i+1:]...)
			r.touch(dog)
			return nil
		}
	}
	return ErrNotFound
}
