package registry

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

func (r *Registry) AddVet(ownerId string, input VetContact) (VetContact, error) {
	if strings.TrimSpace(input.Name) == "" {
		return VetContact{}, ErrNoName
	}
	vet := input
	vet.Id = uuid.New().String()
	vet.OwnerId = ownerId
	vet.Name = strings.TrimSpace(input.Name)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.vets[vet.Id] = &vet
	return vet, nil
}

func (r *Registry) UpdateVet(ownerId, vetId string, input VetContact) (VetContact, error) {
	if strings.TrimSpace(input.Name) == "" {
		return VetContact{}, ErrNoName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	vet, ok := r.vets[vetId]
	if !ok || vet.OwnerId != ownerId {
		return VetContact{}, ErrNotFound
	}
	vet.Name = strings.TrimSpace(input.Name)
	vet.Clinic = input.Clinic
	vet.Phone = input.Phone
	vet.Email = input.Email
	vet.Address = input.Address
	vet.Notes = input.Notes
	return *vet, nil
}

func (r *Registry) DeleteVet(ownerId, vetId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	vet, ok := r.vets[vetId]
	if !ok || vet.OwnerId != ownerId {
		return ErrNotFound
	}
	delete(r.vets, vetId)
	return nil
}

func (r *Registry) VetsByOwner(ownerId string) []VetContact {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ret := make([]VetContact, 0)
	for _, vet := range r.vets {
		if vet.OwnerId == ownerId {
			ret = append(ret, *vet)
		}
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].Name < ret[j].Name
	})
	return ret
}
