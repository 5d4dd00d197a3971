package registry

// Dates are ISO-8601 strings as the mobile app sends them; appointment
// dates carry a time component.

type WeightEntry struct {
	Id    string  `json:"id"`
	Date  string  `json:"date"`
	Kg    float64 `json:"kg"`
	Notes string  `json:"notes,omitempty"`
}

type Vaccination struct {
	Id      string `json:"id"`
	Name    string `json:"name"`
	Date    string `json:"date"`
	NextDue string `json:"nextDue,omitempty"`
	Vet     string `json:"vet,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

type Medication struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Dosage    string `json:"dosage,omitempty"`
	Frequency string `json:"frequency,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type Appointment struct {
	Id       string `json:"id"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Location string `json:"location,omitempty"`
	Vet      string `json:"vet,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

type HealthRecord struct {
	Id       string `json:"id"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Category string `json:"category,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

type Dog struct {
	Id           string         `json:"id"`
	OwnerId      string         `json:"ownerId"`
	Name         string         `json:"name"`
	Breed        string         `json:"breed,omitempty"`
	Sex          string         `json:"sex,omitempty"`
	BirthDate    string         `json:"birthDate,omitempty"`
	AgeLabel     string         `json:"ageLabel,omitempty"`
	PhotoUrl     string         `json:"photoUrl,omitempty"`
	Weights      []WeightEntry  `json:"weights"`
	Vaccinations []Vaccination  `json:"vaccinations"`
	Medications  []Medication   `json:"medications"`
	Appointments []Appointment  `json:"appointments"`
	Records      []HealthRecord `json:"records"`
	Created      int64          `json:"created"`
	Updated      int64          `json:"updated"`
}

type VetContact struct {
	Id      string `json:"id"`
	OwnerId string `json:"ownerId"`
	Name    string `json:"name"`
	Clinic  string `json:"clinic,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

type CareEventKind string

const (
	EventAppointment CareEventKind = "appointment"
	EventVaccination CareEventKind = "vaccination"
)

// CareEvent is published on the change feed when a dated record is
// written, so the reminder worker can schedule a push.
type CareEvent struct {
	Kind     CareEventKind `json:"kind"`
	OwnerId  string        `json:"ownerId"`
	DogId    string        `json:"dogId"`
	DogName  string        `json:"dogName"`
	RecordId string        `json:"recordId"`
	Title    string        `json:"title"`
	Due      string        `json:"due"`
}

// ChangeHandler receives registry mutations for fan-out.
type ChangeHandler interface {
	CareEventAdded(event CareEvent)
}
