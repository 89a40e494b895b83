package domain

import "time"

// Owner carries the contact details of the client who published a listing.
type Owner struct {
	Name  string `json:"ownerName,omitempty"`
	Email string `json:"ownerEmail,omitempty"`
	Phone string `json:"ownerPhone,omitempty"`
}

// AdoptionPost is a pet offered for adoption.
type AdoptionPost struct {
	ID                int64     `json:"adoptionId"`
	ClientID          int64     `json:"clientId"`
	PetName           string    `json:"petName"`
	Breed             string    `json:"breed,omitempty"`
	Age               *int      `json:"age,omitempty"`
	Type              string    `json:"type,omitempty"`
	Gender            string    `json:"gender,omitempty"`
	ImageURL          string    `json:"imageUrl,omitempty"`
	Location          string    `json:"location,omitempty"`
	Shelter           string    `json:"shelter,omitempty"`
	Description       string    `json:"description,omitempty"`
	GoodWithKids      bool      `json:"goodWithKids"`
	GoodWithOtherPets bool      `json:"goodWithOtherPets"`
	HouseTrained      bool      `json:"houseTrained"`
	SpecialNeeds      bool      `json:"specialNeeds"`
	PostedAt          time.Time `json:"postedAt"`
	Owner
}

// LostPetPost is a missing-pet notice.
type LostPetPost struct {
	ID          int64      `json:"lostPetId"`
	ClientID    int64      `json:"clientId"`
	PetName     string     `json:"petName"`
	Breed       string     `json:"breed,omitempty"`
	Age         *int       `json:"age,omitempty"`
	Type        string     `json:"type,omitempty"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	DateLost    *time.Time `json:"dateLost,omitempty"`
	Location    string     `json:"location,omitempty"`
	Description string     `json:"description,omitempty"`
	PostedAt    time.Time  `json:"postedAt"`
	Owner
}

// PetFilter narrows listing queries. Types match any of the given values;
// MaxAge keeps pets strictly younger than the value.
type PetFilter struct {
	Location string
	Types    []string
	MaxAge   *int
}
