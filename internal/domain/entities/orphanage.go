package entities

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Orphanage is a registry entry
type Orphanage struct {
	ID                   uuid.UUID   `json:"id"`
	Name                 string      `json:"name"`
	RegistrationNumber   null.String `json:"registration_number"`
	Email                null.String `json:"email"`
	PhoneNumber          null.String `json:"phone_number"`
	Website              null.String `json:"website"`
	Address              string      `json:"address"`
	City                 null.String `json:"city"`
	State                null.String `json:"state"`
	Country              null.String `json:"country"`
	Capacity             int         `json:"capacity"`
	CurrentChildrenCount int         `json:"current_children_count"`
	PrimaryNeeds         null.String `json:"primary_needs"`
	Description          null.String `json:"description"`
	Image                null.String `json:"image"`
	AddedBy              *uuid.UUID  `json:"added_by"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

// OrphanageInput is the create/replace payload
type OrphanageInput struct {
	Name                 string `json:"name" form:"name"`
	RegistrationNumber   string `json:"registration_number" form:"registration_number"`
	Email                string `json:"email" form:"email"`
	PhoneNumber          string `json:"phone_number" form:"phone_number"`
	Website              string `json:"website" form:"website"`
	Address              string `json:"address" form:"address"`
	City                 string `json:"city" form:"city"`
	State                string `json:"state" form:"state"`
	Country              string `json:"country" form:"country"`
	Capacity             int    `json:"capacity" form:"capacity"`
	CurrentChildrenCount int    `json:"current_children_count" form:"current_children_count"`
	PrimaryNeeds         string `json:"primary_needs" form:"primary_needs"`
	Description          string `json:"description" form:"description"`
}

// Validate checks required fields and counters
func (in OrphanageInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Address) == "" {
		return errors.New("name and address are required")
	}
	if in.Capacity < 0 || in.CurrentChildrenCount < 0 {
		return errors.New("capacity and current_children_count must not be negative")
	}
	if in.Capacity > 0 && in.CurrentChildrenCount > in.Capacity {
		return errors.New("current_children_count must not exceed capacity")
	}
	return nil
}

// Apply copies the input onto o, leaving id, image and ownership untouched
func (in OrphanageInput) Apply(o *Orphanage) {
	o.Name = strings.TrimSpace(in.Name)
	o.RegistrationNumber = optionalString(in.RegistrationNumber)
	o.Email = optionalString(strings.ToLower(in.Email))
	o.PhoneNumber = optionalString(in.PhoneNumber)
	o.Website = optionalString(in.Website)
	o.Address = strings.TrimSpace(in.Address)
	o.City = optionalString(in.City)
	o.State = optionalString(in.State)
	o.Country = optionalString(in.Country)
	o.Capacity = in.Capacity
	o.CurrentChildrenCount = in.CurrentChildrenCount
	o.PrimaryNeeds = optionalString(in.PrimaryNeeds)
	o.Description = optionalString(in.Description)
}

// OrphanageFilter narrows the public listing
type OrphanageFilter struct {
	City   string
	Search string
}

func optionalString(s string) null.String {
	s = strings.TrimSpace(s)
	return null.NewString(s, s != "")
}
