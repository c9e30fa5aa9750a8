package models

import (
	"fmt"
	"strings"
	"time"
)

// Category classifies an appliance for the per-category statistics
type Category string

const (
	CategoryClimate       Category = "climatizacao"
	CategoryLighting      Category = "iluminacao"
	CategoryAppliance     Category = "eletrodomesticos"
	CategoryEntertainment Category = "entretenimento"
	CategoryHygiene       Category = "higiene"
	CategoryOther         Category = "outros"
)

// Categories lists every valid category in display order
var Categories = []Category{
	CategoryClimate,
	CategoryLighting,
	CategoryAppliance,
	CategoryEntertainment,
	CategoryHygiene,
	CategoryOther,
}

// ParseCategory maps a stored or user supplied value to a Category.
// An empty value yields CategoryOther.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CategoryOther, nil
	}
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", &ValidationError{Field: "categoria", Value: s, Message: "unknown category"}
}

// User owns rooms. Authentication lives outside this service.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nome"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Room is a named space in a household (a "cômodo")
type Room struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"usuario_id"`
	Name        string      `json:"nome"`
	Description string      `json:"descricao"`
	Appliances  []Appliance `json:"aparelhos,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Appliance is a power consuming device with static daily usage (an "aparelho")
type Appliance struct {
	ID          int64     `json:"id"`
	RoomID      int64     `json:"comodo_id"`
	Name        string    `json:"nome"`
	Category    Category  `json:"categoria"`
	PowerWatts  float64   `json:"potencia_watts"`
	HoursPerDay float64   `json:"horas_uso_dia"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks an appliance before it is written
func (a *Appliance) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return &ValidationError{Field: "nome", Message: "is required"}
	}
	if a.PowerWatts < 0 {
		return &ValidationError{Field: "potencia_watts", Value: fmt.Sprintf("%g", a.PowerWatts), Message: "must not be negative"}
	}
	if a.HoursPerDay < 0 || a.HoursPerDay > 24 {
		return &ValidationError{Field: "horas_uso_dia", Value: fmt.Sprintf("%g", a.HoursPerDay), Message: "must be between 0 and 24"}
	}
	category, err := ParseCategory(string(a.Category))
	if err != nil {
		return err
	}
	a.Category = category
	return nil
}

// ValidationError reports rejected input
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("validation error for %s (%s): %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}
