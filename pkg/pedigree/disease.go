package pedigree

import (
	"errors"
	"fmt"
)

// Inheritance identifies how parental affection status maps to offspring
// risk.
type Inheritance string

// Supported inheritance patterns.
const (
	Dominant       Inheritance = "dominant"
	Recessive      Inheritance = "recessive"
	XLinked        Inheritance = "x-linked"
	Multifactorial Inheritance = "multifactorial"
)

// Valid reports whether i is a supported inheritance pattern.
func (i Inheritance) Valid() bool {
	switch i {
	case Dominant, Recessive, XLinked, Multifactorial:
		return true
	}
	return false
}

// ErrInvalidDisease is wrapped by all [Disease.Validate] failures.
var ErrInvalidDisease = errors.New("invalid disease")

// Disease describes a hereditary condition in the catalog.
type Disease struct {
	ID          string      `json:"id" bson:"id"`
	Name        string      `json:"name" bson:"name"`
	Inheritance Inheritance `json:"type" bson:"type"`

	// Prevalence is the population base rate, the risk floor absent any
	// family history. Must be in (0,1].
	Prevalence float64 `json:"prevalence" bson:"prevalence"`

	// Penetrance is the probability of expression given the risk
	// genotype. Must be in (0,1].
	Penetrance float64 `json:"penetrance" bson:"penetrance"`

	// Display metadata, opaque to the engines.
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Color       string `json:"color,omitempty" bson:"color,omitempty"`
}

// Validate checks the disease at the editing boundary. The risk engine
// itself accepts any Disease and stays total, but out-of-range rates
// should never reach it.
func (d Disease) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: id must not be empty", ErrInvalidDisease)
	}
	if !d.Inheritance.Valid() {
		return fmt.Errorf("%w %s: unknown inheritance type %q", ErrInvalidDisease, d.ID, d.Inheritance)
	}
	if d.Prevalence <= 0 || d.Prevalence > 1 {
		return fmt.Errorf("%w %s: prevalence %v outside (0,1]", ErrInvalidDisease, d.ID, d.Prevalence)
	}
	if d.Penetrance <= 0 || d.Penetrance > 1 {
		return fmt.Errorf("%w %s: penetrance %v outside (0,1]", ErrInvalidDisease, d.ID, d.Penetrance)
	}
	return nil
}

// ValidateDiseases validates a catalog slice and rejects duplicate ids.
func ValidateDiseases(diseases []Disease) error {
	seen := make(map[string]bool, len(diseases))
	for _, d := range diseases {
		if err := d.Validate(); err != nil {
			return err
		}
		if seen[d.ID] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidDisease, d.ID)
		}
		seen[d.ID] = true
	}
	return nil
}
