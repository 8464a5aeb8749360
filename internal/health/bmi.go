// Package health implements the BMI computation and its WHO assessment bands.
//
// The computation is pure and stateless: given a positive mass and height,
// it derives the body-mass index (rounded to two decimal places) and maps
// it onto one of four ordered categories. Classification happens on the
// rounded value, so an index that rounds to exactly 24.90 lands in the
// Normal band.
package health

import (
	"encoding/json"
	"fmt"
	"math"
)

// Parameter names used in validation errors. They match the wire-level
// query parameters so a caller can tell which input was rejected.
const (
	ParamWeight = "weight_kg"
	ParamHeight = "height_m"
)

// InvalidInputError reports a non-positive (or non-finite) input parameter.
type InvalidInputError struct {
	Param string
	Value float64
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%s must be a positive number, got %v", e.Param, e.Value)
}

// Category is one of the four assessment bands, ordered from lightest
// to heaviest. The zero value is Underweight.
type Category int

const (
	Underweight Category = iota
	NormalWeight
	Overweight
	Obese
)

// String returns the human-readable band label.
func (c Category) String() string {
	switch c {
	case Underweight:
		return "Underweight"
	case NormalWeight:
		return "Normal weight"
	case Overweight:
		return "Overweight"
	default:
		return "Obese"
	}
}

// Rank returns the ordinal position of the band. For a fixed height,
// increasing mass never decreases the rank.
func (c Category) Rank() int { return int(c) }

// MarshalJSON encodes the category as its label.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a category from its label.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, cand := range []Category{Underweight, NormalWeight, Overweight, Obese} {
		if cand.String() == s {
			*c = cand
			return nil
		}
	}
	return fmt.Errorf("unknown category %q", s)
}

// Assessment is the result of a BMI calculation: the rounded index and
// the band it falls into. It is created per call and never stored.
type Assessment struct {
	BMI      float64  `json:"bmi"`
	Category Category `json:"assessment"`
}

// Compute derives the body-mass index from a mass in kilograms and a
// height in meters, rounded to two decimal places. Both inputs must be
// strictly positive finite numbers; otherwise an *InvalidInputError
// identifying the offending parameter is returned.
func Compute(massKg, heightM float64) (float64, error) {
	if !(massKg > 0) || math.IsInf(massKg, 0) {
		return 0, &InvalidInputError{Param: ParamWeight, Value: massKg}
	}
	if !(heightM > 0) || math.IsInf(heightM, 0) {
		return 0, &InvalidInputError{Param: ParamHeight, Value: heightM}
	}
	return round2(massKg / (heightM * heightM)), nil
}

// Classify maps a rounded index onto its band. 18.5 opens the Normal
// band, 24.9 still belongs to it, and 29.9 still belongs to Overweight.
func Classify(index float64) Category {
	switch {
	case index < 18.5:
		return Underweight
	case index <= 24.9:
		return NormalWeight
	case index <= 29.9:
		return Overweight
	default:
		return Obese
	}
}

// Assess computes and classifies in one step.
func Assess(massKg, heightM float64) (Assessment, error) {
	index, err := Compute(massKg, heightM)
	if err != nil {
		return Assessment{}, err
	}
	return Assessment{BMI: index, Category: Classify(index)}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
