package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Distance indica si el contacto estuvo cerca del caso índice y por cuánto tiempo.
type Distance string

const (
	DistanceNo            Distance = "no"
	DistanceLessThan15Min Distance = "yesLessThan15min"
	DistanceMoreThan15Min Distance = "yesMoreThan15min"
)

// Category es el nivel de riesgo asignado a un contacto.
type Category string

const (
	Category1     Category = "category1"
	Category2a    Category = "category2a"
	Category2b    Category = "category2b"
	Category3a    Category = "category3a"
	Category3b    Category = "category3b"
	CategoryOther Category = "other"
)

// Categories lista todas las categorías en orden de prioridad.
var Categories = []Category{Category1, Category2a, Category2b, Category3a, Category3b, CategoryOther}

// Risk identifica una pregunta del cuestionario de riesgo.
type Risk string

const (
	RiskSameHousehold   Risk = "sameHousehold"
	RiskDistance        Risk = "distance"
	RiskPhysicalContact Risk = "physicalContact"
	RiskSameRoom        Risk = "sameRoom"
)

var (
	ErrUnknownDistance = errors.New("unknown distance")
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownRisk     = errors.New("unknown risk")
)

// ParseDistance convierte el nombre de wire a Distance.
func ParseDistance(s string) (Distance, error) {
	switch d := Distance(s); d {
	case DistanceNo, DistanceLessThan15Min, DistanceMoreThan15Min:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDistance, s)
}

// ParseCategory convierte el nombre de wire a Category.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// ParseRisk convierte el nombre de wire a Risk.
func ParseRisk(s string) (Risk, error) {
	switch r := Risk(s); r {
	case RiskSameHousehold, RiskDistance, RiskPhysicalContact, RiskSameRoom:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRisk, s)
}

// Rank devuelve la prioridad de la categoría; menor es más urgente.
// Valores desconocidos quedan al final.
func (c Category) Rank() int {
	for i, cat := range Categories {
		if cat == c {
			return i
		}
	}
	return len(Categories)
}

func (d *Distance) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDistance(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (c *Category) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (r *Risk) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseRisk(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Risks agrupa las respuestas del cuestionario. nil significa "sin responder", no false.
type Risks struct {
	SameHousehold   *bool     `json:"same_household"`
	Distance        *Distance `json:"distance"`
	PhysicalContact *bool     `json:"physical_contact"`
	SameRoom        *bool     `json:"same_room"`
}

// ResultStatus distingue las dos variantes de ClassificationResult.
type ResultStatus string

const (
	ResultSuccess         ResultStatus = "success"
	ResultNeedsAssessment ResultStatus = "needs_assessment"
)

// ClassificationResult es exactamente uno de: categoría alcanzada o riesgo pendiente.
type ClassificationResult struct {
	Status   ResultStatus `json:"status"`
	Category Category     `json:"category,omitempty"`
	Risk     Risk         `json:"risk,omitempty"`
}

func Success(c Category) ClassificationResult {
	return ClassificationResult{Status: ResultSuccess, Category: c}
}

func NeedsAssessment(r Risk) ClassificationResult {
	return ClassificationResult{Status: ResultNeedsAssessment, Risk: r}
}

func (r ClassificationResult) IsSuccess() bool {
	return r.Status == ResultSuccess
}

func (r ClassificationResult) String() string {
	if r.IsSuccess() {
		return "success(" + string(r.Category) + ")"
	}
	return "needs_assessment(" + string(r.Risk) + ")"
}

// Bool devuelve un puntero a v; útil para armar Risks.
func Bool(v bool) *bool {
	return &v
}

// DistancePtr devuelve un puntero a d.
func DistancePtr(d Distance) *Distance {
	return &d
}
