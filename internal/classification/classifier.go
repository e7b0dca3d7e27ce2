// Package classification asigna una categoría de contacto a partir de las respuestas de riesgo.
// Todas las funciones son puras y seguras para uso concurrente.
package classification

import "ggd-contact/internal/domain"

// Evaluation reúne el resultado y las preguntas consultadas en un mismo recorrido.
type Evaluation struct {
	Result       domain.ClassificationResult `json:"result"`
	VisibleRisks []domain.Risk               `json:"visible_risks"`
}

// step evalúa una pregunta. Devuelve done=true si el recorrido termina en este paso.
type step struct {
	risk     domain.Risk
	evaluate func(domain.Risks) (res domain.ClassificationResult, done bool)
}

// La pregunta sameRoom no participa: distance == no resuelve directamente a other.
var steps = []step{
	{risk: domain.RiskSameHousehold, evaluate: evaluateSameHousehold},
	{risk: domain.RiskDistance, evaluate: evaluateDistance},
	{risk: domain.RiskPhysicalContact, evaluate: evaluatePhysicalContact},
}

// Evaluate recorre la cadena de preguntas y devuelve el resultado junto con las
// preguntas visibles en orden de evaluación.
func Evaluate(risks domain.Risks) Evaluation {
	visible := make([]domain.Risk, 0, len(steps))
	for _, s := range steps {
		visible = append(visible, s.risk)
		if res, done := s.evaluate(risks); done {
			return Evaluation{Result: res, VisibleRisks: visible}
		}
	}
	// El último paso siempre termina; no debería alcanzarse.
	return Evaluation{Result: domain.Success(domain.CategoryOther), VisibleRisks: visible}
}

// Classify devuelve la categoría alcanzada o la próxima pregunta sin responder.
func Classify(risks domain.Risks) domain.ClassificationResult {
	return Evaluate(risks).Result
}

// VisibleRisks devuelve las preguntas consultadas por Classify, en orden.
func VisibleRisks(risks domain.Risks) []domain.Risk {
	return Evaluate(risks).VisibleRisks
}

func evaluateSameHousehold(r domain.Risks) (domain.ClassificationResult, bool) {
	switch {
	case r.SameHousehold == nil:
		return domain.NeedsAssessment(domain.RiskSameHousehold), true
	case *r.SameHousehold:
		return domain.Success(domain.Category1), true
	}
	return domain.ClassificationResult{}, false
}

func evaluateDistance(r domain.Risks) (domain.ClassificationResult, bool) {
	if r.Distance == nil {
		return domain.NeedsAssessment(domain.RiskDistance), true
	}
	switch *r.Distance {
	case domain.DistanceMoreThan15Min:
		return domain.Success(domain.Category2a), true
	case domain.DistanceLessThan15Min:
		return domain.ClassificationResult{}, false
	}
	return domain.Success(domain.CategoryOther), true
}

func evaluatePhysicalContact(r domain.Risks) (domain.ClassificationResult, bool) {
	switch {
	case r.PhysicalContact == nil:
		return domain.NeedsAssessment(domain.RiskPhysicalContact), true
	case *r.PhysicalContact:
		return domain.Success(domain.Category2b), true
	}
	return domain.Success(domain.CategoryOther), true
}

// SetRisks devuelve las respuestas canónicas que justifican la categoría.
// category3a, category3b y other producen el mismo registro, que Classify
// resuelve como other.
func SetRisks(category domain.Category) domain.Risks {
	switch category {
	case domain.Category1:
		return domain.Risks{SameHousehold: domain.Bool(true)}
	case domain.Category2a:
		return domain.Risks{
			SameHousehold: domain.Bool(false),
			Distance:      domain.DistancePtr(domain.DistanceMoreThan15Min),
		}
	case domain.Category2b:
		return domain.Risks{
			SameHousehold:   domain.Bool(false),
			Distance:        domain.DistancePtr(domain.DistanceLessThan15Min),
			PhysicalContact: domain.Bool(true),
		}
	default:
		return domain.Risks{
			SameHousehold: domain.Bool(false),
			Distance:      domain.DistancePtr(domain.DistanceNo),
			SameRoom:      domain.Bool(false),
		}
	}
}
