package domain

import "time"

type TaskSource string

const (
	TaskSourceApp    TaskSource = "app"
	TaskSourcePortal TaskSource = "portal"
)

// Communication indica quién informa al contacto.
type Communication string

const (
	CommunicationIndex Communication = "index"
	CommunicationStaff Communication = "staff"
	CommunicationNone  Communication = "none"
)

type Contact struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
}

// DisplayName arma el nombre visible del contacto.
func (c Contact) DisplayName() string {
	switch {
	case c.FirstName != "" && c.LastName != "":
		return c.FirstName + " " + c.LastName
	case c.FirstName != "":
		return c.FirstName
	default:
		return c.LastName
	}
}

// Task es un contacto del caso índice, con sus respuestas de riesgo y su clasificación.
// Category y PendingRisk son excluyentes: a lo sumo uno está presente.
type Task struct {
	ID                 string        `json:"id"`
	CaseID             string        `json:"case_id"`
	Label              string        `json:"label"`
	Context            string        `json:"context,omitempty"`
	Source             TaskSource    `json:"source"`
	Communication      Communication `json:"communication"`
	Contact            Contact       `json:"contact"`
	DateOfLastExposure *time.Time    `json:"date_of_last_exposure,omitempty"`
	Risks              Risks         `json:"risks"`
	Category           *Category     `json:"category,omitempty"`
	PendingRisk        *Risk         `json:"pending_risk,omitempty"`
	InformedAt         *time.Time    `json:"informed_at,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// ApplyResult guarda el resultado de clasificación en la tarea.
func (t *Task) ApplyResult(res ClassificationResult) {
	if res.IsSuccess() {
		c := res.Category
		t.Category = &c
		t.PendingRisk = nil
		return
	}
	r := res.Risk
	t.Category = nil
	t.PendingRisk = &r
}
