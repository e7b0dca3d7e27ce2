package domain

import "time"

// Case representa un caso índice abierto por personal de la GGD.
type Case struct {
	ID                   string     `json:"id"`
	Reference            string     `json:"reference"`
	DateOfSymptomOnset   *time.Time `json:"date_of_symptom_onset,omitempty"`
	PairingCodeHash      string     `json:"-"`
	PairingCodeExpiresAt *time.Time `json:"pairing_code_expires_at,omitempty"`
	PairedAt             *time.Time `json:"paired_at,omitempty"`
	CreatedBy            string     `json:"created_by"`
	CreatedAt            time.Time  `json:"created_at"`
}

// IsPairable indica si el caso tiene un código de emparejamiento vigente.
func (c Case) IsPairable(now time.Time) bool {
	return c.PairingCodeHash != "" && c.PairingCodeExpiresAt != nil && now.Before(*c.PairingCodeExpiresAt)
}
