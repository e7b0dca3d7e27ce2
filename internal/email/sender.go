package email

import (
	"context"
	"errors"
	"time"

	"ggd-contact/internal/domain"
)

// ExposureNotice es el aviso que recibe un contacto expuesto.
type ExposureNotice struct {
	ToEmail            string
	ContactName        string
	Category           domain.Category
	DateOfLastExposure *time.Time
}

// Sender define la interfaz para envío de avisos de exposición.
type Sender interface {
	SendExposureNotice(ctx context.Context, notice ExposureNotice) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendExposureNotice(_ context.Context, _ ExposureNotice) error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}
