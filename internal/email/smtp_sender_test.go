package email

import (
	"context"
	"strings"
	"testing"
	"time"

	"ggd-contact/internal/domain"
)

func TestNewSMTPSenderValidation(t *testing.T) {
	if _, err := NewSMTPSender("", 587, "", "", "ggd@example.com", "", false); err == nil {
		t.Fatalf("expected error without host")
	}
	if _, err := NewSMTPSender("smtp.example.com", 0, "", "", "", "", false); err == nil {
		t.Fatalf("expected error without from")
	}
	s, err := NewSMTPSender("smtp.example.com", 0, "", "", "ggd@example.com", "GGD", false)
	if err != nil || s.port != 587 {
		t.Fatalf("expected default port 587, got %+v %v", s, err)
	}
}

func TestExposureBody(t *testing.T) {
	last := time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)
	body := exposureBody(ExposureNotice{
		ToEmail:            "jan@example.com",
		ContactName:        "Jan",
		Category:           domain.Category1,
		DateOfLastExposure: &last,
	})
	for _, want := range []string{"Dear Jan", "4 March 2021", "same household"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected body to contain %q, got %q", want, body)
		}
	}

	body = exposureBody(ExposureNotice{Category: domain.CategoryOther})
	if !strings.HasPrefix(body, "Hello,") || strings.Contains(body, "last contact") {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestBuildMessageHeaders(t *testing.T) {
	msg := buildMessage("ggd@example.com", "GGD Contact", "jan@example.com", "Subject", "body")
	if !strings.Contains(msg, "From: GGD Contact <ggd@example.com>\r\n") {
		t.Fatalf("unexpected from header in %q", msg)
	}
	if !strings.HasSuffix(msg, "\r\n\r\nbody") {
		t.Fatalf("expected body after blank line, got %q", msg)
	}
}

func TestDisabledSender(t *testing.T) {
	if err := NewDisabledSender("").SendExposureNotice(context.Background(), ExposureNotice{}); err == nil {
		t.Fatalf("expected disabled sender to fail")
	}
}
