package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"ggd-contact/internal/domain"
)

// SMTPSender envía avisos de exposición vía SMTP.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
	useTLS   bool
}

func NewSMTPSender(host string, port int, username, password, from, fromName string, useTLS bool) (*SMTPSender, error) {
	if strings.TrimSpace(host) == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if strings.TrimSpace(from) == "" {
		return nil, fmt.Errorf("smtp from is required")
	}
	if port == 0 {
		port = 587
	}
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		fromName: fromName,
		useTLS:   useTLS,
	}, nil
}

func (s *SMTPSender) SendExposureNotice(_ context.Context, notice ExposureNotice) error {
	toEmail := strings.TrimSpace(notice.ToEmail)
	if toEmail == "" {
		return fmt.Errorf("to email is required")
	}

	msg := buildMessage(s.from, s.fromName, toEmail, "Important: you may have been exposed", exposureBody(notice))
	return s.send(toEmail, msg)
}

func (s *SMTPSender) send(toEmail, msg string) error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	if !s.useTLS {
		return smtp.SendMail(addr, auth, s.from, []string{toEmail}, []byte(msg))
	}

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}
	if err := client.Mail(s.from); err != nil {
		return err
	}
	if err := client.Rcpt(toEmail); err != nil {
		return err
	}
	writer, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := writer.Write([]byte(msg)); err != nil {
		_ = writer.Close()
		return err
	}
	return writer.Close()
}

// exposureBody arma el texto del aviso con una indicación según la categoría.
func exposureBody(notice ExposureNotice) string {
	var b strings.Builder
	name := strings.TrimSpace(notice.ContactName)
	if name == "" {
		name = "Hello"
	} else {
		name = "Dear " + name
	}
	fmt.Fprintf(&b, "%s,\n\n", name)
	b.WriteString("Someone you have been in contact with has tested positive for COVID-19.\n")
	if notice.DateOfLastExposure != nil {
		fmt.Fprintf(&b, "Your last contact was on %s.\n", notice.DateOfLastExposure.UTC().Format("2 January 2006"))
	}
	b.WriteString("\n")
	b.WriteString(categoryAdvice(notice.Category))
	b.WriteString("\n\nYour local GGD\n")
	return b.String()
}

func categoryAdvice(c domain.Category) string {
	switch c {
	case domain.Category1:
		return "You live in the same household. Stay at home and get tested as soon as possible."
	case domain.Category2a, domain.Category2b:
		return "You were in close contact. Stay at home and get tested on day 5 after the contact."
	case domain.Category3a, domain.Category3b:
		return "You were not in close contact. Watch for symptoms and get tested if you develop any."
	default:
		return "Your risk is low. Watch for symptoms during the next 10 days."
	}
}

func buildMessage(from, fromName, to, subject, body string) string {
	fromHeader := from
	if strings.TrimSpace(fromName) != "" {
		fromHeader = fmt.Sprintf("%s <%s>", fromName, from)
	}

	headers := []string{
		fmt.Sprintf("From: %s", fromHeader),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
	}

	return strings.Join(headers, "\r\n") + "\r\n\r\n" + body
}
