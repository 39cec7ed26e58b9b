package common

// Email is a single outbound message.
type Email struct {
	To      string
	Subject string
	HTML    string
}

// EmailSender delivers transactional mail.
type EmailSender interface {
	Send(to, subject, html string) error
}

// InMemoryEmail collects sent mail for assertions in tests.
type InMemoryEmail struct {
	Outbox []Email
}

func (m *InMemoryEmail) Send(to, subject, html string) error {
	if m == nil {
		return nil
	}
	m.Outbox = append(m.Outbox, Email{To: to, Subject: subject, HTML: html})
	return nil
}

// NopEmailSender discards every message. Used when no mail backend is configured.
type NopEmailSender struct{}

func (NopEmailSender) Send(string, string, string) error { return nil }
