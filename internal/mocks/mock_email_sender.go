package mocks

import "sync"

// SentEmail records one delivery attempt
type SentEmail struct {
	To      string
	From    string
	Subject string
	Body    string
}

// MockEmailSender implements domain.EmailSender interface for testing. It
// records every send so tests can inspect delivered codes.
type MockEmailSender struct {
	SendFunc func(to, from, subject, body string) error

	mu   sync.Mutex
	Sent []SentEmail
}

// NewMockEmailSender creates a new MockEmailSender with default behaviors
func NewMockEmailSender() *MockEmailSender {
	return &MockEmailSender{}
}

// Send records the email and applies SendFunc if set
func (m *MockEmailSender) Send(to, from, subject, body string) error {
	if m.SendFunc != nil {
		if err := m.SendFunc(to, from, subject, body); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentEmail{To: to, From: from, Subject: subject, Body: body})
	return nil
}

// LastSent returns the most recent recorded email, or nil
func (m *MockEmailSender) LastSent() *SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return nil
	}
	last := m.Sent[len(m.Sent)-1]
	return &last
}
