package gateway

import (
	"context"
	"sync"
)

// Mock collaborators for tests, in the shape of the real clients.

type PaymentClientMock struct {
	mu           sync.Mutex
	Calls        []PaymentIntentCall
	ClientSecret string
	Err          error
}

type PaymentIntentCall struct {
	AmountMinorUnits int64
	Currency         string
}

func (m *PaymentClientMock) CreateIntent(ctx context.Context, amountMinorUnits int64, currency string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, PaymentIntentCall{AmountMinorUnits: amountMinorUnits, Currency: currency})
	if m.Err != nil {
		return "", m.Err
	}
	return m.ClientSecret, nil
}

type MailClientMock struct {
	mu   sync.Mutex
	Sent []MailCall
	Err  error
}

type MailCall struct {
	Recipient   string
	Subject     string
	HtmlBody    string
	Attachments []Attachment
}

func (m *MailClientMock) Send(ctx context.Context, recipient, subject, htmlBody string, attachments ...Attachment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, MailCall{
		Recipient:   recipient,
		Subject:     subject,
		HtmlBody:    htmlBody,
		Attachments: attachments,
	})
	return m.Err
}

// SentCount is safe to poll while an async issuer is still running.
func (m *MailClientMock) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

func (m *MailClientMock) LastSent() MailCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Sent[len(m.Sent)-1]
}

type OTPClientMock struct {
	RequestId string
	StartErr  error
	CheckErr  error
}

func (m *OTPClientMock) StartVerification(ctx context.Context, phoneNumber string) (string, error) {
	return m.RequestId, m.StartErr
}

func (m *OTPClientMock) CheckVerification(ctx context.Context, requestId, code string) error {
	return m.CheckErr
}

type FilesClientMock struct {
	mu       sync.Mutex
	Uploaded map[string][]byte
	Err      error
}

func (m *FilesClientMock) Upload(ctx context.Context, name string, content []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	if m.Uploaded == nil {
		m.Uploaded = map[string][]byte{}
	}
	m.Uploaded[name] = content
	return name, nil
}

// Has is safe to poll while an async issuer is still running.
func (m *FilesClientMock) Has(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.Uploaded[name]
	return exists
}
