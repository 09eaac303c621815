package email

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureSender struct {
	messages []*gomail.Message
	err      error
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	c.messages = append(c.messages, m...)
	return c.err
}

func TestSendSessionSummary(t *testing.T) {
	sender := &captureSender{}
	svc := NewEmailServiceWithSender(EmailConfig{FromEmail: "pos@example.com", FromName: "Cafe POS"}, sender)

	err := svc.SendSessionSummary([]string{"owner@example.com"}, SessionSummary{
		StoreName:   "Cafe POS",
		Cashier:     "cashier@example.com",
		SessionSale: "P1,250.00",
		OrderCount:  9,
		Payments:    []SessionLine{{Label: "cash", Value: "P1,000.00 (7)"}},
	}, Attachment{Filename: "session.xlsx", Content: []byte("xlsx")})
	require.NoError(t, err)
	require.Len(t, sender.messages, 1)

	msg := sender.messages[0]
	assert.Equal(t, []string{"owner@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Cafe POS - session closed by cashier@example.com"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "session.xlsx")
}

func TestSendSessionSummary_NoRecipients(t *testing.T) {
	sender := &captureSender{}
	svc := NewEmailServiceWithSender(EmailConfig{}, sender)

	require.NoError(t, svc.SendSessionSummary(nil, SessionSummary{}))
	assert.Empty(t, sender.messages)
}

func TestSendSessionSummary_WrapsTransportError(t *testing.T) {
	svc := NewEmailServiceWithSender(EmailConfig{}, &captureSender{err: errors.New("connection refused")})

	err := svc.SendSessionSummary([]string{"owner@example.com"}, SessionSummary{})
	assert.ErrorContains(t, err, "connection refused")
}
