package notifications

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSMTPConfig() *SMTPConfig {
	return &SMTPConfig{
		Host:      "smtp.example.com",
		Port:      587,
		Username:  "mailer",
		Password:  "secret",
		FromEmail: "noreply@musetix.com",
		FromName:  "National Museum of Art & History",
		UseTLS:    true,
	}
}

func TestNewSMTPEmailService_RejectsIncompleteConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SMTPConfig)
	}{
		{"missing host", func(c *SMTPConfig) { c.Host = "" }},
		{"missing port", func(c *SMTPConfig) { c.Port = 0 }},
		{"missing from email", func(c *SMTPConfig) { c.FromEmail = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testSMTPConfig()
			tt.mutate(cfg)

			_, err := NewSMTPEmailService(cfg)
			assert.Error(t, err)
		})
	}
}

func TestBuildMessage_MultipartWithAttachment(t *testing.T) {
	svc, err := NewSMTPEmailService(testSMTPConfig())
	require.NoError(t, err)

	document := []byte("%PDF-fake ticket document")
	attachment := &Attachment{
		Filename:    "museum-ticket-order_abc123.pdf",
		ContentType: "application/pdf",
		ContentB64:  base64.StdEncoding.EncodeToString(document),
	}

	message, err := svc.buildMessage("visitor@example.com", "Your Museum Visit Confirmation", "<html>body</html>", attachment)
	require.NoError(t, err)

	text := string(message)
	assert.Contains(t, text, "From: National Museum of Art & History <noreply@musetix.com>")
	assert.Contains(t, text, "To: visitor@example.com")
	assert.Contains(t, text, "Subject: Your Museum Visit Confirmation")
	assert.Contains(t, text, "Content-Type: multipart/mixed; boundary=")
	assert.Contains(t, text, "Content-Type: text/html; charset=UTF-8")
	assert.Contains(t, text, `Content-Disposition: attachment; filename="museum-ticket-order_abc123.pdf"`)
	assert.Contains(t, text, "Content-Transfer-Encoding: base64")

	// Base64 body lines stay within the RFC line length
	inAttachment := false
	for _, line := range strings.Split(text, "\r\n") {
		if strings.HasPrefix(line, "Content-Transfer-Encoding") {
			inAttachment = true
		}
		if inAttachment {
			assert.LessOrEqual(t, len(line), 78)
		}
	}
}

func TestBuildMessage_RejectsBadAttachment(t *testing.T) {
	svc, err := NewSMTPEmailService(testSMTPConfig())
	require.NoError(t, err)

	_, err = svc.buildMessage("visitor@example.com", "Subject", "<html></html>", &Attachment{
		Filename:   "ticket.pdf",
		ContentB64: "not valid base64!!!",
	})
	assert.Error(t, err)
}

func TestConfirmationTemplate_RendersBookingData(t *testing.T) {
	svc, err := NewSMTPEmailService(testSMTPConfig())
	require.NoError(t, err)

	var buf bytes.Buffer
	err = svc.template.Execute(&buf, map[string]interface{}{
		"ticket_type":   "Adult",
		"quantity":      2,
		"unit_price":    200,
		"total":         400,
		"age_range":     "18+ years",
		"visit_date":    "20/03/2026 10:00",
		"order_id":      "order_abc123",
		"purchase_date": "14/03/2026 12:30",
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "Adult")
	assert.Contains(t, html, "order_abc123")
	assert.Contains(t, html, "20/03/2026 10:00")
	assert.Contains(t, html, "Rs. 400")
}

func TestTicketNotification_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*TicketNotification)
		wantErr bool
	}{
		{"complete", func(n *TicketNotification) {}, false},
		{"missing recipient", func(n *TicketNotification) { n.RecipientEmail = "" }, true},
		{"missing subject", func(n *TicketNotification) { n.Subject = "" }, true},
		{"missing order id", func(n *TicketNotification) { n.OrderID = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewTicketNotification(NotificationTypeTicketConfirmed,
				"visitor@example.com", "Your Museum Visit Confirmation", "order_abc123")
			tt.mutate(n)

			err := n.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMockEmailService_AcceptsValidNotification(t *testing.T) {
	svc := NewMockEmailService()

	n := NewTicketNotification(NotificationTypeTicketConfirmed,
		"visitor@example.com", "Your Museum Visit Confirmation", "order_abc123")

	assert.NoError(t, svc.SendNotification(context.Background(), n))
}
