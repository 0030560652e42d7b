package notifications

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strconv"
	"time"
)

// EmailService interface for sending ticket emails
type EmailService interface {
	SendNotification(ctx context.Context, notification *TicketNotification) error
}

// SMTPConfig holds SMTP configuration
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
	Timeout   time.Duration
}

// SMTPEmailService delivers ticket notifications over SMTP
type SMTPEmailService struct {
	config   *SMTPConfig
	template *template.Template
}

// NewSMTPEmailService creates a new SMTP email service
func NewSMTPEmailService(config *SMTPConfig) (*SMTPEmailService, error) {
	if err := validateSMTPConfig(config); err != nil {
		return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
	}

	tmpl, err := template.New("ticket_confirmation").Parse(ticketConfirmationHTML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse confirmation template: %w", err)
	}

	return &SMTPEmailService{
		config:   config,
		template: tmpl,
	}, nil
}

// validateSMTPConfig validates SMTP configuration
func validateSMTPConfig(config *SMTPConfig) error {
	if config == nil {
		return fmt.Errorf("SMTP config is nil")
	}
	if config.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("SMTP port must be between 1 and 65535")
	}
	if config.Username == "" {
		return fmt.Errorf("SMTP username is required")
	}
	if config.Password == "" {
		return fmt.Errorf("SMTP password is required")
	}
	if config.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

// SendNotification renders the confirmation email and sends it with the
// ticket document attached. Composing the message is deterministic for the
// same notification, so a retried send is safe.
func (s *SMTPEmailService) SendNotification(ctx context.Context, notification *TicketNotification) error {
	if err := notification.Validate(); err != nil {
		return fmt.Errorf("undeliverable notification: %w", err)
	}

	var htmlBuf bytes.Buffer
	if err := s.template.Execute(&htmlBuf, notification.TemplateData); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	message, err := s.buildMessage(notification.RecipientEmail, notification.Subject, htmlBuf.String(), notification.Attachment)
	if err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	if s.config.UseTLS {
		err = s.sendWithSTARTTLS(addr, auth, notification.RecipientEmail, message)
	} else {
		err = smtp.SendMail(addr, auth, s.config.FromEmail, []string{notification.RecipientEmail}, message)
	}
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("Email sent to %s for order %s", notification.RecipientEmail, notification.OrderID)
	return nil
}

// sendWithSTARTTLS sends email with STARTTLS encryption (recommended for Gmail)
func (s *SMTPEmailService) sendWithSTARTTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Quit()

	tlsconfig := &tls.Config{
		InsecureSkipVerify: false,
		ServerName:         s.config.Host,
	}

	if err = client.StartTLS(tlsconfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return w.Close()
}

// buildMessage creates a multipart/mixed message with the HTML body and the
// ticket document attachment.
func (s *SMTPEmailService) buildMessage(to, subject, htmlBody string, attachment *Attachment) ([]byte, error) {
	var buf bytes.Buffer
	boundary := "boundary_" + strconv.FormatInt(time.Now().UnixNano(), 10)

	fmt.Fprintf(&buf, "From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", boundary)

	// HTML part
	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	buf.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	buf.WriteString(htmlBody)
	buf.WriteString("\r\n")

	// Attachment part
	if attachment != nil {
		raw, err := base64.StdEncoding.DecodeString(attachment.ContentB64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode attachment: %w", err)
		}

		contentType := attachment.ContentType
		if contentType == "" {
			contentType = "application/pdf"
		}

		fmt.Fprintf(&buf, "--%s\r\n", boundary)
		fmt.Fprintf(&buf, "Content-Type: %s; name=%q\r\n", contentType, attachment.Filename)
		buf.WriteString("Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&buf, "Content-Disposition: attachment; filename=%q\r\n\r\n", attachment.Filename)

		encoded := base64.StdEncoding.EncodeToString(raw)
		for len(encoded) > 76 {
			buf.WriteString(encoded[:76])
			buf.WriteString("\r\n")
			encoded = encoded[76:]
		}
		buf.WriteString(encoded)
		buf.WriteString("\r\n")
	}

	fmt.Fprintf(&buf, "--%s--\r\n", boundary)
	return buf.Bytes(), nil
}

// MockEmailService logs instead of sending; used when SMTP is not configured
type MockEmailService struct{}

func NewMockEmailService() *MockEmailService {
	return &MockEmailService{}
}

func (s *MockEmailService) SendNotification(ctx context.Context, notification *TicketNotification) error {
	log.Printf("[MOCK] Sending %s to %s for order %s",
		notification.Type,
		notification.RecipientEmail,
		notification.OrderID,
	)
	return nil
}

const ticketConfirmationHTML = `<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
  .container { max-width: 600px; margin: 0 auto; padding: 20px; }
  .header { background: linear-gradient(to right, #3B82F6, #10B981); padding: 20px; color: white; text-align: center; border-radius: 10px 10px 0 0; }
  .content { background: #f8f9fa; padding: 20px; border-radius: 0 0 10px 10px; }
  .ticket-details { background: white; padding: 20px; border-radius: 8px; margin: 20px 0; }
  .footer { text-align: center; margin-top: 20px; font-size: 0.9em; color: #666; }
</style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Thank You for Your Purchase!</h1>
      <p>Your museum visit is confirmed</p>
    </div>
    <div class="content">
      <h2>Ticket Details</h2>
      <div class="ticket-details">
        <p><strong>Ticket Type:</strong> {{.ticket_type}}</p>
        <p><strong>Quantity:</strong> {{.quantity}}</p>
        <p><strong>Unit Price:</strong> Rs. {{.unit_price}}</p>
        <p><strong>Total:</strong> Rs. {{.total}}</p>
        <p><strong>Valid for:</strong> {{.age_range}}</p>
        <p><strong>Visit Date:</strong> {{.visit_date}}</p>
        <p><strong>Order ID:</strong> {{.order_id}}</p>
        <p><strong>Purchase Date:</strong> {{.purchase_date}}</p>
      </div>
      <p>Your ticket is attached to this email. Please show it at the entrance.</p>
      <h3>Museum Location</h3>
      <p>123 Museum Avenue, Art District<br>Opening Hours: 9:00 AM - 6:00 PM</p>
      <div class="footer">
        <p>Thank you for choosing our museum. We look forward to your visit!</p>
        <small>This is an automated email. Please do not reply.</small>
      </div>
    </div>
  </div>
</body>
</html>`
