package notifications

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeTicketConfirmed NotificationType = "TICKET_CONFIRMED"
	NotificationTypeTicketResend    NotificationType = "TICKET_RESEND"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "PENDING"
	NotificationStatusQueued  NotificationStatus = "QUEUED"
	NotificationStatusSent    NotificationStatus = "SENT"
	NotificationStatusFailed  NotificationStatus = "FAILED"
)

// Attachment is a file attached to an outgoing email. Content is base64 so
// the notification can travel through the queue as JSON.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	ContentB64  string `json:"content_b64"`
}

// TicketNotification is one queued ticket-delivery email
type TicketNotification struct {
	ID             uuid.UUID        `json:"id"`
	Type           NotificationType `json:"type"`
	RecipientEmail string           `json:"recipient_email"`
	Subject        string           `json:"subject"`

	// TemplateData feeds the confirmation email template
	TemplateData map[string]interface{} `json:"template_data"`

	// Attachment carries the rendered ticket document
	Attachment *Attachment `json:"attachment,omitempty"`

	// OrderID keys partitioning so retries for one order stay ordered
	OrderID string `json:"order_id"`

	Status     NotificationStatus `json:"status"`
	RetryCount int                `json:"retry_count"`
	MaxRetries int                `json:"max_retries"`
	CreatedAt  time.Time          `json:"created_at"`
	SentAt     *time.Time         `json:"sent_at,omitempty"`
}

// NewTicketNotification creates a pending notification for an order
func NewTicketNotification(notType NotificationType, email, subject, orderID string) *TicketNotification {
	return &TicketNotification{
		ID:             uuid.New(),
		Type:           notType,
		RecipientEmail: email,
		Subject:        subject,
		TemplateData:   make(map[string]interface{}),
		OrderID:        orderID,
		Status:         NotificationStatusPending,
		MaxRetries:     3,
		CreatedAt:      time.Now(),
	}
}

// Validate checks the notification is deliverable
func (n *TicketNotification) Validate() error {
	if n.RecipientEmail == "" {
		return fmt.Errorf("recipient email is required")
	}
	if n.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if n.OrderID == "" {
		return fmt.Errorf("order id is required")
	}
	return nil
}

// ToJSON serializes the notification for the queue
func (n *TicketNotification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

// FromJSON deserializes a queued notification
func FromJSON(data []byte) (*TicketNotification, error) {
	var n TicketNotification
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("failed to decode notification: %w", err)
	}
	return &n, nil
}
