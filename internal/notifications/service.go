package notifications

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"sync"

	"musetix/internal/shared/config"
	"musetix/internal/tickets"
)

// NotificationService is the public surface of the ticket notification
// pipeline. SendTicketConfirmation satisfies the dispatcher contract used
// by payment settlement.
type NotificationService interface {
	SendTicketConfirmation(ctx context.Context, ticket *tickets.Ticket, document []byte) error
	SendNotification(ctx context.Context, notification *TicketNotification) error

	Start(ctx context.Context) error
	Stop() error
	HealthCheck(ctx context.Context) error
}

type ServiceConfig struct {
	KafkaBrokers       []string
	NotificationTopic  string
	ConsumerGroupID    string
	NumConsumerWorkers int
	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	SMTPFromEmail      string
	SMTPFromName       string
}

// NewServiceConfig maps the application configuration onto the
// notification pipeline settings.
func NewServiceConfig(cfg *config.Config) *ServiceConfig {
	return &ServiceConfig{
		KafkaBrokers:       cfg.Kafka.Brokers,
		NotificationTopic:  cfg.Kafka.NotificationTopic,
		ConsumerGroupID:    cfg.Kafka.ConsumerGroupID,
		NumConsumerWorkers: cfg.Kafka.ConsumerWorkers,
		SMTPHost:           cfg.Email.SMTPHost,
		SMTPPort:           cfg.Email.SMTPPort,
		SMTPUsername:       cfg.Email.SMTPUsername,
		SMTPPassword:       cfg.Email.SMTPPassword,
		SMTPFromEmail:      cfg.Email.FromEmail,
		SMTPFromName:       cfg.Email.FromName,
	}
}

// TicketNotificationService fans ticket confirmations through Kafka to a
// pool of email workers. When no brokers are configured it degrades to
// sending over SMTP directly, which keeps single-process deployments
// working without a broker.
type TicketNotificationService struct {
	config       *ServiceConfig
	producer     NotificationProducer
	consumer     NotificationConsumer
	emailService EmailService

	// State
	isRunning bool
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewTicketNotificationService(config *ServiceConfig) (NotificationService, error) {
	if config == nil {
		return nil, fmt.Errorf("notification service config is required")
	}

	var emailService EmailService
	if config.SMTPHost == "" || config.SMTPUsername == "" {
		log.Printf("⚠️ SMTP not configured, ticket emails will be logged only")
		emailService = NewMockEmailService()
	} else {
		smtpConfig := &SMTPConfig{
			Host:      config.SMTPHost,
			Port:      config.SMTPPort,
			Username:  config.SMTPUsername,
			Password:  config.SMTPPassword,
			FromEmail: config.SMTPFromEmail,
			FromName:  config.SMTPFromName,
			UseTLS:    true,
		}
		svc, err := NewSMTPEmailService(smtpConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create SMTP email service: %w", err)
		}
		emailService = svc
	}

	ctx, cancel := context.WithCancel(context.Background())

	tns := &TicketNotificationService{
		config:       config,
		emailService: emailService,
		ctx:          ctx,
		cancel:       cancel,
	}

	if len(config.KafkaBrokers) == 0 {
		log.Printf("📧 Notification service initialized in direct-SMTP mode (no Kafka brokers)")
		return tns, nil
	}

	producerConfig := DefaultKafkaProducerConfig()
	producerConfig.Brokers = config.KafkaBrokers
	producerConfig.NotificationTopic = config.NotificationTopic

	producer, err := NewKafkaNotificationProducer(producerConfig)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create notification producer: %w", err)
	}

	consumerConfig := DefaultConsumerConfig()
	consumerConfig.Brokers = config.KafkaBrokers
	consumerConfig.Topics = []string{config.NotificationTopic}
	consumerConfig.GroupID = config.ConsumerGroupID

	consumer, err := NewKafkaNotificationConsumer(consumerConfig, emailService)
	if err != nil {
		cancel()
		producer.Close()
		return nil, fmt.Errorf("failed to create notification consumer: %w", err)
	}

	tns.producer = producer
	tns.consumer = consumer

	log.Printf("📧 Notification service initialized (brokers: %v, topic: %s)", config.KafkaBrokers, config.NotificationTopic)
	return tns, nil
}

func (tns *TicketNotificationService) Start(ctx context.Context) error {
	tns.mu.Lock()
	defer tns.mu.Unlock()

	if tns.isRunning {
		return fmt.Errorf("notification service is already running")
	}

	if tns.consumer != nil {
		workers := tns.config.NumConsumerWorkers
		if workers <= 0 {
			workers = 1
		}
		if err := tns.consumer.StartConsumers(tns.ctx, workers); err != nil {
			return fmt.Errorf("failed to start consumers: %w", err)
		}
	}

	tns.isRunning = true
	log.Printf("✅ Notification service started")
	return nil
}

func (tns *TicketNotificationService) Stop() error {
	tns.mu.Lock()
	defer tns.mu.Unlock()

	if !tns.isRunning {
		return fmt.Errorf("notification service is not running")
	}

	tns.cancel()

	if tns.consumer != nil {
		if err := tns.consumer.Stop(); err != nil {
			log.Printf("Error stopping consumer: %v", err)
		}
	}

	if tns.producer != nil {
		if err := tns.producer.Close(); err != nil {
			log.Printf("Error closing producer: %v", err)
		}
	}

	tns.isRunning = false
	log.Printf("✅ Notification service stopped")
	return nil
}

// SendTicketConfirmation packages a settled ticket and its rendered
// document into a notification and hands it to the pipeline.
func (tns *TicketNotificationService) SendTicketConfirmation(ctx context.Context, ticket *tickets.Ticket, document []byte) error {
	if ticket == nil {
		return fmt.Errorf("ticket is required")
	}

	notification := NewTicketNotification(
		NotificationTypeTicketConfirmed,
		ticket.Email,
		"Your Museum Visit Confirmation",
		ticket.OrderID,
	)
	notification.TemplateData = map[string]interface{}{
		"ticket_type":   string(ticket.Type),
		"quantity":      ticket.Quantity,
		"unit_price":    ticket.UnitPrice,
		"total":         ticket.TotalPrice(),
		"age_range":     ticket.AgeRange,
		"visit_date":    ticket.VisitDate.Format("02/01/2006 15:04"),
		"order_id":      ticket.OrderID,
		"purchase_date": ticket.PurchaseDate.Format("02/01/2006 15:04"),
	}
	if len(document) > 0 {
		notification.Attachment = &Attachment{
			Filename:    fmt.Sprintf("museum-ticket-%s.pdf", ticket.OrderID),
			ContentType: "application/pdf",
			ContentB64:  base64.StdEncoding.EncodeToString(document),
		}
	}

	return tns.SendNotification(ctx, notification)
}

// SendNotification routes through Kafka when available, otherwise sends
// over SMTP in-process.
func (tns *TicketNotificationService) SendNotification(ctx context.Context, notification *TicketNotification) error {
	if tns.producer != nil {
		return tns.producer.PublishNotification(ctx, notification)
	}
	return tns.emailService.SendNotification(ctx, notification)
}

func (tns *TicketNotificationService) HealthCheck(ctx context.Context) error {
	tns.mu.RLock()
	isRunning := tns.isRunning
	tns.mu.RUnlock()

	if !isRunning {
		return fmt.Errorf("notification service is not running")
	}

	if tns.producer != nil {
		if err := tns.producer.HealthCheck(ctx); err != nil {
			return fmt.Errorf("producer health check failed: %w", err)
		}
	}

	if tns.consumer != nil {
		if err := tns.consumer.HealthCheck(ctx); err != nil {
			return fmt.Errorf("consumer health check failed: %w", err)
		}
	}

	return nil
}
