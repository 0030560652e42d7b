package notifications

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
)

// NotificationProducer interface defines the contract for publishing ticket
// notifications to the delivery queue
type NotificationProducer interface {
	PublishNotification(ctx context.Context, notification *TicketNotification) error
	Close() error
	HealthCheck(ctx context.Context) error
}

// KafkaProducerConfig contains configuration for the Kafka notification producer
type KafkaProducerConfig struct {
	Brokers           []string
	NotificationTopic string
	RetryMax          int
	TimeoutMs         int
	RequiredAcks      sarama.RequiredAcks
	CompressionType   sarama.CompressionCodec
	IdempotentWrites  bool
	MaxMessageBytes   int
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:           []string{"localhost:9092"},
		NotificationTopic: "ticket-notifications",
		RetryMax:          3,
		TimeoutMs:         10000,             // 10 seconds
		RequiredAcks:      sarama.WaitForAll, // Wait for all in-sync replicas
		CompressionType:   sarama.CompressionSnappy,
		IdempotentWrites:  true,
		MaxMessageBytes:   1000000, // 1MB; a ticket PDF is well under this
	}
}

// KafkaNotificationProducer handles publishing notifications to Kafka
type KafkaNotificationProducer struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
}

// NewKafkaNotificationProducer creates a new Kafka notification producer
func NewKafkaNotificationProducer(config *KafkaProducerConfig) (NotificationProducer, error) {
	saramaConfig := sarama.NewConfig()

	// Producer configuration
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = config.MaxMessageBytes

	// Enable idempotent producer
	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keeps retries for one order on one partition
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &KafkaNotificationProducer{
		producer: producer,
		config:   config,
	}, nil
}

// PublishNotification publishes a single ticket notification to Kafka
func (knp *KafkaNotificationProducer) PublishNotification(ctx context.Context, notification *TicketNotification) error {
	if err := notification.Validate(); err != nil {
		return fmt.Errorf("invalid notification: %w", err)
	}

	notification.Status = NotificationStatusQueued

	messageBytes, err := notification.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     knp.config.NotificationTopic,
		Key:       sarama.StringEncoder(notification.OrderID),
		Value:     sarama.ByteEncoder(messageBytes),
		Timestamp: notification.CreatedAt,
		Headers: []sarama.RecordHeader{
			{Key: []byte("type"), Value: []byte(notification.Type)},
			{Key: []byte("notification_id"), Value: []byte(notification.ID.String())},
		},
	}

	partition, offset, err := knp.producer.SendMessage(message)
	if err != nil {
		notification.Status = NotificationStatusFailed
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}

	log.Printf("Notification published - Topic: %s, Partition: %d, Offset: %d, Order: %s",
		knp.config.NotificationTopic, partition, offset, notification.OrderID)

	return nil
}

// Close closes the producer
func (knp *KafkaNotificationProducer) Close() error {
	if err := knp.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}

// HealthCheck verifies the producer can reach the brokers
func (knp *KafkaNotificationProducer) HealthCheck(ctx context.Context) error {
	probe := NewTicketNotification(NotificationTypeTicketConfirmed, "healthcheck@musetix.local", "healthcheck", "healthcheck")
	data, err := probe.ToJSON()
	if err != nil {
		return err
	}
	// Send to a throwaway key on the same topic; consumers drop healthcheck orders
	_, _, err = knp.producer.SendMessage(&sarama.ProducerMessage{
		Topic: knp.config.NotificationTopic,
		Key:   sarama.StringEncoder("healthcheck"),
		Value: sarama.ByteEncoder(data),
	})
	return err
}
