package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	"github.com/mariphil/foundation-site/internal/domain/donation"
)

const TypeDonationRecorded = "donation.recorded"

// DonationRecorded is published once per newly stored donation.
type DonationRecorded struct {
	Type              string `json:"type"`
	DonationID        string `json:"donation_id"`
	Amount            string `json:"amount"`
	AmountMinor       int64  `json:"amount_minor"`
	Currency          string `json:"currency"`
	Recurring         bool   `json:"recurring"`
	ExternalReference string `json:"external_reference"`
	OccurredAt        string `json:"occurred_at"`
}

// NewDonationRecorded builds the event for a stored donation.
func NewDonationRecorded(d donation.Donation) DonationRecorded {
	return DonationRecorded{
		Type:              TypeDonationRecorded,
		DonationID:        d.ID,
		Amount:            d.Amount.StringFixed(2),
		AmountMinor:       donation.ToMinorUnits(d.Amount),
		Currency:          d.Currency,
		Recurring:         d.Recurring,
		ExternalReference: d.ExternalPaymentReference,
		OccurredAt:        d.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Publisher delivers domain events to downstream consumers.
type Publisher interface {
	PublishDonationRecorded(ctx context.Context, ev DonationRecorded) error
	Close() error
}

// KafkaPublisher writes events to a Kafka topic with a synchronous producer.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducerConfig returns the producer settings used for donation events.
func NewProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.ClientID = "mariphil-foundation-site"
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	return config
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, topic), nil
}

func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishDonationRecorded(ctx context.Context, ev DonationRecorded) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", ev.Type, err)
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ev.DonationID),
		Value: sarama.ByteEncoder(b),
		Headers: []sarama.RecordHeader{
			{Key: []byte("type"), Value: []byte(ev.Type)},
		},
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return &donation.UpstreamError{Service: "kafka", Err: err}
	}
	slog.DebugContext(ctx, "Event published",
		slog.String("type", ev.Type),
		slog.String("donation_id", ev.DonationID),
		slog.Int("partition", int(partition)),
		slog.Int64("offset", offset),
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// Noop discards events. It is used when no brokers are configured.
type Noop struct{}

func (Noop) PublishDonationRecorded(context.Context, DonationRecorded) error { return nil }

func (Noop) Close() error { return nil }
