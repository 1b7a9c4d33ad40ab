package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"innovation-admin/pkg/platform/circuit"
)

// KafkaPublisher produces audit events to a Kafka topic keyed by target
// user, so one user's history stays ordered within a partition. A circuit
// breaker fast-fails emits while the brokers are unreachable.
type KafkaPublisher struct {
	client  *kgo.Client
	topic   string
	logger  *slog.Logger
	breaker *circuit.Breaker
}

// NewKafkaPublisher connects to the brokers and ensures the audit topic
// exists before the first produce.
func NewKafkaPublisher(ctx context.Context, brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	if err := ensureTopic(ctx, client, topic); err != nil {
		client.Close()
		return nil, err
	}

	return &KafkaPublisher{
		client:  client,
		topic:   topic,
		logger:  logger,
		breaker: circuit.New("kafka-audit"),
	}, nil
}

func ensureTopic(ctx context.Context, client *kgo.Client, topic string) error {
	adm := kadm.NewClient(client)
	details, err := adm.ListTopics(ctx, topic)
	if err != nil {
		return fmt.Errorf("list topics: %w", err)
	}
	if details.Has(topic) {
		return nil
	}
	if _, err := adm.CreateTopic(ctx, -1, -1, nil, topic); err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	return nil
}

type kafkaEvent struct {
	Category     string `json:"category"`
	Timestamp    string `json:"timestamp"`
	ActorID      string `json:"actor_id"`
	TargetUserID string `json:"target_user_id"`
	TargetRoleID string `json:"target_role_id,omitempty"`
	Action       string `json:"action"`
	Outcome      string `json:"outcome"`
	Reason       string `json:"reason,omitempty"`
	RequestID    string `json:"request_id,omitempty"`
}

func (p *KafkaPublisher) Emit(ctx context.Context, event Event) error {
	event = enrich(ctx, event)

	payload := kafkaEvent{
		Category:     string(event.Category),
		Timestamp:    event.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		ActorID:      event.ActorID.String(),
		TargetUserID: event.TargetUserID.String(),
		Action:       string(event.Action),
		Outcome:      event.Outcome,
		Reason:       event.Reason,
		RequestID:    event.RequestID,
	}
	if !event.TargetRoleID.IsNil() {
		payload.TargetRoleID = event.TargetRoleID.String()
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.TargetUserID.String()),
		Value: value,
	}

	if p.breaker.IsOpen() {
		// Probe with a short deadline so a recovering broker can close
		// the circuit without stalling request handling.
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Second)
		defer cancel()
	}

	// Synchronous produce: audit must not be lost on a refused delete.
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		if _, change := p.breaker.RecordFailure(); change.Opened {
			p.logger.ErrorContext(ctx, "audit circuit opened", "breaker", p.breaker.Name())
		}
		p.logger.ErrorContext(ctx, "audit produce failed",
			"action", event.Action,
			"error", err,
		)
		return fmt.Errorf("produce audit event: %w", err)
	}
	if _, change := p.breaker.RecordSuccess(); change.Closed {
		p.logger.InfoContext(ctx, "audit circuit closed", "breaker", p.breaker.Name())
	}
	return nil
}

// Close flushes outstanding records and releases the client.
func (p *KafkaPublisher) Close() {
	p.client.Close()
}
