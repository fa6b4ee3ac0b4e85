package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	writeTimeout = 5 * time.Second
	// publishTimeout bounds the partition lookup WriteMessages does before
	// handing the batch to the background writer.
	publishTimeout = 500 * time.Millisecond
	maxAttempts    = 3
)

// Producer writes events asynchronously. Delivery failures surface through
// the logger, not through Publish.
type Producer struct {
	writer *kafka.Writer
	log    *slog.Logger
}

func NewProducer(brokers []string, l *slog.Logger) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers")
	}
	if l == nil {
		l = slog.Default()
	}

	p := &Producer{log: l.With("component", "kafka")}
	p.writer = &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion:             p.completed,
		MaxAttempts:            maxAttempts,
		WriteBackoffMax:        250 * time.Millisecond,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           writeTimeout,
	}
	return p, nil
}

func encode(topic, key string, ev Event) (kafka.Message, error) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}
	return kafka.Message{Topic: topic, Key: []byte(key), Value: data}, nil
}

func (p *Producer) Publish(ctx context.Context, topic, key string, ev Event) error {
	msg, err := encode(topic, key, ev)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write %s: %w", topic, err)
	}
	return nil
}

func (p *Producer) completed(msgs []kafka.Message, err error) {
	if err == nil || len(msgs) == 0 {
		return
	}
	p.log.Error("kafka_publish_error", "topic", msgs[0].Topic, "count", len(msgs), "error", err)
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
