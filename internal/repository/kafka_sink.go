package repository

import (
	"context"

	"EdgePull/internal/domain/models"
	"EdgePull/internal/domain/repository"
	"EdgePull/pkg/kafka"
)

// KafkaSink publishes decision events to a Kafka topic, keyed by symbol so
// events for one symbol stay ordered within a partition.
type KafkaSink struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaSink(producer *kafka.Producer, topic string) *KafkaSink {
	return &KafkaSink{producer: producer, topic: topic}
}

func (s *KafkaSink) Append(ctx context.Context, ev *models.DecisionEvent) error {
	return s.producer.Publish(ctx, s.topic, []byte(ev.Symbol), ev)
}

func (s *KafkaSink) Close() error {
	return s.producer.Close()
}

var _ repository.EventSink = (*KafkaSink)(nil)
