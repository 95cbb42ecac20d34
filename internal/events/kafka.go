package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
)

// Kafka publishes round settlements to a topic, keyed by round id so
// consumers see one partition-ordered stream per round.
type Kafka struct {
	writer *kafka.Writer
}

func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (k *Kafka) PublishRoundSettled(ctx context.Context, ev RoundSettled) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.RoundID),
		Value: b,
	})
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
