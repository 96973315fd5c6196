package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes one message per event, keyed by order id so that
// all events of one order land on the same partition.
type KafkaPublisher struct {
	w *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{w: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
	}}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e OrderEvent) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(e.OrderID), 10)),
		Value: b,
		Time:  e.At,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
