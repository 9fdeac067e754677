package internal

import (
	"fmt"
	"log"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// pollEveryNWrites polls the producer roughly once every 1024 calls:
// delivery-report events are drained periodically rather than after every
// Write, since polling has a real cost and writes happen once per game
// tic.
const pollEveryNWrites = 1024

// queueFullRetryWait is how long BrokerBackend waits before its one retry
// when the producer's internal queue is full.
const queueFullRetryWait = 500 * time.Millisecond

// BrokerBackend publishes records to a Kafka topic, keyed by session id.
// It is grounded on original_source's HAVE_LIBRDKAFKA path
// (src/mqtt_dws.h neighbors it;
// the producer setup itself lives in src/setup/telemetry.c), which wraps
// librdkafka's rd_kafka_produce/rd_kafka_poll/rd_kafka_flush — the same
// three operations confluent-kafka-go's Producer exposes.
type BrokerBackend struct {
	cfg       BrokerConfig
	sessionID string

	producer *kafka.Producer
	consumer *kafka.Consumer
	writeN   int
	pending  *kafka.Message
}

func NewBrokerBackend(cfg BrokerConfig, sessionID string) *BrokerBackend {
	return &BrokerBackend{cfg: cfg, sessionID: sessionID}
}

func (b *BrokerBackend) NeedsTerminator() bool { return false }

func (b *BrokerBackend) Init() error {
	cm := kafka.ConfigMap{
		"bootstrap.servers": b.cfg.Brokers,
		"linger.ms":         5,
	}
	b.applySecurity(&cm)

	p, err := kafka.NewProducer(&cm)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnCreate, err)
	}
	b.producer = p

	if b.cfg.FeedbackTopic != "" {
		ccm := kafka.ConfigMap{
			"bootstrap.servers": b.cfg.Brokers,
			"group.id":          "doom-telemetry-feedback",
			"auto.offset.reset": "latest",
		}
		b.applySecurity(&ccm)
		c, err := kafka.NewConsumer(&ccm)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrConnCreate, err)
		}
		if err := c.Subscribe(b.cfg.FeedbackTopic, nil); err != nil {
			return fmt.Errorf("%w: %v", ErrConnCreate, err)
		}
		b.consumer = c
	}
	return nil
}

func (b *BrokerBackend) applySecurity(cm *kafka.ConfigMap) {
	if !b.cfg.SSL {
		return
	}
	cm.SetKey("security.protocol", "SASL_SSL")
	switch b.cfg.SASLMechanism {
	case SASLScramSHA256:
		cm.SetKey("sasl.mechanism", "SCRAM-SHA-256")
	case SASLScramSHA512:
		cm.SetKey("sasl.mechanism", "SCRAM-SHA-512")
	default:
		cm.SetKey("sasl.mechanism", "PLAIN")
	}
	cm.SetKey("sasl.username", b.cfg.Username)
	cm.SetKey("sasl.password", b.cfg.Password)
}

// Write enqueues payload for async delivery, keyed by session id. On a
// full internal queue it waits once and retries; a second failure is
// dropped and logged as a transient condition.
func (b *BrokerBackend) Write(payload []byte) (int, error) {
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &b.cfg.Topic, Partition: kafka.PartitionAny},
		Key:            []byte(b.sessionID),
		Value:          append([]byte(nil), payload...),
	}
	err := b.producer.Produce(msg, nil)
	if isQueueFull(err) {
		observeRetry("broker")
		b.producer.Poll(int(queueFullRetryWait / time.Millisecond))
		err = b.producer.Produce(msg, nil)
		if isQueueFull(err) {
			log.Printf("telemetry: broker queue still full after retry, dropping record")
			observeDrop("broker", "queue_full")
			return 0, nil
		}
	}
	if err != nil {
		return 0, fmt.Errorf("telemetry: broker produce failed: %w", err)
	}

	b.writeN++
	if b.writeN%pollEveryNWrites == 0 {
		b.producer.Poll(0)
	}
	return len(payload), nil
}

func isQueueFull(err error) bool {
	if err == nil {
		return false
	}
	kerr, ok := err.(kafka.Error)
	return ok && kerr.Code() == kafka.ErrQueueFull
}

// Poll reports whether a feedback message is waiting, for callers that
// want non-blocking readiness checks before calling Read.
func (b *BrokerBackend) Poll() bool {
	if b.consumer == nil {
		return false
	}
	ev := b.consumer.Poll(0)
	if ev == nil {
		return false
	}
	if msg, ok := ev.(*kafka.Message); ok {
		b.pending = msg
		return true
	}
	return false
}

// Read hands back a feedback message Poll already pulled off the
// consumer, or pulls one itself with a short non-blocking timeout.
func (b *BrokerBackend) Read(out []byte) (int, error) {
	if b.consumer == nil {
		return 0, ErrWantPoll
	}
	if b.pending == nil {
		ev := b.consumer.Poll(10)
		msg, ok := ev.(*kafka.Message)
		if !ok {
			return 0, ErrWantPoll
		}
		b.pending = msg
	}
	n := copy(out, b.pending.Value)
	b.pending = nil
	return n, nil
}

func (b *BrokerBackend) Close() error {
	if b.consumer != nil {
		b.consumer.Close()
	}
	if b.producer != nil {
		b.producer.Flush(2000)
		b.producer.Close()
	}
	return nil
}
