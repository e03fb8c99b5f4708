package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"catalog_service/internal/domain"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const (
	EventCheckoutCompleted = "CheckoutCompleted"
	eventVersion           = 1
)

// Envelope wraps every event published by the service.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier queues notifications in memory and publishes them from a
// single background goroutine. Send never waits for the broker.
type KafkaNotifier struct {
	w        messageWriter
	inbox    chan kafka.Message
	done     chan struct{}
	producer string
	log      *logrus.Logger

	mu     sync.RWMutex
	closed bool
}

var _ domain.Notifier = (*KafkaNotifier)(nil)

func NewKafkaNotifier(brokers []string, topic, producer string, buf int, logger *logrus.Logger) *KafkaNotifier {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Errorf("Notifier: Failed to deliver %d message(s) to %s: %v", len(messages), topic, err)
			}
		},
	}
	return newKafkaNotifier(w, producer, buf, logger)
}

func newKafkaNotifier(w messageWriter, producer string, buf int, logger *logrus.Logger) *KafkaNotifier {
	n := &KafkaNotifier{
		w:        w,
		inbox:    make(chan kafka.Message, buf),
		done:     make(chan struct{}),
		producer: producer,
		log:      logger,
	}
	go n.run()
	return n
}

func (n *KafkaNotifier) run() {
	defer close(n.done)
	for m := range n.inbox {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := n.w.WriteMessages(ctx, m); err != nil {
			n.log.Errorf("Notifier: Failed to publish message key=%s: %v", m.Key, err)
		}
		cancel()
	}
}

func (n *KafkaNotifier) Send(ctx context.Context, note domain.Notification) error {
	payload, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("could not encode notification: %w", err)
	}
	key := strconv.FormatInt(note.UserID, 10)
	env := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventCheckoutCompleted,
		EventVersion:  eventVersion,
		OccurredAt:    time.Now().UTC(),
		Producer:      n.producer,
		CorrelationID: key,
		Payload:       payload,
	}
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("could not encode envelope: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(EventCheckoutCompleted)},
			{Key: "x-event-version", Value: []byte(strconv.Itoa(eventVersion))},
		},
	}

	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return fmt.Errorf("notifier is closed")
	}
	select {
	case n.inbox <- msg:
		n.log.Debugf("Notifier: Queued %s event %s for user %d", EventCheckoutCompleted, env.EventID, note.UserID)
		return nil
	default:
		n.log.Warnf("Notifier: Inbox full, dropping %s event for user %d", EventCheckoutCompleted, note.UserID)
		return fmt.Errorf("notifier inbox full")
	}
}

// Close stops accepting notifications, flushes the queued ones and closes
// the underlying writer.
func (n *KafkaNotifier) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	close(n.inbox)
	n.mu.Unlock()

	<-n.done
	return n.w.Close()
}
