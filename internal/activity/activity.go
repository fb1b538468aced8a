// Package activity publishes a feed of record changes and keeps per-day counts of them.
//
// Publishing is best effort: a failed publish is logged and never fails the
// operation that triggered it.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"interntrack/internal/metrics"
	"interntrack/internal/queue"
)

// MessageType tags queue messages that carry an Event.
const MessageType = "activity"

// Kind names what happened.
type Kind string

const (
	InternAdded   Kind = "intern_added"
	Login         Kind = "login"
	Logout        Kind = "logout"
	TaskAssigned  Kind = "task_assigned"
	TaskCompleted Kind = "task_completed"
)

// Event is one record change.
type Event struct {
	ID   string    `json:"id"`
	Kind Kind      `json:"kind"`
	Name string    `json:"name"`
	At   time.Time `json:"at"`
}

const (
	publishBuffer  = 256
	publishTimeout = time.Second
)

// Publisher hands events to a background goroutine that pushes them onto a
// queue, so callers never wait on the queue. When the buffer is full the
// event is dropped. A nil Publisher drops everything.
type Publisher struct {
	q       queue.Queue
	timeout time.Duration
	events  chan queue.Message
	done    chan struct{}
	once    sync.Once
}

// NewPublisher wraps q and starts the sender. Passing nil disables publishing.
func NewPublisher(q queue.Queue) *Publisher {
	return newPublisher(q, publishBuffer, publishTimeout)
}

func newPublisher(q queue.Queue, buffer int, timeout time.Duration) *Publisher {
	if q == nil {
		return nil
	}
	p := &Publisher{
		q:       q,
		timeout: timeout,
		events:  make(chan queue.Message, buffer),
		done:    make(chan struct{}),
	}
	go p.send()
	return p
}

func (p *Publisher) send() {
	defer close(p.done)
	for msg := range p.events {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		if err := p.q.Publish(ctx, msg); err != nil {
			log.Printf("activity publish failed: %v", err)
		}
		cancel()
	}
}

// Publish queues an event for name without blocking.
func (p *Publisher) Publish(kind Kind, name string) {
	if p == nil {
		return
	}
	evt := Event{ID: uuid.NewString(), Kind: kind, Name: name, At: time.Now().UTC()}
	body, err := json.Marshal(evt)
	if err != nil {
		log.Printf("activity encode failed: %v", err)
		return
	}
	select {
	case p.events <- queue.Message{Type: MessageType, Body: body}:
	default:
		log.Printf("activity buffer full, dropping %s event for %q", kind, name)
	}
}

// Close flushes buffered events and stops the sender. Publish must not be
// called after Close.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.once.Do(func() { close(p.events) })
	<-p.done
}

// Counter stores per-day event counts.
type Counter interface {
	Incr(ctx context.Context, day string, kind Kind) error
}

// RedisCounter keeps counts under activity:<day>:<kind>.
type RedisCounter struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCounter creates a counter whose keys expire after ttl.
func NewRedisCounter(client *redis.Client, ttl time.Duration) *RedisCounter {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &RedisCounter{client: client, ttl: ttl}
}

// Key returns the redis key for a day and kind.
func Key(day string, kind Kind) string {
	return fmt.Sprintf("activity:%s:%s", day, kind)
}

func (c *RedisCounter) Incr(ctx context.Context, day string, kind Kind) error {
	key := Key(day, kind)
	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, c.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Recorder drains activity messages into a Counter.
type Recorder struct {
	counter Counter
}

// NewRecorder creates a recorder. counter may be nil, in which case events are only logged.
func NewRecorder(counter Counter) *Recorder {
	return &Recorder{counter: counter}
}

// Run consumes q until ctx is cancelled or the queue closes.
func (r *Recorder) Run(ctx context.Context, q queue.Queue) error {
	messages, err := q.Consume(ctx)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	for msg := range messages {
		if msg.Type != MessageType {
			continue
		}
		r.Handle(ctx, msg.Body)
	}
	return nil
}

// Handle records a single encoded event.
func (r *Recorder) Handle(ctx context.Context, body []byte) {
	var evt Event
	if err := json.Unmarshal(body, &evt); err != nil {
		log.Printf("activity decode failed: %v", err)
		return
	}
	metrics.ActivityEvents.WithLabelValues(string(evt.Kind)).Inc()
	log.Printf("activity %s: %s %s", evt.ID, evt.Kind, evt.Name)

	if r.counter == nil {
		return
	}
	day := evt.At.UTC().Format("2006-01-02")
	if err := r.counter.Incr(ctx, day, evt.Kind); err != nil {
		log.Printf("activity count failed for %s: %v", evt.ID, err)
	}
}
