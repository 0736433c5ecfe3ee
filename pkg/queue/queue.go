package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Job processes every message of one type.
type Job interface {
	Type() string
	Handle(ctx context.Context, payload []byte) error
}

// Config contains the configuration for the queue.
type Config struct {
	Workers    int           // number of workers
	RetryLimit int           // number of maximum retries
	RetryDelay time.Duration // time delay between retries
	KeyPrefix  string
	// PollTimeout bounds each blocking pop so workers notice shutdown.
	PollTimeout time.Duration
}

func (c *Config) withDefaults() {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 10 * time.Second
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "finseason:queue"
	}
	if c.PollTimeout <= 0 {
		c.PollTimeout = time.Second
	}
}

// Message is the envelope stored in Redis.
type Message struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	Attempts   int             `json:"attempts"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// NewMessage wraps payload (raw bytes are kept as is, anything else is JSON encoded).
func NewMessage(msgType string, payload interface{}, now time.Time) (Message, error) {
	var raw []byte
	switch p := payload.(type) {
	case []byte:
		raw = p
	case json.RawMessage:
		raw = p
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return Message{}, fmt.Errorf("marshal payload: %w", err)
		}
		raw = b
	}
	if !json.Valid(raw) {
		return Message{}, fmt.Errorf("payload of %s is not valid JSON", msgType)
	}
	return Message{
		ID:         uuid.NewString(),
		Type:       msgType,
		Payload:    raw,
		EnqueuedAt: now,
	}, nil
}

type outcome int

const (
	outcomeDone outcome = iota
	outcomeRetry
	outcomeDead
)

func (o outcome) String() string {
	switch o {
	case outcomeRetry:
		return "retry"
	case outcomeDead:
		return "dead"
	default:
		return "done"
	}
}

// decide maps a handler result to what happens with msg next.
func decide(msg Message, err error, retryLimit int) outcome {
	switch {
	case err == nil:
		return outcomeDone
	case msg.Attempts < retryLimit:
		return outcomeRetry
	default:
		return outcomeDead
	}
}
