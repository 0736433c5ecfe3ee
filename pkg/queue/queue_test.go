package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageEncodesPayload(t *testing.T) {
	now := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)
	msg, err := NewMessage("warm-request", map[string]interface{}{"symbol": "SPY"}, now)
	require.NoError(t, err)
	assert.Equal(t, "warm-request", msg.Type)
	assert.JSONEq(t, `{"symbol":"SPY"}`, string(msg.Payload))
	assert.NotEmpty(t, msg.ID)

	raw, err := NewMessage("warm-request", []byte(`{"symbol":"QQQ"}`), now)
	require.NoError(t, err)
	assert.Equal(t, `{"symbol":"QQQ"}`, string(raw.Payload))

	_, err = NewMessage("warm-request", []byte(`{broken`), now)
	assert.Error(t, err)
}

func TestMessageSurvivesEnvelope(t *testing.T) {
	msg, err := NewMessage("warm-request", map[string]int{"years": 5}, time.Now())
	require.NoError(t, err)
	msg.Attempts = 2
	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var back Message
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, 2, back.Attempts)
	assert.JSONEq(t, `{"years":5}`, string(back.Payload))
}

func TestDecide(t *testing.T) {
	boom := errors.New("boom")
	assert.Equal(t, outcomeDone, decide(Message{}, nil, 3))
	assert.Equal(t, outcomeRetry, decide(Message{Attempts: 0}, boom, 3))
	assert.Equal(t, outcomeRetry, decide(Message{Attempts: 2}, boom, 3))
	assert.Equal(t, outcomeDead, decide(Message{Attempts: 3}, boom, 3))
	assert.Equal(t, outcomeDead, decide(Message{}, boom, 0))
	assert.Equal(t, "retry", outcomeRetry.String())
}

type nopJob struct{ typ string }

func (j nopJob) Type() string                         { return j.typ }
func (j nopJob) Handle(context.Context, []byte) error { return nil }

func TestConfigDefaultsAndKeys(t *testing.T) {
	q := NewRedisQueue(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), Config{KeyPrefix: "test:q"}, nil)
	assert.Equal(t, 1, q.cfg.Workers)
	assert.Equal(t, 10*time.Second, q.cfg.RetryDelay)
	assert.Equal(t, "test:q:messages", q.queueKey())
	assert.Equal(t, "test:q:retry", q.retryKey())
	assert.Equal(t, "test:q:dlq", q.deadLetterKey())

	q.RegisterJob(nopJob{typ: "warm-request"})
	q.RegisterJob(nopJob{typ: "warm-request"})
	assert.Len(t, q.jobs, 1)
}

func TestStartFailsWithoutRedis(t *testing.T) {
	q := NewRedisQueue(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond}), Config{}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.Error(t, q.Start(ctx))
	assert.NoError(t, q.Stop(ctx))
}
