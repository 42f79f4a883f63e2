// SPDX-License-Identifier: MIT

package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/dinebot/concierge/internal/log"
	"github.com/dinebot/concierge/internal/metrics"
)

// receiveScript atomically pops one ready message and parks it in-flight under
// a fresh receipt handle with a visibility deadline.
// KEYS: ready list, inflight hash, deadline zset. ARGV: handle, deadline score.
var receiveScript = redis.NewScript(`
local raw = redis.call('RPOP', KEYS[1])
if not raw then
  return false
end
redis.call('HSET', KEYS[2], ARGV[1], raw)
redis.call('ZADD', KEYS[3], ARGV[2], ARGV[1])
return raw
`)

// reclaimScript returns every in-flight message whose visibility deadline has
// passed to the ready list.
// KEYS: deadline zset, inflight hash, ready list. ARGV: now score.
var reclaimScript = redis.NewScript(`
local expired = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
for _, handle in ipairs(expired) do
  local raw = redis.call('HGET', KEYS[2], handle)
  if raw then
    redis.call('LPUSH', KEYS[3], raw)
  end
  redis.call('HDEL', KEYS[2], handle)
  redis.call('ZREM', KEYS[1], handle)
end
return #expired
`)

// RedisQueue is a Redis-backed Queue. One ready list feeds consumers; received
// messages move to an in-flight hash keyed by receipt handle and come back
// after the visibility timeout unless deleted first.
type RedisQueue struct {
	client     *redis.Client
	name       string
	visibility time.Duration
	logger     zerolog.Logger
	clock      func() time.Time
}

// NewRedis creates a queue named name on client. The visibility timeout bounds
// how long a received message stays invisible before automatic redelivery.
func NewRedis(client *redis.Client, name string, visibility time.Duration) *RedisQueue {
	return &RedisQueue{
		client:     client,
		name:       name,
		visibility: visibility,
		logger:     log.WithComponent("queue").With().Str(log.FieldQueue, name).Logger(),
		clock:      time.Now,
	}
}

func (q *RedisQueue) readyKey() string    { return "q:" + q.name + ":ready" }
func (q *RedisQueue) inflightKey() string { return "q:" + q.name + ":inflight" }
func (q *RedisQueue) deadlineKey() string { return "q:" + q.name + ":deadlines" }

// Enqueue appends one message to the ready list.
func (q *RedisQueue) Enqueue(ctx context.Context, payload []byte) (string, error) {
	env := envelope{
		ID:         uuid.New().String(),
		Body:       json.RawMessage(payload),
		EnqueuedAt: q.clock().UTC(),
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("marshal envelope: %w", err)
	}

	if err := q.client.LPush(ctx, q.readyKey(), raw).Err(); err != nil {
		metrics.IncQueueError("enqueue")
		return "", fmt.Errorf("enqueue to %s: %w", q.name, err)
	}

	q.logger.Debug().
		Str("event", "queue.enqueue").
		Str(log.FieldMessageID, env.ID).
		Msg("message enqueued")
	return env.ID, nil
}

// Receive reclaims expired in-flight messages, then pops up to max ready
// messages, each under a fresh receipt handle.
func (q *RedisQueue) Receive(ctx context.Context, max int) ([]Message, error) {
	if err := q.reclaim(ctx); err != nil {
		// Reclaim failure is not fatal for the poll; expired messages will be
		// picked up on a later cycle.
		metrics.IncQueueError("reclaim")
		q.logger.Warn().Err(err).
			Str("event", "queue.reclaim_failed").
			Msg("failed to reclaim expired messages")
	}

	deadline := q.clock().Add(q.visibility).UnixMilli()
	messages := make([]Message, 0, max)
	for i := 0; i < max; i++ {
		handle := uuid.New().String()
		raw, err := receiveScript.Run(ctx, q.client,
			[]string{q.readyKey(), q.inflightKey(), q.deadlineKey()},
			handle, deadline,
		).Text()
		if errors.Is(err, redis.Nil) {
			break // queue drained
		}
		if err != nil {
			metrics.IncQueueError("receive")
			return messages, fmt.Errorf("receive from %s: %w", q.name, err)
		}

		var env envelope
		if err := json.Unmarshal([]byte(raw), &env); err != nil {
			// Undecodable entry: drop it rather than poison every future poll.
			q.logger.Error().Err(err).
				Str("event", "queue.envelope_corrupt").
				Msg("dropping undecodable queue entry")
			_ = q.Delete(ctx, handle)
			continue
		}

		messages = append(messages, Message{
			ID:            env.ID,
			Body:          env.Body,
			ReceiptHandle: handle,
		})
	}
	return messages, nil
}

// Delete acknowledges a message. Deleting an already-reclaimed handle is a
// no-op: the message is back in the ready list and will be redelivered.
func (q *RedisQueue) Delete(ctx context.Context, receiptHandle string) error {
	pipe := q.client.TxPipeline()
	pipe.HDel(ctx, q.inflightKey(), receiptHandle)
	pipe.ZRem(ctx, q.deadlineKey(), receiptHandle)
	if _, err := pipe.Exec(ctx); err != nil {
		metrics.IncQueueError("delete")
		return fmt.Errorf("delete from %s: %w", q.name, err)
	}
	return nil
}

func (q *RedisQueue) reclaim(ctx context.Context) error {
	n, err := reclaimScript.Run(ctx, q.client,
		[]string{q.deadlineKey(), q.inflightKey(), q.readyKey()},
		q.clock().UnixMilli(),
	).Int()
	if err != nil {
		return err
	}
	if n > 0 {
		metrics.AddQueueRedeliveries(n)
		q.logger.Info().
			Str("event", "queue.redelivery").
			Int("messages", n).
			Msg("returned expired in-flight messages to the ready list")
	}
	return nil
}

// Ping verifies the backing connection, for readiness checks.
func (q *RedisQueue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

var _ Queue = (*RedisQueue)(nil)
