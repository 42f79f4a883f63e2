// SPDX-License-Identifier: MIT

package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisIndex keeps one posting list per cuisine term. Terms are case-folded so
// "Chinese" and "chinese" hit the same list; insertion order is preserved.
type RedisIndex struct {
	client *redis.Client
	name   string
}

// NewRedis creates an index named name on client.
func NewRedis(client *redis.Client, name string) *RedisIndex {
	return &RedisIndex{client: client, name: name}
}

func (i *RedisIndex) key(term string) string {
	return "idx:" + i.name + ":" + strings.ToLower(strings.TrimSpace(term))
}

// Query returns every id indexed under term, oldest first. An unknown term
// yields an empty result, not an error.
func (i *RedisIndex) Query(ctx context.Context, term string) ([]string, error) {
	ids, err := i.client.LRange(ctx, i.key(term), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("query index %s for %q: %w", i.name, term, err)
	}
	return ids, nil
}

// Add appends ids to the posting list for term.
func (i *RedisIndex) Add(ctx context.Context, term string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	args := make([]interface{}, len(ids))
	for n, id := range ids {
		args[n] = id
	}
	if err := i.client.RPush(ctx, i.key(term), args...).Err(); err != nil {
		return fmt.Errorf("index %s add %q: %w", i.name, term, err)
	}
	return nil
}

var _ Index = (*RedisIndex)(nil)
