// Package votes keeps answer vote counters in redis. Tallies are
// ephemeral: they live outside the authoritative store and carry no
// duplicate-vote protection.
package votes

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	fieldUp   = "up"
	fieldDown = "down"
)

type Tally struct {
	rdb *redis.Client
}

func NewTally(rdb *redis.Client) *Tally {
	return &Tally{rdb: rdb}
}

func key(answerID uint64) string {
	return fmt.Sprintf("votes:answer:%d", answerID)
}

// Upvote increments the upvote counter for an answer.
func (t *Tally) Upvote(ctx context.Context, answerID uint64) error {
	if err := t.rdb.HIncrBy(ctx, key(answerID), fieldUp, 1).Err(); err != nil {
		return fmt.Errorf("failed to record upvote: %w", err)
	}
	return nil
}

// Downvote increments the downvote counter for an answer.
func (t *Tally) Downvote(ctx context.Context, answerID uint64) error {
	if err := t.rdb.HIncrBy(ctx, key(answerID), fieldDown, 1).Err(); err != nil {
		return fmt.Errorf("failed to record downvote: %w", err)
	}
	return nil
}

// Get reads both counters for an answer. Answers without votes report zero.
func (t *Tally) Get(ctx context.Context, answerID uint64) (up, down uint64, err error) {
	fields, err := t.rdb.HGetAll(ctx, key(answerID)).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read vote tally: %w", err)
	}

	up = parseCounter(fields[fieldUp])
	down = parseCounter(fields[fieldDown])
	return up, down, nil
}

func parseCounter(s string) uint64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// MustRedis connects to redis and panics when the server is unreachable.
func MustRedis(url string) *redis.Client {
	opts, err := redis.ParseURL(url)
	if err != nil {
		panic(fmt.Sprintf("invalid redis url: %v", err))
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		panic(fmt.Sprintf("redis unreachable: %v", err))
	}
	return rdb
}
