// Package events carries collection invalidations between server replicas.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const Channel = "coal:site:invalidate"

// Invalidation names the collections another replica has written.
type Invalidation struct {
	Collections []string `json:"collections"`
	Origin      string   `json:"origin"`
}

type Bus interface {
	Publish(ctx context.Context, collections []string) error
	// Subscribe delivers invalidations from other replicas until ctx is done.
	Subscribe(ctx context.Context, fn func(Invalidation)) error
	Close() error
}

//
// REDIS
//

type RedisBus struct {
	client *redis.Client
	origin string
	log    *zap.Logger
}

func NewRedisBus(client *redis.Client, log *zap.Logger) *RedisBus {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisBus{client: client, origin: uuid.NewString(), log: log}
}

// Dial connects to addr and verifies the server answers.
func Dial(ctx context.Context, addr, password string, log *zap.Logger) (*RedisBus, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return NewRedisBus(client, log), nil
}

func (b *RedisBus) Origin() string { return b.origin }

func (b *RedisBus) Publish(ctx context.Context, collections []string) error {
	if len(collections) == 0 {
		return nil
	}
	payload, err := json.Marshal(Invalidation{Collections: collections, Origin: b.origin})
	if err != nil {
		return fmt.Errorf("marshal invalidation: %w", err)
	}
	if err := b.client.Publish(ctx, Channel, payload).Err(); err != nil {
		return fmt.Errorf("publish invalidation: %w", err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, fn func(Invalidation)) error {
	sub := b.client.Subscribe(ctx, Channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", Channel, err)
	}
	b.log.Info("listening for invalidations", zap.String("channel", Channel), zap.String("origin", b.origin))

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var inv Invalidation
			if err := json.Unmarshal([]byte(msg.Payload), &inv); err != nil {
				b.log.Warn("dropping malformed invalidation", zap.Error(err))
				continue
			}
			if inv.Origin == b.origin {
				continue
			}
			b.log.Debug("invalidation received", zap.Strings("collections", inv.Collections), zap.String("origin", inv.Origin))
			fn(inv)
		}
	}
}

func (b *RedisBus) Close() error {
	return b.client.Close()
}

//
// LOCAL
//

// LocalBus is used by a single replica. Publishing is a no-op.
type LocalBus struct{}

func (LocalBus) Publish(context.Context, []string) error { return nil }

func (LocalBus) Subscribe(ctx context.Context, _ func(Invalidation)) error {
	<-ctx.Done()
	return nil
}

func (LocalBus) Close() error { return nil }
