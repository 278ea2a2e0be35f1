// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/models"
	"github.com/redis/go-redis/v9"
)

var ErrRelayClosed = errors.New("realtime relay subscription closed")

// RedisRelay publishes events to a Redis pub/sub channel and, while Run is
// active, delivers every event received on that channel into the local hub.
// Each instance therefore sees the events of all instances exactly once,
// its own included.
type RedisRelay struct {
	client  *redis.Client
	channel string
	hub     *Hub
	logger  *logger.Logger
}

// NewRedisRelay connects to redisURL and checks the connection.
func NewRedisRelay(ctx context.Context, redisURL, channel string, hub *Hub, log *logger.Logger) (*RedisRelay, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisRelayWithClient(client, channel, hub, log), nil
}

// NewRedisRelayWithClient builds a relay on an existing client.
func NewRedisRelayWithClient(client *redis.Client, channel string, hub *Hub, log *logger.Logger) *RedisRelay {
	return &RedisRelay{
		client:  client,
		channel: channel,
		hub:     hub,
		logger:  log.Component("redis-relay"),
	}
}

// Name identifies the relay among the background workers.
func (r *RedisRelay) Name() string {
	return "redis-relay"
}

func (r *RedisRelay) Publish(ctx context.Context, event models.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err = r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Run subscribes to the relay channel and blocks until ctx is done.
func (r *RedisRelay) Run(ctx context.Context) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s: %w", r.channel, err)
	}
	r.logger.Info().Str("channel", r.channel).Msg("relay subscribed")

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return ErrRelayClosed
			}
			r.deliver(msg.Payload)
		}
	}
}

func (r *RedisRelay) deliver(payload string) {
	var event models.Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		r.logger.Warn().Err(err).Msg("skipping malformed relay message")
		return
	}
	if event.NoteID == "" {
		return
	}
	r.hub.Deliver(event)
}

func (r *RedisRelay) Close() error {
	return r.client.Close()
}
