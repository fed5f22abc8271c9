// Package redis publishes committed status changes on a Redis Pub/Sub channel.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"medmarket/internal/core/domain/model/kernel"

	goredis "github.com/redis/go-redis/v9"
)

// Config holds the connection settings of the event channel.
type Config struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

// NewClient connects and pings Redis.
func NewClient(ctx context.Context, cfg Config) (*goredis.Client, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis addr is empty")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// StatusChangedMessage is the JSON payload of one event.
type StatusChangedMessage struct {
	AggregateID   string    `json:"aggregateId"`
	AggregateKind string    `json:"kind"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	OccurredAt    time.Time `json:"at"`
}

// StatusPublisher implements ports.EventPublisher.
type StatusPublisher struct {
	client  goredis.Cmdable
	channel string
}

func NewStatusPublisher(client goredis.Cmdable, channel string) *StatusPublisher {
	return &StatusPublisher{client: client, channel: channel}
}

// Publish sends all events in one pipeline, in order.
func (p *StatusPublisher) Publish(ctx context.Context, events ...kernel.StatusChanged) error {
	if len(events) == 0 {
		return nil
	}

	payloads := make([][]byte, 0, len(events))
	for _, e := range events {
		payload, err := json.Marshal(StatusChangedMessage{
			AggregateID:   e.AggregateID.String(),
			AggregateKind: e.AggregateKind,
			From:          e.From,
			To:            e.To,
			OccurredAt:    e.OccurredAt,
		})
		if err != nil {
			return fmt.Errorf("encode status change: %w", err)
		}
		payloads = append(payloads, payload)
	}

	_, err := p.client.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, payload := range payloads {
			pipe.Publish(ctx, p.channel, payload)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("publish %d status changes: %w", len(events), err)
	}
	return nil
}
