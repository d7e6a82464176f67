package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/domain"
	pkglog "github.com/weiawesome/wes-io-live/scout-elasticsearch/pkg/log"
)

type Config struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// ConfluentConsumer implements ChangeConsumer using confluent-kafka-go.
type ConfluentConsumer struct {
	consumer  *kafka.Consumer
	topic     string
	handler   ChangeHandler
	closeOnce sync.Once
}

// NewConfluentConsumer creates a Kafka consumer for article change events.
func NewConfluentConsumer(cfg Config, handler ChangeHandler) (*ConfluentConsumer, error) {
	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  cfg.Brokers,
		"group.id":           cfg.GroupID,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
	}

	return &ConfluentConsumer{
		consumer: c,
		topic:    cfg.Topic,
		handler:  handler,
	}, nil
}

// Run subscribes and consumes until ctx is done, then closes the consumer.
func (cc *ConfluentConsumer) Run(ctx context.Context) error {
	if err := cc.consumer.Subscribe(cc.topic, nil); err != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", cc.topic, err)
	}

	l := pkglog.L()
	l.Info().Str("topic", cc.topic).Msg("change consumer started")

	for {
		select {
		case <-ctx.Done():
			l.Info().Msg("change consumer shutting down")
			return cc.Close()
		default:
			msg, err := cc.consumer.ReadMessage(100 * time.Millisecond)
			if err != nil {
				var kerr kafka.Error
				if errors.As(err, &kerr) && kerr.Code() == kafka.ErrTimedOut {
					continue
				}
				l.Error().Err(err).Msg("change consumer error")
				continue
			}

			cc.processMessage(ctx, msg)
		}
	}
}

func (cc *ConfluentConsumer) processMessage(ctx context.Context, msg *kafka.Message) {
	l := pkglog.L()

	var event domain.ChangeEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		l.Error().Err(err).Msg("failed to unmarshal change event")
		return
	}
	if event.ID == "" {
		l.Warn().Str("op", string(event.Op)).Msg("change event without id dropped")
		return
	}

	l.Debug().
		Str("op", string(event.Op)).
		Str("article_id", event.ID).
		Msg("received change event")

	ctx = pkglog.With(ctx, "article_id", event.ID)
	if err := cc.handler.HandleChange(ctx, &event); err != nil {
		l.Error().Err(err).Str("op", string(event.Op)).Str("article_id", event.ID).Msg("failed to handle change event")
	}
}

// Close releases the consumer. It is safe to call more than once.
func (cc *ConfluentConsumer) Close() error {
	var err error
	cc.closeOnce.Do(func() {
		if cerr := cc.consumer.Close(); cerr != nil {
			err = fmt.Errorf("failed to close kafka consumer: %w", cerr)
		}
	})
	return err
}
