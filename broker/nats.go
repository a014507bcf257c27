// Package broker публикует события лиги в NATS.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Dosada05/tennis-league/models"
	"github.com/nats-io/nats.go"
)

const SubjectPrefix = "league.challenge."

// conn - часть *nats.Conn, нужная публикатору.
type conn interface {
	Publish(subj string, data []byte) error
}

type Publisher struct {
	conn   conn
	nc     *nats.Conn
	logger *slog.Logger
}

// Connect подключается к NATS. token может быть пустым.
func Connect(url, token string, logger *slog.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.Name("tennis-league"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", slog.Any("error", err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", slog.String("url", c.ConnectedUrl()))
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats at %s: %w", url, err)
	}
	return &Publisher{conn: nc, nc: nc, logger: logger}, nil
}

func newPublisher(c conn, logger *slog.Logger) *Publisher {
	return &Publisher{conn: c, logger: logger}
}

func Subject(t models.EventType) string {
	return SubjectPrefix + string(t)
}

func (p *Publisher) Publish(_ context.Context, event models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.Type, err)
	}
	if err := p.conn.Publish(Subject(event.Type), data); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}
	return nil
}

// Close отправляет буферизованные сообщения и закрывает соединение.
func (p *Publisher) Close() {
	if p.nc == nil {
		return
	}
	if err := p.nc.Drain(); err != nil {
		p.logger.Warn("nats drain failed", slog.Any("error", err))
	}
}
