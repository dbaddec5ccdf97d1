package ports

import (
	"context"

	"github.com/rabbitmq/amqp091-go"
)

// RabbitMQ is the broker-backed EventPublisher. Publish only enqueues; PublisherWorker
// owns the channel and does the actual sends.
type RabbitMQ interface {
	EventPublisher
	Connect(ctx context.Context, dsn string) error
	Init() error
	PublisherWorker(ctx context.Context)
	GetConn() *amqp091.Connection
}
