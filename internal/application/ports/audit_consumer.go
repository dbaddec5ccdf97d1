package ports

import "context"

// AuditConsumer drains file events from the broker and records one audit line each.
type AuditConsumer interface {
	Connect(dsn string) error
	Init() error
	DeliveryWorker(ctx context.Context)
}
