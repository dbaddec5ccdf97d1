package ports

import (
	"context"

	"member-portal-api/internal/domain/file"
)

type EventPublisher interface {
	Publish(ctx context.Context, e file.Event)
}
