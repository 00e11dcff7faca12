package ports

import (
	"context"

	"github.com/certmint/certmint/core"
)

// EventPublisher publishes domain events to notify other instances
type EventPublisher interface {
	PublishLogout(ctx context.Context, address string, tokenID string) error
	PublishCertificateMinted(ctx context.Context, cert *core.Certificate) error
}
