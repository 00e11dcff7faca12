package ports

import (
	"context"
	"io"
)

// Pinner pins content to IPFS through a pinning service and returns the CID.
type Pinner interface {
	PinFile(ctx context.Context, name string, r io.Reader) (string, error)
	PinJSON(ctx context.Context, v any) (string, error)
}
