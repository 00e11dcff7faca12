package chain

import (
	"context"
	"errors"

	"github.com/certmint/certmint/ports"
)

// ErrChainDisabled is returned when no RPC node is configured.
var ErrChainDisabled = errors.New("chain client not configured")

// Disabled is a ContractClient used when the deployment runs without an RPC
// node; every operation fails with ErrChainDisabled.
type Disabled struct{}

func (Disabled) Deploy(ctx context.Context, companyName string) (string, string, error) {
	return "", "", ErrChainDisabled
}

func (Disabled) Mint(ctx context.Context, contractAddress, recipient, tokenURI string) (*ports.MintResult, error) {
	return nil, ErrChainDisabled
}
