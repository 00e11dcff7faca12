package ports

import "context"

// MintResult is the on-chain outcome of a certificate mint.
type MintResult struct {
	TokenID string
	TxHash  string
}

// ContractClient deploys certificate contracts and mints tokens on them.
type ContractClient interface {
	Deploy(ctx context.Context, companyName string) (contractAddress, txHash string, err error)
	Mint(ctx context.Context, contractAddress, recipient, tokenURI string) (*MintResult, error)
}
