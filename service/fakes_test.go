package service

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/certmint/certmint/core"
	"github.com/certmint/certmint/ports"
)

type stubPublisher struct {
	mu      sync.Mutex
	logouts int
	mints   int
}

func (p *stubPublisher) PublishLogout(ctx context.Context, address, tokenID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logouts++
	return nil
}

func (p *stubPublisher) PublishCertificateMinted(ctx context.Context, cert *core.Certificate) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mints++
	return nil
}

type fakePinner struct {
	pins int
}

func (p *fakePinner) PinFile(ctx context.Context, name string, r io.Reader) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	p.pins++
	return fmt.Sprintf("QmFile%d", p.pins), nil
}

func (p *fakePinner) PinJSON(ctx context.Context, v any) (string, error) {
	p.pins++
	return fmt.Sprintf("QmMeta%d", p.pins), nil
}

type fakeChain struct {
	deploys int
	mints   int
	mintErr error
}

func (c *fakeChain) Deploy(ctx context.Context, companyName string) (string, string, error) {
	c.deploys++
	return "0x000000000000000000000000000000000000c0de", "0xdeadbeef", nil
}

func (c *fakeChain) Mint(ctx context.Context, contractAddress, recipient, tokenURI string) (*ports.MintResult, error) {
	if c.mintErr != nil {
		return nil, c.mintErr
	}
	c.mints++
	return &ports.MintResult{
		TokenID: fmt.Sprintf("%d", c.mints),
		TxHash:  "0xfeedface",
	}, nil
}
