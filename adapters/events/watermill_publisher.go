package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/certmint/certmint/core"
	"github.com/certmint/certmint/ports"
)

const (
	TopicLogout = "certmint.auth.logout"
	TopicMinted = "certmint.certificate.minted"
)

// LogoutEvent represents a logout event
type LogoutEvent struct {
	Address string `json:"address"`
	TokenID string `json:"token_id"`
}

// MintedEvent represents a certificate minted event
type MintedEvent struct {
	CertificateID    string `json:"certificate_id"`
	CompanyID        string `json:"company_id"`
	TokenID          string `json:"token_id"`
	RecipientAddress string `json:"recipient_address"`
	MetadataCID      string `json:"metadata_cid"`
	TxHash           string `json:"tx_hash"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishLogout publishes a logout event
func (p *WatermillPublisher) PublishLogout(ctx context.Context, address string, tokenID string) error {
	event := LogoutEvent{
		Address: address,
		TokenID: tokenID,
	}
	return p.publish(TopicLogout, tokenID, event)
}

// PublishCertificateMinted publishes a certificate minted event
func (p *WatermillPublisher) PublishCertificateMinted(ctx context.Context, cert *core.Certificate) error {
	event := MintedEvent{
		CertificateID:    cert.ID,
		CompanyID:        cert.CompanyID,
		TokenID:          cert.TokenID,
		RecipientAddress: cert.RecipientAddress,
		MetadataCID:      cert.MetadataCID,
		TxHash:           cert.MintTxHash,
	}
	return p.publish(TopicMinted, cert.ID, event)
}

func (p *WatermillPublisher) publish(topic, id string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(id, payload)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
