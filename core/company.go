package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Company is a registered issuer profile, one per wallet address.
type Company struct {
	ID              string          `gorm:"primaryKey" json:"id"`
	WalletAddress   string          `gorm:"uniqueIndex;not null" json:"walletAddress"`
	Name            string          `gorm:"not null" json:"name"`
	Email           string          `json:"email"`
	Description     string          `json:"description"`
	ContractAddress string          `json:"contractAddress,omitempty"`
	DeployTxHash    string          `json:"deployTxHash,omitempty"`
	MintCredits     decimal.Decimal `gorm:"type:numeric" json:"mintCredits"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// CertificateStatus tracks a certificate through the mint pipeline.
type CertificateStatus string

const (
	CertificatePending CertificateStatus = "pending"
	CertificateMinted  CertificateStatus = "minted"
)

// Certificate is one issued certificate, pinned to IPFS and minted on chain.
type Certificate struct {
	ID               string            `gorm:"primaryKey" json:"id"`
	CompanyID        string            `gorm:"index;not null" json:"companyId"`
	TokenID          string            `json:"tokenId"`
	Title            string            `gorm:"not null" json:"title"`
	Description      string            `json:"description"`
	RecipientName    string            `gorm:"not null" json:"recipientName"`
	RecipientAddress string            `gorm:"index" json:"recipientAddress"`
	FileCID          string            `json:"fileCid"`
	MetadataCID      string            `json:"metadataCid"`
	MintTxHash       string            `json:"mintTxHash"`
	Status           CertificateStatus `gorm:"not null" json:"status"`
	MintedAt         *time.Time        `json:"mintedAt"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"-"`
}
