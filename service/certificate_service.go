package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/certmint/certmint/core"
	"github.com/certmint/certmint/internal/eth"
	"github.com/certmint/certmint/ports"
)

var one = decimal.NewFromInt(1)

// IssueInput carries everything needed to issue one certificate.
type IssueInput struct {
	Title            string
	Description      string
	RecipientName    string
	RecipientAddress string
	FileName         string
	File             io.Reader
}

// metadata is the ERC-721 token metadata document pinned to IPFS.
type metadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []attribute `json:"attributes"`
}

type attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// CertificateService runs the issuance pipeline: pin file, pin metadata,
// mint, record.
type CertificateService struct {
	certificates ports.CertificateStore
	companies    ports.CompanyStore
	pinner       ports.Pinner
	chain        ports.ContractClient
	eventPub     ports.EventPublisher
}

// NewCertificateService creates a new certificate service
func NewCertificateService(
	certificates ports.CertificateStore,
	companies ports.CompanyStore,
	pinner ports.Pinner,
	chain ports.ContractClient,
	eventPub ports.EventPublisher,
) *CertificateService {
	return &CertificateService{
		certificates: certificates,
		companies:    companies,
		pinner:       pinner,
		chain:        chain,
		eventPub:     eventPub,
	}
}

// Issue pins the certificate file and metadata to IPFS, mints a token to the
// recipient and records the certificate. One mint credit is debited.
func (s *CertificateService) Issue(ctx context.Context, wallet string, input IssueInput) (*core.Certificate, error) {
	if !eth.IsValidAddress(input.RecipientAddress) {
		return nil, core.ErrInvalidAddress
	}

	company, err := s.companies.GetCompanyByWallet(ctx, wallet)
	if err != nil {
		return nil, err
	}
	if company.ContractAddress == "" {
		return nil, core.ErrContractNotDeployed
	}
	if company.MintCredits.LessThan(one) {
		return nil, core.ErrInsufficientCredits
	}

	fileCID, err := s.pinner.PinFile(ctx, input.FileName, input.File)
	if err != nil {
		return nil, err
	}

	meta := metadata{
		Name:        input.Title,
		Description: input.Description,
		Image:       "ipfs://" + fileCID,
		Attributes: []attribute{
			{TraitType: "Recipient", Value: input.RecipientName},
			{TraitType: "Issuer", Value: company.Name},
			{TraitType: "Issued At", Value: time.Now().UTC().Format(time.RFC3339)},
		},
	}

	metaCID, err := s.pinner.PinJSON(ctx, meta)
	if err != nil {
		return nil, err
	}

	recipient := eth.NormalizeAddress(input.RecipientAddress)
	mint, err := s.chain.Mint(ctx, company.ContractAddress, recipient, "ipfs://"+metaCID)
	if err != nil {
		return nil, fmt.Errorf("mint failed: %w", err)
	}

	now := time.Now()
	cert := &core.Certificate{
		ID:               uuid.New().String(),
		CompanyID:        company.ID,
		TokenID:          mint.TokenID,
		Title:            input.Title,
		Description:      input.Description,
		RecipientName:    input.RecipientName,
		RecipientAddress: recipient,
		FileCID:          fileCID,
		MetadataCID:      metaCID,
		MintTxHash:       mint.TxHash,
		Status:           core.CertificateMinted,
		MintedAt:         &now,
	}

	if err := s.certificates.CreateCertificate(ctx, cert); err != nil {
		return nil, err
	}

	company.MintCredits = company.MintCredits.Sub(one)
	if err := s.companies.SaveCompany(ctx, company); err != nil {
		return nil, err
	}

	if err := s.eventPub.PublishCertificateMinted(ctx, cert); err != nil {
		log.Printf("warning: failed to publish minted event: %v", err)
	}

	return cert, nil
}

// List returns all certificates issued by the wallet's company.
func (s *CertificateService) List(ctx context.Context, wallet string) ([]core.Certificate, error) {
	company, err := s.companies.GetCompanyByWallet(ctx, wallet)
	if err != nil {
		return nil, err
	}
	return s.certificates.ListCertificates(ctx, company.ID)
}

// Get fetches a single certificate by id. Public; used by verification pages.
func (s *CertificateService) Get(ctx context.Context, id string) (*core.Certificate, error) {
	return s.certificates.GetCertificate(ctx, id)
}
