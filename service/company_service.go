package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/certmint/certmint/core"
	"github.com/certmint/certmint/ports"
)

// initialMintCredits is granted to every newly registered company.
var initialMintCredits = decimal.NewFromInt(10)

// CompanyInput carries the mutable fields of a company profile.
type CompanyInput struct {
	Name        string
	Email       string
	Description string
}

// CompanyService manages issuer profiles and their certificate contracts.
type CompanyService struct {
	companies ports.CompanyStore
	chain     ports.ContractClient
}

// NewCompanyService creates a new company service
func NewCompanyService(companies ports.CompanyStore, chain ports.ContractClient) *CompanyService {
	return &CompanyService{
		companies: companies,
		chain:     chain,
	}
}

// Register creates the company profile for a wallet. One company per wallet.
func (s *CompanyService) Register(ctx context.Context, wallet string, input CompanyInput) (*core.Company, error) {
	if _, err := s.companies.GetCompanyByWallet(ctx, wallet); err == nil {
		return nil, core.ErrCompanyExists
	} else if !errors.Is(err, core.ErrCompanyNotFound) {
		return nil, err
	}

	company := &core.Company{
		ID:            uuid.New().String(),
		WalletAddress: wallet,
		Name:          input.Name,
		Email:         input.Email,
		Description:   input.Description,
		MintCredits:   initialMintCredits,
	}

	if err := s.companies.CreateCompany(ctx, company); err != nil {
		return nil, err
	}

	return company, nil
}

// Get fetches the company registered for a wallet.
func (s *CompanyService) Get(ctx context.Context, wallet string) (*core.Company, error) {
	return s.companies.GetCompanyByWallet(ctx, wallet)
}

// Update applies the non-empty fields of input to the company profile.
func (s *CompanyService) Update(ctx context.Context, wallet string, input CompanyInput) (*core.Company, error) {
	company, err := s.companies.GetCompanyByWallet(ctx, wallet)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		company.Name = input.Name
	}
	if input.Email != "" {
		company.Email = input.Email
	}
	if input.Description != "" {
		company.Description = input.Description
	}

	if err := s.companies.SaveCompany(ctx, company); err != nil {
		return nil, err
	}

	return company, nil
}

// DeployContract deploys the certificate contract for a company and records
// its address. A company deploys at most one contract.
func (s *CompanyService) DeployContract(ctx context.Context, wallet string) (*core.Company, error) {
	company, err := s.companies.GetCompanyByWallet(ctx, wallet)
	if err != nil {
		return nil, err
	}

	if company.ContractAddress != "" {
		return nil, core.ErrContractAlreadyDeployed
	}

	address, txHash, err := s.chain.Deploy(ctx, company.Name)
	if err != nil {
		return nil, fmt.Errorf("contract deployment failed: %w", err)
	}

	company.ContractAddress = address
	company.DeployTxHash = txHash
	if err := s.companies.SaveCompany(ctx, company); err != nil {
		return nil, err
	}

	return company, nil
}
