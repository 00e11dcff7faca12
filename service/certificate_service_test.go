package service

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certmint/certmint/adapters/store"
	"github.com/certmint/certmint/core"
)

const (
	testWallet    = "0x8ba1f109551bd432803012645ac136ddd64dba72"
	testRecipient = "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"
)

func newCertificateService(t *testing.T) (*CertificateService, *store.MemoryStore, *fakeChain, *stubPublisher) {
	t.Helper()
	mem := store.NewMemoryStore()
	chain := &fakeChain{}
	pub := &stubPublisher{}
	svc := NewCertificateService(mem, mem, &fakePinner{}, chain, pub)
	return svc, mem, chain, pub
}

func registerTestCompany(t *testing.T, mem *store.MemoryStore, contract string, credits int64) *core.Company {
	t.Helper()
	company := &core.Company{
		ID:              "company-1",
		WalletAddress:   testWallet,
		Name:            "Acme Corp",
		ContractAddress: contract,
		MintCredits:     decimal.NewFromInt(credits),
	}
	require.NoError(t, mem.CreateCompany(context.Background(), company))
	return company
}

func testIssueInput() IssueInput {
	return IssueInput{
		Title:            "Go Fundamentals",
		Description:      "Completed the Go fundamentals course",
		RecipientName:    "Jordan Doe",
		RecipientAddress: testRecipient,
		FileName:         "certificate.pdf",
		File:             strings.NewReader("%PDF-1.4 fake"),
	}
}

func TestIssueCertificate(t *testing.T) {
	ctx := context.Background()
	svc, mem, chain, pub := newCertificateService(t)
	registerTestCompany(t, mem, "0xc0de", 2)

	cert, err := svc.Issue(ctx, testWallet, testIssueInput())
	require.NoError(t, err)

	assert.Equal(t, core.CertificateMinted, cert.Status)
	assert.Equal(t, "1", cert.TokenID)
	assert.NotEmpty(t, cert.FileCID)
	assert.NotEmpty(t, cert.MetadataCID)
	assert.NotEqual(t, cert.FileCID, cert.MetadataCID)
	assert.Equal(t, strings.ToLower(testRecipient), cert.RecipientAddress)
	require.NotNil(t, cert.MintedAt)
	assert.Equal(t, 1, chain.mints)
	assert.Equal(t, 1, pub.mints)

	// One credit debited.
	company, err := mem.GetCompanyByWallet(ctx, testWallet)
	require.NoError(t, err)
	assert.True(t, company.MintCredits.Equal(decimal.NewFromInt(1)))

	// Stored and listable.
	certs, err := svc.List(ctx, testWallet)
	require.NoError(t, err)
	require.Len(t, certs, 1)
	assert.Equal(t, cert.ID, certs[0].ID)

	fetched, err := svc.Get(ctx, cert.ID)
	require.NoError(t, err)
	assert.Equal(t, cert.MintTxHash, fetched.MintTxHash)
}

func TestIssueRequiresContract(t *testing.T) {
	svc, mem, _, _ := newCertificateService(t)
	registerTestCompany(t, mem, "", 2)

	_, err := svc.Issue(context.Background(), testWallet, testIssueInput())
	assert.ErrorIs(t, err, core.ErrContractNotDeployed)
}

func TestIssueRequiresCredits(t *testing.T) {
	svc, mem, _, _ := newCertificateService(t)
	registerTestCompany(t, mem, "0xc0de", 0)

	_, err := svc.Issue(context.Background(), testWallet, testIssueInput())
	assert.ErrorIs(t, err, core.ErrInsufficientCredits)
}

func TestIssueRejectsBadRecipient(t *testing.T) {
	svc, mem, _, _ := newCertificateService(t)
	registerTestCompany(t, mem, "0xc0de", 2)

	input := testIssueInput()
	input.RecipientAddress = "not-an-address"

	_, err := svc.Issue(context.Background(), testWallet, input)
	assert.ErrorIs(t, err, core.ErrInvalidAddress)
}

func TestIssueRequiresCompany(t *testing.T) {
	svc, _, _, _ := newCertificateService(t)

	_, err := svc.Issue(context.Background(), testWallet, testIssueInput())
	assert.ErrorIs(t, err, core.ErrCompanyNotFound)
}

func TestCompanyRegisterAndDeploy(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	chain := &fakeChain{}
	svc := NewCompanyService(mem, chain)

	company, err := svc.Register(ctx, testWallet, CompanyInput{Name: "Acme Corp", Email: "ops@acme.example"})
	require.NoError(t, err)
	assert.True(t, company.MintCredits.Equal(decimal.NewFromInt(10)))

	// One company per wallet.
	_, err = svc.Register(ctx, testWallet, CompanyInput{Name: "Acme Again"})
	assert.ErrorIs(t, err, core.ErrCompanyExists)

	deployed, err := svc.DeployContract(ctx, testWallet)
	require.NoError(t, err)
	assert.NotEmpty(t, deployed.ContractAddress)
	assert.Equal(t, 1, chain.deploys)

	// And at most one contract.
	_, err = svc.DeployContract(ctx, testWallet)
	assert.ErrorIs(t, err, core.ErrContractAlreadyDeployed)
}

func TestCompanyUpdate(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	svc := NewCompanyService(mem, &fakeChain{})

	_, err := svc.Register(ctx, testWallet, CompanyInput{Name: "Acme Corp"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, testWallet, CompanyInput{Description: "We certify things"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", updated.Name, "empty fields left untouched")
	assert.Equal(t, "We certify things", updated.Description)
}
