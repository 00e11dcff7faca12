package ports

import (
	"context"

	"github.com/certmint/certmint/core"
)

// IdentityStore persists wallet identities and their challenge nonces.
// Implementations must serve read-after-write consistency per address: a
// verify that follows a nonce issue for the same address observes the nonce
// that issue wrote.
type IdentityStore interface {
	UpsertIdentity(ctx context.Context, identity *core.Identity) error
	GetIdentity(ctx context.Context, address string) (*core.Identity, error)
	SaveIdentity(ctx context.Context, identity *core.Identity) error
}

// CompanyStore persists issuer profiles.
type CompanyStore interface {
	CreateCompany(ctx context.Context, company *core.Company) error
	GetCompanyByWallet(ctx context.Context, address string) (*core.Company, error)
	SaveCompany(ctx context.Context, company *core.Company) error
}

// CertificateStore persists issued certificates.
type CertificateStore interface {
	CreateCertificate(ctx context.Context, cert *core.Certificate) error
	GetCertificate(ctx context.Context, id string) (*core.Certificate, error)
	ListCertificates(ctx context.Context, companyID string) ([]core.Certificate, error)
	SaveCertificate(ctx context.Context, cert *core.Certificate) error
}
