package store

import (
	"context"
	"sync"

	"github.com/certmint/certmint/core"
)

// MemoryStore is an in-memory implementation of the store interfaces,
// primarily intended for testing.
type MemoryStore struct {
	identities   map[string]core.Identity
	companies    map[string]core.Company
	certificates map[string]core.Certificate
	mu           sync.RWMutex
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		identities:   make(map[string]core.Identity),
		companies:    make(map[string]core.Company),
		certificates: make(map[string]core.Certificate),
	}
}

func (s *MemoryStore) UpsertIdentity(ctx context.Context, identity *core.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.identities[identity.Address]; ok {
		existing.Nonce = identity.Nonce
		s.identities[identity.Address] = existing
		*identity = existing
		return nil
	}
	s.identities[identity.Address] = *identity
	return nil
}

func (s *MemoryStore) GetIdentity(ctx context.Context, address string) (*core.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	identity, ok := s.identities[address]
	if !ok {
		return nil, core.ErrIdentityNotFound
	}
	return &identity, nil
}

func (s *MemoryStore) SaveIdentity(ctx context.Context, identity *core.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identities[identity.Address] = *identity
	return nil
}

func (s *MemoryStore) CreateCompany(ctx context.Context, company *core.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.companies {
		if c.WalletAddress == company.WalletAddress {
			return core.ErrCompanyExists
		}
	}
	s.companies[company.ID] = *company
	return nil
}

func (s *MemoryStore) GetCompanyByWallet(ctx context.Context, address string) (*core.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.companies {
		if c.WalletAddress == address {
			company := c
			return &company, nil
		}
	}
	return nil, core.ErrCompanyNotFound
}

func (s *MemoryStore) SaveCompany(ctx context.Context, company *core.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.companies[company.ID] = *company
	return nil
}

func (s *MemoryStore) CreateCertificate(ctx context.Context, cert *core.Certificate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.certificates[cert.ID] = *cert
	return nil
}

func (s *MemoryStore) GetCertificate(ctx context.Context, id string) (*core.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cert, ok := s.certificates[id]
	if !ok {
		return nil, core.ErrCertificateNotFound
	}
	return &cert, nil
}

func (s *MemoryStore) ListCertificates(ctx context.Context, companyID string) ([]core.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var certs []core.Certificate
	for _, c := range s.certificates {
		if c.CompanyID == companyID {
			certs = append(certs, c)
		}
	}
	return certs, nil
}

func (s *MemoryStore) SaveCertificate(ctx context.Context, cert *core.Certificate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.certificates[cert.ID] = *cert
	return nil
}
