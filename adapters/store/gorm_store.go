package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/certmint/certmint/core"
)

// GormStore backs the identity, company and certificate stores with a
// relational database through gorm.
type GormStore struct {
	db *gorm.DB
}

// OpenPostgres opens a pooled postgres connection and migrates the schema.
func OpenPostgres(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := db.AutoMigrate(&core.Identity{}, &core.Company{}, &core.Certificate{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &GormStore{db: db}, nil
}

// NewGormStore wraps an already-open gorm handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// UpsertIdentity creates the identity record or replaces its nonce if one
// already exists for the address.
func (s *GormStore) UpsertIdentity(ctx context.Context, identity *core.Identity) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"nonce", "updated_at"}),
	}).Create(identity).Error
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *GormStore) GetIdentity(ctx context.Context, address string) (*core.Identity, error) {
	var identity core.Identity
	err := s.db.WithContext(ctx).First(&identity, "address = ?", address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}
	return &identity, nil
}

func (s *GormStore) SaveIdentity(ctx context.Context, identity *core.Identity) error {
	if err := s.db.WithContext(ctx).Save(identity).Error; err != nil {
		return fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *GormStore) CreateCompany(ctx context.Context, company *core.Company) error {
	err := s.db.WithContext(ctx).Create(company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return core.ErrCompanyExists
		}
		return fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *GormStore) GetCompanyByWallet(ctx context.Context, address string) (*core.Company, error) {
	var company core.Company
	err := s.db.WithContext(ctx).First(&company, "wallet_address = ?", address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}
	return &company, nil
}

func (s *GormStore) SaveCompany(ctx context.Context, company *core.Company) error {
	if err := s.db.WithContext(ctx).Save(company).Error; err != nil {
		return fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *GormStore) CreateCertificate(ctx context.Context, cert *core.Certificate) error {
	if err := s.db.WithContext(ctx).Create(cert).Error; err != nil {
		return fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *GormStore) GetCertificate(ctx context.Context, id string) (*core.Certificate, error) {
	var cert core.Certificate
	err := s.db.WithContext(ctx).First(&cert, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.ErrCertificateNotFound
		}
		return nil, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}
	return &cert, nil
}

func (s *GormStore) ListCertificates(ctx context.Context, companyID string) ([]core.Certificate, error) {
	var certs []core.Certificate
	err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&certs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}
	return certs, nil
}

func (s *GormStore) SaveCertificate(ctx context.Context, cert *core.Certificate) error {
	if err := s.db.WithContext(ctx).Save(cert).Error; err != nil {
		return fmt.Errorf("%w: %v", core.ErrStorageUnavailable, err)
	}
	return nil
}
