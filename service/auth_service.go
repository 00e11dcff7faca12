package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/certmint/certmint/core"
	"github.com/certmint/certmint/internal/eth"
	"github.com/certmint/certmint/ports"
)

const (
	// DefaultAccessTTL is how long an access token stays valid.
	DefaultAccessTTL = 24 * time.Hour

	// DefaultRefreshTTL is how long a refresh token stays valid.
	DefaultRefreshTTL = 7 * 24 * time.Hour

	nonceBytes = 16
)

// LoginResult is the outcome of a successful signature verification.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	Identity     *core.Identity
}

// AuthService handles the wallet challenge/response authentication flow:
// nonce issuance, signature verification and session token management.
type AuthService struct {
	identities ports.IdentityStore
	tokenizer  ports.Tokenizer
	tokens     ports.TokenStore
	eventPub   ports.EventPublisher

	appName    string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthService creates a new authentication service
func NewAuthService(
	identities ports.IdentityStore,
	tokenizer ports.Tokenizer,
	tokens ports.TokenStore,
	eventPub ports.EventPublisher,
	accessTTL, refreshTTL time.Duration,
) *AuthService {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &AuthService{
		identities: identities,
		tokenizer:  tokenizer,
		tokens:     tokens,
		eventPub:   eventPub,
		appName:    "CertMint",
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueNonce creates (or rotates) the challenge nonce for a wallet address
// and returns the nonce together with the message the wallet must sign.
func (s *AuthService) IssueNonce(ctx context.Context, address string) (string, string, error) {
	if !eth.IsValidAddress(address) {
		return "", "", core.ErrInvalidAddress
	}

	nonce, err := generateNonce()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	identity := &core.Identity{
		Address: eth.NormalizeAddress(address),
		Nonce:   nonce,
	}
	if err := s.identities.UpsertIdentity(ctx, identity); err != nil {
		return "", "", err
	}

	return nonce, s.challengeMessage(nonce, time.Now()), nil
}

// Verify checks a signed challenge message against the stored nonce, recovers
// the signing address and, on success, rotates the nonce and issues session
// tokens. The commit step only runs once every check has passed.
func (s *AuthService) Verify(ctx context.Context, address, signature, message string) (*LoginResult, error) {
	if !eth.IsValidAddress(address) {
		return nil, core.ErrInvalidAddress
	}
	claimed := eth.NormalizeAddress(address)

	identity, err := s.identities.GetIdentity(ctx, claimed)
	if err != nil {
		return nil, err
	}

	if identity.Nonce == "" || !strings.Contains(message, identity.Nonce) {
		return nil, core.ErrNonceMismatch
	}

	sig, err := eth.DecodeSignature(signature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidSignature, err)
	}

	recovered, err := eth.RecoverAddress(message, sig)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidSignature, err)
	}

	// Uniform error for a recovery/claim mismatch so callers cannot tell
	// which side was wrong.
	if eth.NormalizeAddress(recovered.Hex()) != claimed {
		return nil, core.ErrInvalidSignature
	}

	newNonce, err := generateNonce()
	if err != nil {
		return nil, fmt.Errorf("failed to rotate nonce: %w", err)
	}

	now := time.Now()
	identity.Nonce = newNonce
	identity.Verified = true
	identity.LastLogin = &now
	if err := s.identities.SaveIdentity(ctx, identity); err != nil {
		return nil, err
	}

	session := &core.Session{
		ID:            uuid.New().String(),
		Address:       claimed,
		IssuedAt:      now,
		AccessExpiry:  now.Add(s.accessTTL),
		RefreshExpiry: now.Add(s.refreshTTL),
		RefreshID:     uuid.New().String(),
	}

	accessToken, err := s.tokenizer.SessionToAccessToken(session)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	refreshToken, err := s.tokenizer.SessionToRefreshToken(session)
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh token: %w", err)
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Identity:     identity,
	}, nil
}

// Refresh rotates the refresh token and issues new access and refresh tokens
func (s *AuthService) Refresh(ctx context.Context, refreshTokenStr string) (string, string, error) {
	session, err := s.tokenizer.RefreshTokenToSession(refreshTokenStr)
	if err != nil {
		return "", "", fmt.Errorf("invalid refresh token: %w", err)
	}

	if time.Now().After(session.RefreshExpiry) {
		return "", "", core.ErrTokenExpired
	}

	invalidated, err := s.tokens.IsTokenInvalidated(ctx, session.RefreshID)
	if err != nil {
		return "", "", fmt.Errorf("failed to check token invalidation: %w", err)
	}
	if invalidated {
		return "", "", core.ErrTokenInvalidated
	}

	// Invalidate the old refresh token for the remainder of its lifetime.
	remaining := time.Until(session.RefreshExpiry)
	if err := s.tokens.InvalidateToken(ctx, session.RefreshID, remaining); err != nil {
		return "", "", fmt.Errorf("failed to invalidate old token: %w", err)
	}

	now := time.Now()
	newSession := &core.Session{
		ID:            uuid.New().String(),
		Address:       session.Address,
		IssuedAt:      now,
		AccessExpiry:  now.Add(s.accessTTL),
		RefreshExpiry: now.Add(s.refreshTTL),
		RefreshID:     uuid.New().String(),
	}

	accessToken, err := s.tokenizer.SessionToAccessToken(newSession)
	if err != nil {
		return "", "", fmt.Errorf("failed to create new access token: %w", err)
	}

	refreshToken, err := s.tokenizer.SessionToRefreshToken(newSession)
	if err != nil {
		return "", "", fmt.Errorf("failed to create new refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

// Logout invalidates a refresh token
func (s *AuthService) Logout(ctx context.Context, refreshTokenStr string) error {
	session, err := s.tokenizer.RefreshTokenToSession(refreshTokenStr)
	if err != nil {
		return fmt.Errorf("invalid refresh token: %w", err)
	}

	// Even an expired token gets an invalidation record; an hour covers
	// clock skew between instances.
	remaining := time.Hour
	if time.Now().Before(session.RefreshExpiry) {
		remaining = time.Until(session.RefreshExpiry)
	}

	if err := s.tokens.InvalidateToken(ctx, session.RefreshID, remaining); err != nil {
		return fmt.Errorf("failed to invalidate token: %w", err)
	}

	// The token is already invalidated in the store, which is the part that
	// matters; a failed event publish only delays other instances.
	if err := s.eventPub.PublishLogout(ctx, session.Address, session.RefreshID); err != nil {
		log.Printf("warning: failed to publish logout event: %v", err)
	}

	return nil
}

// ValidateAccessToken parses and validates an access token, returning the
// associated session.
func (s *AuthService) ValidateAccessToken(ctx context.Context, accessToken string) (*core.Session, error) {
	session, err := s.tokenizer.AccessTokenToSession(accessToken)
	if err != nil {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}

	if time.Now().After(session.AccessExpiry) {
		return nil, core.ErrTokenExpired
	}

	// Access tokens die with their refresh token.
	if session.RefreshID != "" {
		invalidated, err := s.tokens.IsTokenInvalidated(ctx, session.RefreshID)
		if err != nil {
			return nil, fmt.Errorf("failed to check token invalidation: %w", err)
		}
		if invalidated {
			return nil, core.ErrTokenInvalidated
		}
	}

	return session, nil
}

// Identity fetches the identity record for an already-normalized address.
func (s *AuthService) Identity(ctx context.Context, address string) (*core.Identity, error) {
	return s.identities.GetIdentity(ctx, eth.NormalizeAddress(address))
}

func (s *AuthService) challengeMessage(nonce string, issuedAt time.Time) string {
	return fmt.Sprintf("Sign in to %s.\nNonce: %s\nIssued At: %s",
		s.appName, nonce, issuedAt.UTC().Format(time.RFC3339))
}

func generateNonce() (string, error) {
	buf := make([]byte, nonceBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
