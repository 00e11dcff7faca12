package core

import "errors"

var (
	ErrInvalidAddress     = errors.New("invalid wallet address")
	ErrIdentityNotFound   = errors.New("identity not found")
	ErrNonceMismatch      = errors.New("nonce mismatch")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrTokenExpired     = errors.New("token has expired")
	ErrTokenInvalidated = errors.New("token has been invalidated")
	ErrInvalidToken     = errors.New("invalid token")

	ErrCompanyNotFound         = errors.New("company not found")
	ErrCompanyExists           = errors.New("company already registered for this wallet")
	ErrContractAlreadyDeployed = errors.New("contract already deployed")
	ErrContractNotDeployed     = errors.New("contract not deployed")
	ErrInsufficientCredits     = errors.New("insufficient mint credits")
	ErrCertificateNotFound     = errors.New("certificate not found")
	ErrPinningFailed           = errors.New("failed to pin content")
)
