package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/certmint/certmint/core"
)

// errorMapping ties a sentinel error to its HTTP status and stable machine
// code. The codes are part of the API contract.
type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{core.ErrInvalidAddress, http.StatusBadRequest, "INVALID_ADDRESS"},
	{core.ErrIdentityNotFound, http.StatusNotFound, "IDENTITY_NOT_FOUND"},
	{core.ErrNonceMismatch, http.StatusBadRequest, "NONCE_MISMATCH"},
	{core.ErrInvalidSignature, http.StatusUnauthorized, "SIGNATURE_INVALID"},
	{core.ErrStorageUnavailable, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"},
	{core.ErrTokenExpired, http.StatusUnauthorized, "TOKEN_EXPIRED"},
	{core.ErrTokenInvalidated, http.StatusUnauthorized, "TOKEN_INVALIDATED"},
	{core.ErrInvalidToken, http.StatusUnauthorized, "TOKEN_INVALID"},
	{core.ErrCompanyNotFound, http.StatusNotFound, "COMPANY_NOT_FOUND"},
	{core.ErrCompanyExists, http.StatusConflict, "COMPANY_EXISTS"},
	{core.ErrContractAlreadyDeployed, http.StatusConflict, "CONTRACT_ALREADY_DEPLOYED"},
	{core.ErrContractNotDeployed, http.StatusBadRequest, "CONTRACT_NOT_DEPLOYED"},
	{core.ErrInsufficientCredits, http.StatusPaymentRequired, "INSUFFICIENT_CREDITS"},
	{core.ErrCertificateNotFound, http.StatusNotFound, "CERTIFICATE_NOT_FOUND"},
	{core.ErrPinningFailed, http.StatusBadGateway, "PINNING_FAILED"},
}

// respondError maps a service error to its HTTP representation.
func respondError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			c.JSON(m.status, gin.H{"code": m.code, "error": m.err.Error()})
			return
		}
	}
	c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL", "error": "internal server error"})
}

func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"code": "BAD_REQUEST", "error": msg})
}
