package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/certmint/certmint/service"
)

// Handlers contains the HTTP handlers for all endpoints
type Handlers struct {
	auth         *service.AuthService
	companies    *service.CompanyService
	certificates *service.CertificateService
}

// NewHandlers creates the handler set
func NewHandlers(
	auth *service.AuthService,
	companies *service.CompanyService,
	certificates *service.CertificateService,
) *Handlers {
	return &Handlers{
		auth:         auth,
		companies:    companies,
		certificates: certificates,
	}
}

// Nonce handles GET /auth/nonce/:address
func (h *Handlers) Nonce(c *gin.Context) {
	nonce, message, err := h.auth.IssueNonce(c.Request.Context(), c.Param("address"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"nonce":   nonce,
		"message": message,
	})
}

// Verify handles POST /auth/verify
func (h *Handlers) Verify(c *gin.Context) {
	var req struct {
		Address   string `json:"address" binding:"required"`
		Signature string `json:"signature" binding:"required"`
		Message   string `json:"message" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "address, signature and message are required")
		return
	}

	result, err := h.auth.Verify(c.Request.Context(), req.Address, req.Signature, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
		"user":         result.Identity,
	})
}

// Refresh handles POST /auth/refresh
func (h *Handlers) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "refreshToken is required")
		return
	}

	accessToken, refreshToken, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

// Logout handles POST /auth/logout
func (h *Handlers) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "refreshToken is required")
		return
	}

	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me handles GET /api/me
func (h *Handlers) Me(c *gin.Context) {
	identity, err := h.auth.Identity(c.Request.Context(), walletFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, identity)
}

type companyRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email"`
	Description string `json:"description"`
}

// RegisterCompany handles POST /api/companies
func (h *Handlers) RegisterCompany(c *gin.Context) {
	var req companyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	company, err := h.companies.Register(c.Request.Context(), walletFromContext(c), service.CompanyInput{
		Name:        req.Name,
		Email:       req.Email,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, company)
}

// MyCompany handles GET /api/companies/me
func (h *Handlers) MyCompany(c *gin.Context) {
	company, err := h.companies.Get(c.Request.Context(), walletFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, company)
}

// UpdateCompany handles PUT /api/companies/me
func (h *Handlers) UpdateCompany(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	company, err := h.companies.Update(c.Request.Context(), walletFromContext(c), service.CompanyInput{
		Name:        req.Name,
		Email:       req.Email,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, company)
}

// DeployContract handles POST /api/contract/deploy
func (h *Handlers) DeployContract(c *gin.Context) {
	company, err := h.companies.DeployContract(c.Request.Context(), walletFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contractAddress": company.ContractAddress,
		"deployTxHash":    company.DeployTxHash,
	})
}

// IssueCertificate handles POST /api/certificates (multipart form)
func (h *Handlers) IssueCertificate(c *gin.Context) {
	title := c.PostForm("title")
	recipientName := c.PostForm("recipientName")
	recipientAddress := c.PostForm("recipientAddress")
	if title == "" || recipientName == "" || recipientAddress == "" {
		respondBadRequest(c, "title, recipientName and recipientAddress are required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "certificate file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondBadRequest(c, "could not read certificate file")
		return
	}
	defer file.Close()

	cert, err := h.certificates.Issue(c.Request.Context(), walletFromContext(c), service.IssueInput{
		Title:            title,
		Description:      c.PostForm("description"),
		RecipientName:    recipientName,
		RecipientAddress: recipientAddress,
		FileName:         fileHeader.Filename,
		File:             file,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, cert)
}

// ListCertificates handles GET /api/certificates
func (h *Handlers) ListCertificates(c *gin.Context) {
	certs, err := h.certificates.List(c.Request.Context(), walletFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"certificates": certs})
}

// GetCertificate handles GET /certificates/:id (public)
func (h *Handlers) GetCertificate(c *gin.Context) {
	cert, err := h.certificates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cert)
}
