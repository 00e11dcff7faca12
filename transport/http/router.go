package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/certmint/certmint/service"
)

// SetupRouter sets up the Gin router
func SetupRouter(
	authService *service.AuthService,
	companyService *service.CompanyService,
	certificateService *service.CertificateService,
) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	handlers := NewHandlers(authService, companyService, certificateService)

	// Auth routes
	auth := router.Group("/auth")
	{
		auth.GET("/nonce/:address", handlers.Nonce)
		auth.POST("/verify", handlers.Verify)
		auth.POST("/refresh", handlers.Refresh)
		auth.POST("/logout", handlers.Logout)
	}

	// Public certificate verification
	router.GET("/certificates/:id", handlers.GetCertificate)

	// Protected API routes
	api := router.Group("/api")
	api.Use(AuthMiddleware(authService))
	{
		api.GET("/me", handlers.Me)
		api.POST("/companies", handlers.RegisterCompany)
		api.GET("/companies/me", handlers.MyCompany)
		api.PUT("/companies/me", handlers.UpdateCompany)
		api.POST("/contract/deploy", handlers.DeployContract)
		api.POST("/certificates", handlers.IssueCertificate)
		api.GET("/certificates", handlers.ListCertificates)
	}

	return router
}
