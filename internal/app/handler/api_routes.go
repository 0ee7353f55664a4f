package handler

import (
	"resourceshop/internal/app/middleware"
	"resourceshop/internal/app/role"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterAPIRoutes registers every REST route with its auth requirements.
func (h *APIHandler) RegisterAPIRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	api := router.Group("/api")

	// ============ Store, any signed in user ============
	user := api.Group("")
	user.Use(authMiddleware.WithAuthCheck(role.Buyer, role.Manager, role.Admin))
	{
		user.GET("/packages", h.GetPackages)
		user.POST("/purchase", h.PurchasePackage)
		user.GET("/purchases", h.GetPurchases)
		user.GET("/individual-resources", h.GetIndividualResources)
		user.POST("/individual-resources/purchase", h.PurchaseIndividualResource)
		user.GET("/credits", h.GetCredits)
		user.GET("/profile", h.GetProfile)
		user.GET("/invoices/:id", h.GetInvoice)
		user.POST("/auth/logout", h.AuthHandler.LogoutUser)
	}

	// ============ Administration ============
	admin := api.Group("/admin")
	admin.Use(authMiddleware.WithAuthCheck(role.Admin))
	{
		admin.GET("/packages", h.GetAdminPackages)
		admin.POST("/packages", h.CreatePackage)
		admin.PUT("/packages/:id", h.UpdatePackage)
		admin.DELETE("/packages/:id", h.DeletePackage)

		admin.GET("/resources", h.GetAdminResources)
		admin.POST("/resources", h.CreateResource)
		admin.PUT("/resources/:id", h.UpdateResource)
		admin.DELETE("/resources/:id", h.DeleteResource)

		admin.GET("/settings", h.GetSettings)
		admin.PUT("/settings", h.UpdateSettings)

		admin.POST("/credits/:user_id", h.GrantCredits)
		admin.PUT("/billing/:user_id", h.UpdateBillingProfile)
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/ping", h.Ping)
}
