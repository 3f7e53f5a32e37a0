package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/tesouraria/tesouraria-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, categoryHandler *CategoryHandler, subcategoryHandler *SubcategoryHandler, transactionHandler *TransactionHandler, balanceHandler *BalanceHandler, reportHandler *ReportHandler, profileHandler *ProfileHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(authMiddleware.Authenticate())
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Overall balance (dashboard)
	api.GET("/balance", balanceHandler.GetOverallBalance)

	// Collection-scoped catalog, ledger and balance routes
	collections := api.Group("/collections/:collection")
	collections.GET("/balance", balanceHandler.GetCollectionBalance)

	collections.POST("/categories", categoryHandler.CreateCategory)
	collections.GET("/categories", categoryHandler.GetCategories)
	collections.GET("/categories/:categoryId", categoryHandler.GetCategory)
	collections.GET("/categories/:categoryId/balance", balanceHandler.GetCategoryBalance)
	collections.GET("/categories/:categoryId/transactions", transactionHandler.GetCategoryTransactions)

	collections.POST("/categories/:categoryId/subcategories", subcategoryHandler.CreateSubcategory)
	collections.GET("/categories/:categoryId/subcategories", subcategoryHandler.GetSubcategories)
	collections.GET("/categories/:categoryId/subcategories/:subcategoryId", subcategoryHandler.GetSubcategory)
	collections.GET("/categories/:categoryId/subcategories/:subcategoryId/details", subcategoryHandler.GetSubcategoryDetails)
	collections.GET("/categories/:categoryId/subcategories/:subcategoryId/balance", balanceHandler.GetSubcategoryBalance)

	collections.POST("/categories/:categoryId/subcategories/:subcategoryId/transactions", transactionHandler.RecordTransaction)
	collections.GET("/categories/:categoryId/subcategories/:subcategoryId/transactions", transactionHandler.GetTransactions)

	collections.POST("/categories/:categoryId/subcategories/:subcategoryId/reports", reportHandler.ExportReport)

	// Report metadata and downloads
	api.GET("/reports", reportHandler.GetReports)
	api.GET("/reports/:id/download", reportHandler.DownloadReport)

	// Profile routes
	api.GET("/profile", profileHandler.GetProfile)
	api.PUT("/profile", profileHandler.UpdateProfile)
	api.PUT("/profile/email", profileHandler.ChangeEmail)
	api.DELETE("/profile", profileHandler.DeleteAccount)

	// WebSocket endpoint authenticates via query token, outside the JWT
	// header middleware
	e.GET("/ws", wsHandler.HandleWS)
}
