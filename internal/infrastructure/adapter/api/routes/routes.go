package routes

import (
	coreport "github.com/digiclever/dispenser/internal/domain/port/core"
	"github.com/digiclever/dispenser/internal/infrastructure/adapter/api/handler"
	"github.com/digiclever/dispenser/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	accountHandler *handler.AccountHandler,
	deviceHandler *handler.DeviceHandler,
) {
	// Account routes
	accountRoutes := router.Group("/accounts")
	{
		// POST /accounts
		accountRoutes.POST("", accountHandler.CreateAccount)

		// POST /accounts/:username/devices
		accountRoutes.POST("/:username/devices", accountHandler.LinkDevice)
	}

	// Device routes
	deviceRoutes := router.Group("/devices")
	{
		// GET /devices/:uid/balance
		deviceRoutes.GET("/:uid/balance", deviceHandler.GetBalance)

		// GET /devices/:uid/transactions
		deviceRoutes.GET("/:uid/transactions", deviceHandler.ListTransactions)

		// POST /devices/:uid/recharge
		deviceRoutes.POST("/:uid/recharge", deviceHandler.Recharge)

		// POST /devices/:uid/withdraw
		deviceRoutes.POST("/:uid/withdraw", deviceHandler.Withdraw)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
}
