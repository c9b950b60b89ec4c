package restapi

import (
	"github.com/gin-gonic/gin"
)

// RegisterWalletRoutes attaches all wallet core endpoints under /api/v1.
func RegisterWalletRoutes(router *gin.Engine, h *WalletHandler) {
	v1 := router.Group("/api/v1")
	{
		v1.GET("/assets", h.GetAssetsHandler)
		v1.GET("/prices", h.GetPricesHandler)
		v1.POST("/prices/refresh", h.RefreshPricesHandler)
		v1.GET("/portfolio", h.GetPortfolioHandler)

		v1.GET("/charts", h.GetChartHandler)
		v1.GET("/charts/:assetID", h.GetChartHandler)

		v1.GET("/swap", h.GetSwapHandler)
		v1.POST("/swap/select", h.SelectSwapAssetHandler)
		v1.POST("/swap/amount", h.SetSwapAmountHandler)
		v1.POST("/swap/reverse", h.ReverseSwapHandler)
		v1.POST("/swap/refresh", h.RefreshSwapPricesHandler)
		v1.POST("/swap/quote", h.QuoteSwapHandler)
		v1.POST("/swap/execute", h.ExecuteSwapHandler)
	}
}
