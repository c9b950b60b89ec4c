package restapi

import (
	"net/http"

	"wallet_core/internal/app/port"
	"wallet_core/internal/app/service"
	"wallet_core/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// WalletHandler serves the wallet core over HTTP: valuation, price state,
// chart series and the swap screen's session.
type WalletHandler struct {
	catalog      port.CatalogProvider
	priceService port.PriceService
	chartService *service.ChartService
	swapSession  *service.SwapSession
	logger       port.Logger
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(
	cp port.CatalogProvider,
	ps port.PriceService,
	cs *service.ChartService,
	ss *service.SwapSession,
	l port.Logger,
) *WalletHandler {
	return &WalletHandler{
		catalog:      cp,
		priceService: ps,
		chartService: cs,
		swapSession:  ss,
		logger:       l,
	}
}

// errorResponse is the uniform error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// GetAssetsHandler returns the static catalog.
func (h *WalletHandler) GetAssetsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"assets": h.catalog.Assets()})
}

// GetPricesHandler returns the price engine's current state.
func (h *WalletHandler) GetPricesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.priceService.State())
}

// RefreshPricesHandler triggers a user-initiated refresh and returns the
// resulting state. A fetch failure is still a 200: the state carries the
// error string and the previous snapshot, exactly as the UI renders it.
func (h *WalletHandler) RefreshPricesHandler(c *gin.Context) {
	if err := h.priceService.RefreshNow(c.Request.Context()); err != nil {
		h.logger.Warn("Manual price refresh failed", "error", err)
	}
	c.JSON(http.StatusOK, h.priceService.State())
}

// GetPortfolioHandler returns the derived valuation: per-asset values, net
// worth and the weighted 24h change, recomputed from the current snapshot.
func (h *WalletHandler) GetPortfolioHandler(c *gin.Context) {
	state := h.priceService.State()
	valuation := service.ComputeValuation(h.catalog.Assets(), state.Prices)
	c.JSON(http.StatusOK, gin.H{
		"valuation":   valuation,
		"loading":     state.Loading,
		"error":       state.Error,
		"lastUpdated": state.LastUpdated,
	})
}

// GetChartHandler returns the historical series for one asset and window.
// The asset id is optional; absent or unknown-but-empty selections fall back
// to the first catalog entry. The window defaults to the month tab.
func (h *WalletHandler) GetChartHandler(c *gin.Context) {
	asset, ok := h.resolveAsset(c.Param("assetID"))
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "unknown asset"})
		return
	}

	windowParam := c.DefaultQuery("window", string(entity.WindowMonth))
	window, err := entity.ParseChartWindow(windowParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	state := h.chartService.Load(c.Request.Context(), asset.LookupKey, window)
	c.JSON(http.StatusOK, gin.H{
		"asset": asset,
		"chart": state,
	})
}

func (h *WalletHandler) resolveAsset(id string) (entity.Asset, bool) {
	if id == "" || id == "default" {
		return h.catalog.DefaultAsset()
	}
	return h.catalog.AssetByID(id)
}

// swapView is the swap screen projection returned by all swap endpoints.
type swapView struct {
	From       entity.Asset     `json:"from"`
	To         entity.Asset     `json:"to"`
	Quote      entity.SwapQuote `json:"quote"`
	FromChoice []entity.Asset   `json:"fromChoices"`
	ToChoice   []entity.Asset   `json:"toChoices"`
}

func (h *WalletHandler) swapViewNow() swapView {
	from, to := h.swapSession.Pair()
	return swapView{
		From:       from,
		To:         to,
		Quote:      h.swapSession.Quote(),
		FromChoice: h.swapSession.SelectableAssets(true),
		ToChoice:   h.swapSession.SelectableAssets(false),
	}
}

// GetSwapHandler returns the current swap view.
func (h *WalletHandler) GetSwapHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.swapViewNow())
}

type swapSelectRequest struct {
	Side    string `json:"side" binding:"required"` // "from" or "to"
	AssetID string `json:"assetId" binding:"required"`
}

// SelectSwapAssetHandler changes one side of the pair and re-fetches the
// pair's prices; selecting the opposite side's asset is rejected.
func (h *WalletHandler) SelectSwapAssetHandler(c *gin.Context) {
	var req swapSelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var err error
	switch req.Side {
	case "from":
		err = h.swapSession.SelectFrom(req.AssetID)
	case "to":
		err = h.swapSession.SelectTo(req.AssetID)
	default:
		c.JSON(http.StatusBadRequest, errorResponse{Error: "side must be \"from\" or \"to\""})
		return
	}
	if err != nil {
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
		return
	}

	if err := h.swapSession.RefreshPrices(c.Request.Context()); err != nil {
		h.logger.Warn("Swap price refresh failed after selection", "error", err)
	}
	c.JSON(http.StatusOK, h.swapViewNow())
}

type swapAmountRequest struct {
	Amount string `json:"amount"`
	Max    bool   `json:"max"`
}

// SetSwapAmountHandler replaces the typed pay amount (or applies Max).
func (h *WalletHandler) SetSwapAmountHandler(c *gin.Context) {
	var req swapAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if req.Max {
		h.swapSession.SetMaxAmount()
	} else {
		h.swapSession.SetFromAmount(req.Amount)
	}
	c.JSON(http.StatusOK, h.swapViewNow())
}

// ReverseSwapHandler flips the pair, carries the computed receive amount into
// the pay slot and re-fetches prices for the new pair.
func (h *WalletHandler) ReverseSwapHandler(c *gin.Context) {
	h.swapSession.Reverse()
	if err := h.swapSession.RefreshPrices(c.Request.Context()); err != nil {
		h.logger.Warn("Swap price refresh failed after reversal", "error", err)
	}
	c.JSON(http.StatusOK, h.swapViewNow())
}

// RefreshSwapPricesHandler re-fetches the pair's prices on demand.
func (h *WalletHandler) RefreshSwapPricesHandler(c *gin.Context) {
	if err := h.swapSession.RefreshPrices(c.Request.Context()); err != nil {
		h.logger.Warn("Swap price refresh failed", "error", err)
	}
	c.JSON(http.StatusOK, h.swapViewNow())
}

type swapQuoteRequest struct {
	FromID     string `json:"fromId" binding:"required"`
	ToID       string `json:"toId" binding:"required"`
	FromAmount string `json:"fromAmount"`
}

// QuoteSwapHandler prices an arbitrary pair against the engine's current
// snapshot, without touching the swap session. Unknown prices simply yield an
// unavailable quote, mirroring the session behavior.
func (h *WalletHandler) QuoteSwapHandler(c *gin.Context) {
	var req swapQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	from, ok := h.catalog.AssetByID(req.FromID)
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "unknown asset " + req.FromID})
		return
	}
	to, ok := h.catalog.AssetByID(req.ToID)
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Error: "unknown asset " + req.ToID})
		return
	}
	if from.ID == to.ID {
		c.JSON(http.StatusConflict, errorResponse{Error: "pay and receive assets must differ"})
		return
	}

	snapshot := h.priceService.State().Prices
	fromQuote, _ := snapshot.Quote(from.LookupKey)
	toQuote, _ := snapshot.Quote(to.LookupKey)

	quote := service.ComputeSwapQuote(from, to, req.FromAmount, fromQuote.PriceUSD, toQuote.PriceUSD)
	c.JSON(http.StatusOK, gin.H{"quote": quote})
}

// ExecuteSwapHandler runs the device credential check and reports the outcome.
func (h *WalletHandler) ExecuteSwapHandler(c *gin.Context) {
	confirmed, err := h.swapSession.Execute(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	if !confirmed {
		c.JSON(http.StatusForbidden, gin.H{"confirmed": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"confirmed": true, "quote": h.swapSession.Quote()})
}
