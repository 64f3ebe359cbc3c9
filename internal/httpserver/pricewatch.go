package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradeport/internal/domain"
	"tradeport/internal/pricewatch"
)

type trackPriceRequest struct {
	TargetPrice float64 `json:"targetPrice"`
}

func (h *handlers) trackPrice(c *gin.Context) {
	var req trackPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "targetPrice is required"})
		return
	}
	alert, err := h.deps.Watcher.Track(
		c.Request.Context(),
		c.GetString(ctxOwnerKey),
		c.Param("id"),
		domain.CentsFromDecimal(req.TargetPrice),
	)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"productId":   alert.ProductID,
		"targetPrice": domain.DecimalFromCents(alert.TargetCents),
		"createdAt":   alert.CreatedAt,
	})
}

func (h *handlers) stopTrackingPrice(c *gin.Context) {
	if err := h.deps.Watcher.Stop(c.Request.Context(), c.GetString(ctxOwnerKey), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) priceAlertStatus(c *gin.Context) {
	alert, ok, err := h.deps.Watcher.Status(c.Request.Context(), c.GetString(ctxOwnerKey), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"tracking": false})
		return
	}
	lowest, highest := pricewatch.HistorySummary(alert.History)
	c.JSON(http.StatusOK, gin.H{
		"tracking":     true,
		"targetPrice":  domain.DecimalFromCents(alert.TargetCents),
		"createdAt":    alert.CreatedAt,
		"lowestPrice":  domain.DecimalFromCents(lowest),
		"highestPrice": domain.DecimalFromCents(highest),
	})
}
