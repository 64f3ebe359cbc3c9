package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tradeport/internal/checkout"
	"tradeport/internal/domain"
	"tradeport/internal/tracking"
)

type checkoutRequest struct {
	ShippingAddress domain.Address `json:"shippingAddress"`
	PaymentMethod   string         `json:"paymentMethod"`
	IdempotencyKey  string         `json:"idempotencyKey"`
}

// placeOrder runs checkout. The response mirrors the result shape the client
// expects: {success, order} or {success, error}.
func (h *handlers) placeOrder(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid checkout payload"})
		return
	}
	ledger, ok := h.ledger(c)
	if !ok {
		return
	}

	order, err := h.deps.Checkout.Checkout(c.Request.Context(), ledger, checkout.Input{
		Owner:           c.GetString(ctxOwnerKey),
		Email:           c.GetString(ctxEmailKey),
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		IdempotencyKey:  req.IdempotencyKey,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrValidation) {
			status = http.StatusBadRequest
		} else {
			h.logger.Printf("checkout failed: %v", err)
		}
		c.JSON(status, gin.H{"success": false, "error": validationReason(err)})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "order": toOrderDTO(order)})
}

func (h *handlers) myOrders(c *gin.Context) {
	owner := c.GetString(ctxOwnerKey)
	all, err := h.deps.Orders.ForOwner(c.Request.Context(), owner)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderDTOs(all))
}

// orderTracking renders the progress ladder for one of the caller's orders.
func (h *handlers) orderTracking(c *gin.Context) {
	order, err := h.deps.Orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if order.Owner != c.GetString(ctxOwnerKey) {
		h.respondError(c, domain.ErrNotFound)
		return
	}

	status, ok := tracking.Parse(order.Status)
	if !ok {
		h.respondError(c, domain.Invalid("order has unknown status %q", order.Status))
		return
	}

	type stageView struct {
		Status   string `json:"status"`
		Complete bool   `json:"complete"`
	}
	stages := make([]stageView, 0, len(tracking.Stages()))
	for i, s := range tracking.Stages() {
		stages = append(stages, stageView{
			Status:   string(s),
			Complete: tracking.IsStageComplete(status, i),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"order":         toOrderDTO(order),
		"progressIndex": tracking.ProgressIndex(status),
		"cancelled":     status == tracking.StatusCancelled,
		"stages":        stages,
	})
}
