package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradeport/internal/cart"
)

func (h *handlers) ledger(c *gin.Context) (*cart.Ledger, bool) {
	owner := c.GetString(ctxOwnerKey)
	ledger, err := h.deps.Carts.ForOwner(c.Request.Context(), owner)
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}
	return ledger, true
}

type cartView struct {
	Items      []cartItemDTO `json:"items"`
	SavedItems []cartItemDTO `json:"savedItems"`
	Totals     totalsDTO     `json:"totals"`
}

func (h *handlers) renderCart(c *gin.Context, ledger *cart.Ledger) {
	c.JSON(http.StatusOK, cartView{
		Items:      toCartItemDTOs(ledger.Items()),
		SavedItems: toCartItemDTOs(ledger.SavedItems()),
		Totals:     toTotalsDTO(ledger.Summary()),
	})
}

func (h *handlers) getCart(c *gin.Context) {
	ledger, ok := h.ledger(c)
	if !ok {
		return
	}
	h.renderCart(c, ledger)
}

func (h *handlers) cartSummary(c *gin.Context) {
	ledger, ok := h.ledger(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toTotalsDTO(ledger.Summary()))
}

type addToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
	VariantID string `json:"variantId"`
}

func (h *handlers) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId is required"})
		return
	}
	ledger, ok := h.ledger(c)
	if !ok {
		return
	}
	if err := ledger.AddItem(c.Request.Context(), req.ProductID, req.Quantity, req.VariantID); err != nil {
		h.respondError(c, err)
		return
	}
	h.renderCart(c, ledger)
}

type cartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

func (h *handlers) removeFromCart(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId is required"})
		return
	}
	ledger, ok := h.ledger(c)
	if !ok {
		return
	}
	if err := ledger.RemoveItem(c.Request.Context(), req.ProductID); err != nil {
		h.respondError(c, err)
		return
	}
	h.renderCart(c, ledger)
}

type updateQuantityRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func (h *handlers) updateQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId is required"})
		return
	}
	ledger, ok := h.ledger(c)
	if !ok {
		return
	}
	if err := ledger.UpdateQuantity(c.Request.Context(), req.ProductID, req.Quantity); err != nil {
		h.respondError(c, err)
		return
	}
	h.renderCart(c, ledger)
}

func (h *handlers) clearCart(c *gin.Context) {
	ledger, ok := h.ledger(c)
	if !ok {
		return
	}
	if err := ledger.Clear(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	h.renderCart(c, ledger)
}

func (h *handlers) saveForLater(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId is required"})
		return
	}
	ledger, ok := h.ledger(c)
	if !ok {
		return
	}
	if err := ledger.SaveForLater(c.Request.Context(), req.ProductID); err != nil {
		h.respondError(c, err)
		return
	}
	h.renderCart(c, ledger)
}

func (h *handlers) moveToCart(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId is required"})
		return
	}
	ledger, ok := h.ledger(c)
	if !ok {
		return
	}
	if err := ledger.MoveToCart(c.Request.Context(), req.ProductID); err != nil {
		h.respondError(c, err)
		return
	}
	h.renderCart(c, ledger)
}
