package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlers) adminListOrders(c *gin.Context) {
	all, err := h.deps.Orders.All(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderDTOs(all))
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// adminUpdateOrder advances an order's status; the transition is validated by
// the tracking state machine before anything is written.
func (h *handlers) adminUpdateOrder(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	order, err := h.deps.Orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderDTO(order))
}

func (h *handlers) adminDeleteOrder(c *gin.Context) {
	if err := h.deps.Orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
