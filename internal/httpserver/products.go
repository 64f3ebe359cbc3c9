package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *handlers) listProducts(c *gin.Context) {
	c.JSON(http.StatusOK, toProductDTOs(h.deps.Catalog.All()))
}

func (h *handlers) listByCategory(c *gin.Context) {
	category := c.Param("category")
	c.JSON(http.StatusOK, toProductDTOs(h.deps.Catalog.ByCategory(category)))
}

func (h *handlers) getProduct(c *gin.Context) {
	product, err := h.deps.Catalog.FindByID(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductDTO(product))
}

func (h *handlers) relatedProducts(c *gin.Context) {
	product, err := h.deps.Catalog.FindByID(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	limit := 4
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	c.JSON(http.StatusOK, toProductDTOs(h.deps.Catalog.Related(product, limit)))
}

func (h *handlers) suggestions(c *gin.Context) {
	c.JSON(http.StatusOK, toProductDTOs(h.deps.Catalog.Suggest(c.Query("q"))))
}

func (h *handlers) markViewed(c *gin.Context) {
	product, err := h.deps.Catalog.FindByID(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.activities.forOwner(c.GetString(ctxOwnerKey)).MarkViewed(product)
	c.Status(http.StatusNoContent)
}

func (h *handlers) recentlyViewed(c *gin.Context) {
	activity := h.activities.forOwner(c.GetString(ctxOwnerKey))
	c.JSON(http.StatusOK, toProductDTOs(activity.RecentlyViewed()))
}

func (h *handlers) toggleWishlist(c *gin.Context) {
	if _, err := h.deps.Catalog.FindByID(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	activity := h.activities.forOwner(c.GetString(ctxOwnerKey))
	wishlisted := activity.ToggleWishlist(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"wishlisted": wishlisted})
}

func (h *handlers) wishlist(c *gin.Context) {
	activity := h.activities.forOwner(c.GetString(ctxOwnerKey))
	c.JSON(http.StatusOK, gin.H{"productIds": activity.Wishlist()})
}
