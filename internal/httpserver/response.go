package httpserver

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"tradeport/internal/catalog"
	"tradeport/internal/domain"
)

type handlers struct {
	deps       Deps
	logger     *log.Logger
	activities *activityRegistry
}

// activityRegistry keeps one browse-activity tracker per shopper.
type activityRegistry struct {
	mu  sync.Mutex
	all map[string]*catalog.Activity
}

func newActivityRegistry() *activityRegistry {
	return &activityRegistry{all: make(map[string]*catalog.Activity)}
}

func (r *activityRegistry) forOwner(owner string) *catalog.Activity {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.all[owner]
	if !ok {
		a = catalog.NewActivity()
		r.all[owner] = a
	}
	return a
}

// respondError maps domain errors onto HTTP statuses. Validation failures
// carry their reason to the caller; everything else is logged and masked.
func (h *handlers) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationReason(err)})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func validationReason(err error) string {
	msg := err.Error()
	return strings.TrimPrefix(msg, domain.ErrValidation.Error()+": ")
}

// Wire DTOs use decimal amounts, matching the REST payloads the original
// client exchanged; cents stay internal.

type productDTO struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description,omitempty"`
	Price         float64      `json:"price"`
	Category      string       `json:"category"`
	Brand         string       `json:"brand,omitempty"`
	Stock         int          `json:"stock"`
	InStock       bool         `json:"inStock"`
	Images        []string     `json:"images,omitempty"`
	Tags          []string     `json:"tags,omitempty"`
	Variants      []variantDTO `json:"variants,omitempty"`
	AverageRating float64      `json:"averageRating"`
}

type variantDTO struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

func toProductDTO(p domain.Product) productDTO {
	out := productDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         domain.DecimalFromCents(p.PriceCents),
		Category:      p.Category,
		Brand:         p.Brand,
		Stock:         p.Stock,
		InStock:       p.InStock(),
		Images:        p.Images,
		Tags:          p.Tags,
		AverageRating: p.AverageRating(),
	}
	for _, v := range p.Variants {
		out.Variants = append(out.Variants, variantDTO{
			ID:    v.ID,
			Name:  v.Name,
			Price: domain.DecimalFromCents(v.PriceCents),
			Stock: v.Stock,
		})
	}
	return out
}

func toProductDTOs(products []domain.Product) []productDTO {
	out := make([]productDTO, 0, len(products))
	for _, p := range products {
		out = append(out, toProductDTO(p))
	}
	return out
}

type cartItemDTO struct {
	ProductID string      `json:"productId"`
	Name      string      `json:"name"`
	Price     float64     `json:"price"`
	Image     string      `json:"image,omitempty"`
	Quantity  int         `json:"quantity"`
	Variant   *variantDTO `json:"variant,omitempty"`
}

func toCartItemDTOs(items []domain.CartItem) []cartItemDTO {
	out := make([]cartItemDTO, 0, len(items))
	for _, item := range items {
		dto := cartItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     domain.DecimalFromCents(item.PriceCents),
			Image:     item.Image,
			Quantity:  item.Quantity,
		}
		if item.Variant != nil {
			dto.Variant = &variantDTO{
				ID:    item.Variant.ID,
				Name:  item.Variant.Name,
				Price: domain.DecimalFromCents(item.Variant.PriceCents),
				Stock: item.Variant.Stock,
			}
		}
		out = append(out, dto)
	}
	return out
}

type totalsDTO struct {
	Subtotal  float64 `json:"subtotal"`
	Shipping  float64 `json:"shipping"`
	Tax       float64 `json:"tax"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"itemCount"`
}

func toTotalsDTO(t domain.OrderTotals) totalsDTO {
	return totalsDTO{
		Subtotal:  domain.DecimalFromCents(t.SubtotalCents),
		Shipping:  domain.DecimalFromCents(t.ShippingCents),
		Tax:       domain.DecimalFromCents(t.TaxCents),
		Total:     domain.DecimalFromCents(t.TotalCents),
		ItemCount: t.ItemCount,
	}
}

type orderDTO struct {
	OrderID         string         `json:"orderId"`
	Items           []cartItemDTO  `json:"items"`
	ShippingAddress domain.Address `json:"shippingAddress"`
	PaymentMethod   string         `json:"paymentMethod"`
	Totals          totalsDTO      `json:"totals"`
	Status          string         `json:"status"`
	Date            time.Time      `json:"date"`
}

func toOrderDTO(o domain.Order) orderDTO {
	return orderDTO{
		OrderID:         o.ID,
		Items:           toCartItemDTOs(o.Items),
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		Totals:          toTotalsDTO(o.Totals),
		Status:          o.Status,
		Date:            o.CreatedAt,
	}
}

func toOrderDTOs(all []domain.Order) []orderDTO {
	out := make([]orderDTO, 0, len(all))
	for _, o := range all {
		out = append(out, toOrderDTO(o))
	}
	return out
}
