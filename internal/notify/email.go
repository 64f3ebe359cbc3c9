// Package notify sends transactional email. Checkout confirmations are
// best-effort; a delivery failure never fails the order.
package notify

import (
	"context"
	"fmt"

	"github.com/keighl/postmark"

	"tradeport/internal/domain"
)

type postmarkSender interface {
	SendEmail(email postmark.Email) (postmark.EmailResponse, error)
}

// EmailService sends storefront email through Postmark.
type EmailService struct {
	client postmarkSender
	from   string
}

func NewEmailService(serverToken, from string) *EmailService {
	return &EmailService{
		client: postmark.NewClient(serverToken, ""),
		from:   from,
	}
}

// OrderPlaced sends the order confirmation for a freshly placed order.
func (s *EmailService) OrderPlaced(_ context.Context, toEmail string, order domain.Order) error {
	body := fmt.Sprintf(
		"<h2>Thank you for your order!</h2>"+
			"<p><strong>Order ID:</strong> %s</p>"+
			"<p><strong>Items:</strong> %d</p>"+
			"<p><strong>Total:</strong> $%s (%s)</p>"+
			"<p>We will notify you when your order is shipped.</p>",
		order.ID,
		order.Totals.ItemCount,
		domain.FormatCents(order.Totals.TotalCents),
		order.PaymentMethod,
	)

	_, err := s.client.SendEmail(postmark.Email{
		From:     s.from,
		To:       toEmail,
		Subject:  fmt.Sprintf("Order Confirmation %s", order.ID),
		HtmlBody: body,
	})
	if err != nil {
		return fmt.Errorf("send order confirmation: %w", err)
	}
	return nil
}
