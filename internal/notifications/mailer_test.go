package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minimalstore/storefront-api/pkg/db/models"
	"github.com/minimalstore/storefront-api/pkg/email"
	"github.com/minimalstore/storefront-api/pkg/enums"
	"github.com/minimalstore/storefront-api/pkg/logger"
	"github.com/minimalstore/storefront-api/pkg/types"
)

type stubSender struct {
	sent []email.Message
	err  error
}

func (s *stubSender) Send(_ context.Context, msg email.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func testProfile() *models.Profile {
	name := "Jordan Rivers"
	return &models.Profile{
		ID:       uuid.New(),
		Email:    "jordan@example.com",
		FullName: &name,
	}
}

func testOrder() *models.Order {
	variant := "Large"
	return &models.Order{
		ID:             uuid.New(),
		OrderNumber:    "ORD-1756728000000-A1B2C",
		Status:         enums.OrderStatusPending,
		PaymentStatus:  enums.PaymentStatusPending,
		Subtotal:       decimal.RequireFromString("110.00"),
		ShippingAmount: decimal.Zero,
		TaxAmount:      decimal.RequireFromString("8.80"),
		TotalAmount:    decimal.RequireFromString("118.80"),
		Currency:       enums.CurrencyUSD,
		Items: []models.OrderItem{
			{
				Quantity:   2,
				UnitPrice:  decimal.RequireFromString("30.00"),
				TotalPrice: decimal.RequireFromString("60.00"),
				ProductSnapshot: types.ProductSnapshot{
					Name:        "Canvas Tote",
					VariantName: &variant,
				},
			},
		},
	}
}

func newTestMailer(t *testing.T, sender email.Sender) *Mailer {
	t.Helper()
	mailer, err := NewMailer(sender, logger.New(logger.Options{ServiceName: "test"}), time.Second)
	require.NoError(t, err)
	return mailer
}

func TestOrderConfirmationRendersLineItems(t *testing.T) {
	sender := &stubSender{}
	mailer := newTestMailer(t, sender)

	mailer.OrderConfirmation(context.Background(), testProfile(), testOrder())

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "jordan@example.com", msg.To)
	assert.Contains(t, msg.Subject, "ORD-1756728000000-A1B2C")
	assert.Contains(t, msg.HTML, "Canvas Tote")
	assert.Contains(t, msg.HTML, "(Large)")
	assert.Contains(t, msg.HTML, "118.8")
}

func TestPaymentConfirmationAndStatusUpdate(t *testing.T) {
	sender := &stubSender{}
	mailer := newTestMailer(t, sender)
	order := testOrder()
	order.Status = enums.OrderStatusShipped

	mailer.PaymentConfirmation(context.Background(), testProfile(), order)
	mailer.OrderStatusUpdate(context.Background(), testProfile(), order)

	require.Len(t, sender.sent, 2)
	assert.Contains(t, sender.sent[0].Subject, "Payment received")
	assert.Contains(t, sender.sent[1].HTML, "shipped")
}

func TestWelcomeFallsBackToEmailForName(t *testing.T) {
	sender := &stubSender{}
	mailer := newTestMailer(t, sender)

	profile := testProfile()
	profile.FullName = nil
	mailer.Welcome(context.Background(), profile)

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].HTML, "jordan@example.com")
}

func TestSendFailuresAreSwallowed(t *testing.T) {
	sender := &stubSender{err: errors.New("provider down")}
	mailer := newTestMailer(t, sender)

	// must not panic or surface an error to the caller
	mailer.OrderConfirmation(context.Background(), testProfile(), testOrder())
	mailer.Welcome(context.Background(), testProfile())
	assert.Empty(t, sender.sent)
}

func TestNilInputsAreIgnored(t *testing.T) {
	sender := &stubSender{}
	mailer := newTestMailer(t, sender)

	mailer.OrderConfirmation(context.Background(), nil, testOrder())
	mailer.OrderConfirmation(context.Background(), testProfile(), nil)
	mailer.Welcome(context.Background(), nil)
	assert.Empty(t, sender.sent)
}
