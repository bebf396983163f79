package notifications

import (
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/minimalstore/storefront-api/pkg/db/models"
	"github.com/minimalstore/storefront-api/pkg/email"
	"github.com/minimalstore/storefront-api/pkg/enums"
	"github.com/minimalstore/storefront-api/pkg/logger"
)

// Mailer renders the transactional templates and sends them through the
// configured email provider.
type Mailer struct {
	sender  email.Sender
	logg    *logger.Logger
	timeout time.Duration
}

// NewMailer builds the default dispatcher.
func NewMailer(sender email.Sender, logg *logger.Logger, timeout time.Duration) (*Mailer, error) {
	if sender == nil {
		return nil, fmt.Errorf("email sender required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Mailer{sender: sender, logg: logg, timeout: timeout}, nil
}

func (m *Mailer) OrderConfirmation(ctx context.Context, profile *models.Profile, order *models.Order) {
	m.sendOrderMail(ctx, enums.EmailTemplateOrderConfirmation, orderConfirmationTmpl, profile, order,
		fmt.Sprintf("Order %s confirmed", orderNumber(order)))
}

func (m *Mailer) PaymentConfirmation(ctx context.Context, profile *models.Profile, order *models.Order) {
	m.sendOrderMail(ctx, enums.EmailTemplatePaymentConfirmation, paymentConfirmationTmpl, profile, order,
		fmt.Sprintf("Payment received for order %s", orderNumber(order)))
}

func (m *Mailer) OrderStatusUpdate(ctx context.Context, profile *models.Profile, order *models.Order) {
	m.sendOrderMail(ctx, enums.EmailTemplateOrderStatusUpdate, statusUpdateTmpl, profile, order,
		fmt.Sprintf("Order %s update", orderNumber(order)))
}

func (m *Mailer) Welcome(ctx context.Context, profile *models.Profile) {
	if profile == nil || profile.Email == "" {
		return
	}
	html, err := render(welcomeTmpl, templateData{Name: displayName(profile)})
	if err != nil {
		m.logg.Warn(ctx, fmt.Sprintf("render %s email failed: %v", enums.EmailTemplateWelcome, err))
		return
	}
	m.send(ctx, profile.Email, "Welcome to Minimal Store", html, string(enums.EmailTemplateWelcome))
}

func (m *Mailer) sendOrderMail(ctx context.Context, kind enums.EmailTemplate, tmpl *template.Template, profile *models.Profile, order *models.Order, subject string) {
	if profile == nil || profile.Email == "" || order == nil {
		return
	}
	html, err := render(tmpl, templateData{Name: displayName(profile), Order: order})
	if err != nil {
		m.logg.Warn(m.logg.WithOrderNumber(ctx, order.OrderNumber), fmt.Sprintf("render %s email failed: %v", kind, err))
		return
	}
	m.send(m.logg.WithOrderNumber(ctx, order.OrderNumber), profile.Email, subject, html, string(kind))
}

// send delivers one message within the mail timeout. Errors are logged only.
func (m *Mailer) send(ctx context.Context, to, subject, html, kind string) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
	defer cancel()

	err := m.sender.Send(sendCtx, email.Message{To: to, Subject: subject, HTML: html})
	if err != nil {
		m.logg.Warn(ctx, fmt.Sprintf("send %s email failed: %v", kind, err))
		return
	}
	m.logg.Info(ctx, fmt.Sprintf("%s email sent", kind))
}

func orderNumber(order *models.Order) string {
	if order == nil {
		return ""
	}
	return order.OrderNumber
}
