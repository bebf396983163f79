package enums

// EmailTemplate names the transactional messages the dispatcher can render.
type EmailTemplate string

const (
	EmailTemplateOrderConfirmation   EmailTemplate = "order_confirmation"
	EmailTemplatePaymentConfirmation EmailTemplate = "payment_confirmation"
	EmailTemplateOrderStatusUpdate   EmailTemplate = "order_status_update"
	EmailTemplateWelcome             EmailTemplate = "welcome"
)

// String implements fmt.Stringer.
func (e EmailTemplate) String() string {
	return string(e)
}
