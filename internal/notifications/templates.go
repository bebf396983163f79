package notifications

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/minimalstore/storefront-api/pkg/db/models"
)

var orderConfirmationTmpl = template.Must(template.New("order_confirmation").Parse(`
<h1>Thanks for your order!</h1>
<p>Hi {{.Name}},</p>
<p>We received your order <strong>{{.Order.OrderNumber}}</strong>.</p>
<table>
{{range .Order.Items}}
  <tr>
    <td>{{.ProductSnapshot.Name}}{{if .ProductSnapshot.VariantName}} ({{.ProductSnapshot.VariantName}}){{end}}</td>
    <td>x{{.Quantity}}</td>
    <td>{{.TotalPrice}}</td>
  </tr>
{{end}}
</table>
<p>Subtotal: {{.Order.Subtotal}}<br>
Shipping: {{.Order.ShippingAmount}}<br>
Tax: {{.Order.TaxAmount}}<br>
<strong>Total: {{.Order.TotalAmount}} {{.Order.Currency}}</strong></p>
`))

var paymentConfirmationTmpl = template.Must(template.New("payment_confirmation").Parse(`
<h1>Payment received</h1>
<p>Hi {{.Name}},</p>
<p>Your payment of <strong>{{.Order.TotalAmount}} {{.Order.Currency}}</strong>
for order <strong>{{.Order.OrderNumber}}</strong> was successful.</p>
<p>We're getting your order ready.</p>
`))

var statusUpdateTmpl = template.Must(template.New("order_status_update").Parse(`
<h1>Order update</h1>
<p>Hi {{.Name}},</p>
<p>Your order <strong>{{.Order.OrderNumber}}</strong> is now
<strong>{{.Order.Status}}</strong>.</p>
`))

var welcomeTmpl = template.Must(template.New("welcome").Parse(`
<h1>Welcome{{if .Name}}, {{.Name}}{{end}}!</h1>
<p>Your account is ready. Happy shopping!</p>
`))

type templateData struct {
	Name  string
	Order *models.Order
}

func displayName(profile *models.Profile) string {
	if profile == nil {
		return ""
	}
	if profile.FullName != nil && *profile.FullName != "" {
		return *profile.FullName
	}
	return profile.Email
}

func render(tmpl *template.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
