package notification

import "html/template"

var customerConfirmationTmpl = template.Must(template.New("customer_confirmation").Parse(`<!DOCTYPE html>
<html><body>
<h1>Thank you for your order</h1>
<p>Hi {{if .Order.CustomerName}}{{.Order.CustomerName}}{{else}}there{{end}}, we have received your order <strong>#{{.Order.OrderNumber}}</strong>.</p>
{{template "items" .}}
<p>We will let you know as soon as it is on its way.</p>
<p>{{.StoreName}}</p>
</body></html>`))

var operatorNewOrderTmpl = template.Must(template.New("operator_new_order").Parse(`<!DOCTYPE html>
<html><body>
<h1>New order #{{.Order.OrderNumber}}</h1>
<p>Customer: {{.Order.CustomerName}}{{with .Order.CustomerEmail}} &lt;{{.}}&gt;{{end}}</p>
{{template "items" .}}
</body></html>`))

var customerDispatchedTmpl = template.Must(template.New("customer_dispatched").Parse(`<!DOCTYPE html>
<html><body>
<h1>Your order is on its way</h1>
<p>Order <strong>#{{.Order.OrderNumber}}</strong> has been dispatched.</p>
{{with .Order.TrackingNumber}}<p>Tracking number: <strong>{{.}}</strong></p>{{end}}
<p>{{.StoreName}}</p>
</body></html>`))

const itemsPartial = `{{define "items"}}<table>
<tr><th>Item</th><th>Qty</th><th>Price</th></tr>
{{range .Order.Items}}<tr><td>{{.ProductName}}{{if .Size}} ({{.Size}}){{end}}</td><td>{{.Quantity}}</td><td>£{{.TotalPrice.StringFixed 2}}</td></tr>
{{end}}</table>
<p>Total: <strong>£{{.Order.TotalAmount.StringFixed 2}}</strong></p>{{end}}`

func init() {
	for _, t := range []*template.Template{customerConfirmationTmpl, operatorNewOrderTmpl} {
		template.Must(t.Parse(itemsPartial))
	}
}
