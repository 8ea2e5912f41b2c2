package notify

import (
	"html/template"
	"strings"
)

const confirmationTmpl = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #ff6b35;">{{.Shop}}</h1>
  <h2>Thank You for Your Order!</h2>
  <p>Dear <strong>{{.Name}}</strong>,</p>
  <p>We have received your order and it is being prepared.</p>
  <p><strong>Order ID:</strong> #{{.Order.ID}}</p>
  <table style="width: 100%; border-collapse: collapse;">
    <thead>
      <tr style="background: #ff6b35; color: white;">
        <th style="padding: 8px; text-align: left;">Sweet</th>
        <th style="padding: 8px;">Size</th>
        <th style="padding: 8px;">Qty</th>
        <th style="padding: 8px; text-align: right;">Price</th>
      </tr>
    </thead>
    <tbody>
      {{range .Order.Items}}
      <tr>
        <td style="padding: 8px; border-bottom: 1px solid #ddd;">{{.SweetName}}</td>
        <td style="padding: 8px; border-bottom: 1px solid #ddd; text-align: center;">{{.UnitLabel}}</td>
        <td style="padding: 8px; border-bottom: 1px solid #ddd; text-align: center;">{{.Quantity}}</td>
        <td style="padding: 8px; border-bottom: 1px solid #ddd; text-align: right;">{{printf "%.2f" .Price}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>
  <p style="font-size: 18px;"><strong>Total Amount:</strong> {{printf "%.2f" .Order.TotalAmount}}</p>
  {{if .Order.DeliveryAddress}}<p><strong>Delivery Address:</strong> {{.Order.DeliveryAddress}}</p>{{end}}
  {{if .Order.PhoneNumber}}<p><strong>Phone Number:</strong> {{.Order.PhoneNumber}}</p>{{end}}
  {{if .Order.Notes}}<p><strong>Notes:</strong> {{.Order.Notes}}</p>{{end}}
  <p>We will email you again once your order is on its way.</p>
</body>
</html>`

const statusUpdateTmpl = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #ff6b35;">{{.Shop}}</h1>
  <h2>Order Update</h2>
  <p>Dear <strong>{{.Name}}</strong>,</p>
  <p>Your order <strong>#{{.Order.ID}}</strong> is now <strong>{{.NewStatus}}</strong>.</p>
  <p><strong>Total Amount:</strong> {{printf "%.2f" .Order.TotalAmount}}</p>
  <p>Thank you for shopping with us.</p>
</body>
</html>`

var (
	confirmation = template.Must(template.New("confirmation").Parse(confirmationTmpl))
	statusUpdate = template.Must(template.New("status").Parse(statusUpdateTmpl))
)

func renderBody(ev Event, shopName string) (string, error) {
	data := struct {
		Shop      string
		Name      string
		Order     any
		NewStatus string
	}{Shop: shopName, Name: ev.RecipientName, Order: ev.Order, NewStatus: ev.NewStatus}
	if data.Name == "" {
		data.Name = "Customer"
	}

	t := confirmation
	if ev.Kind == KindOrderStatusChanged {
		t = statusUpdate
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
