package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/sensationsbyarda-lgtm/Senteurs/internal/customer"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/order"
)

//go:embed templates/*.html
var templatesFS embed.FS

var mailTemplates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// EventPublisher mirrors events.Publisher so the dispatcher can run without a
// broker in development.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, o *order.Order, cust *customer.Customer) error
}

// Dispatcher fans a created order out to the customer confirmation mail, the
// admin alert mail and the order-created event. Every delivery failure is
// logged and absorbed here.
type Dispatcher struct {
	mailer     Mailer
	publisher  EventPublisher
	adminEmail string
	shopName   string
	logger     zerolog.Logger
}

func NewDispatcher(mailer Mailer, publisher EventPublisher, adminEmail, shopName string, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		mailer:     mailer,
		publisher:  publisher,
		adminEmail: adminEmail,
		shopName:   shopName,
		logger:     logger,
	}
}

type mailLine struct {
	Name      string
	Quantity  int
	UnitPrice string
	Amount    string
}

type mailData struct {
	ShopName string
	OrderID  string
	Date     string
	Customer *customer.Customer
	Lines    []mailLine
	Total    string
}

func (d *Dispatcher) OrderCreated(ctx context.Context, o *order.Order, cust *customer.Customer) {
	data := d.buildData(o, cust)

	if d.mailer != nil {
		subject := fmt.Sprintf("Confirmation de votre commande #%s - %s", o.ID, d.shopName)
		if err := d.sendTemplate(ctx, cust.Email, subject, "customer_confirmation.html", data); err != nil {
			d.logger.Error().Err(err).Str("order_id", o.ID).Msg("customer confirmation mail failed")
		}

		if d.adminEmail != "" {
			subject := fmt.Sprintf("Nouvelle commande #%s - %s %s", o.ID, cust.FirstName, cust.LastName)
			if err := d.sendTemplate(ctx, d.adminEmail, subject, "admin_alert.html", data); err != nil {
				d.logger.Error().Err(err).Str("order_id", o.ID).Msg("admin alert mail failed")
			}
		}
	}

	if d.publisher != nil {
		if err := d.publisher.PublishOrderCreated(ctx, o, cust); err != nil {
			d.logger.Error().Err(err).Str("order_id", o.ID).Msg("order created event failed")
		}
	}
}

func (d *Dispatcher) sendTemplate(ctx context.Context, to, subject, name string, data mailData) error {
	var body bytes.Buffer
	if err := mailTemplates.ExecuteTemplate(&body, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return d.mailer.Send(ctx, to, subject, body.String())
}

func (d *Dispatcher) buildData(o *order.Order, cust *customer.Customer) mailData {
	data := mailData{
		ShopName: d.shopName,
		OrderID:  o.ID,
		Date:     o.CreatedAt.Format("02/01/2006 à 15:04"),
		Customer: cust,
		Total:    FormatPrice(o.Total),
	}
	for _, line := range o.Lines {
		data.Lines = append(data.Lines, mailLine{
			Name:      line.ProductName,
			Quantity:  line.Quantity,
			UnitPrice: FormatPrice(line.UnitPrice),
			Amount:    FormatPrice(line.Amount()),
		})
	}
	return data
}

// FormatPrice renders an FCFA amount with a space as thousands separator.
func FormatPrice(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}

	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ' ')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
