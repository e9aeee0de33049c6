// Package checkout implements the order pipeline: contact validation, stock
// re-validation, customer resolution, atomic order creation and best-effort
// notification.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sensationsbyarda-lgtm/Senteurs/internal/cart"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/catalog"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/customer"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/order"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/validate"
)

var ErrEmptyCart = errors.New("cart is empty")

// ContactForm carries the customer-facing checkout fields.
type ContactForm struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// Notifier receives the created order for out-of-band delivery (mails, events).
// Implementations must absorb their own failures; checkout never rolls back an
// order because a notification could not be sent.
type Notifier interface {
	OrderCreated(ctx context.Context, o *order.Order, cust *customer.Customer)
}

// Result is what the storefront shows on the confirmation screen.
type Result struct {
	OrderID string `json:"orderId"`
	Total   int64  `json:"total"`
}

type Service struct {
	products  catalog.Repository
	customers customer.Repository
	orders    order.Repository
	notifier  Notifier
	// default region for phone parsing, e.g. "GA"
	phoneRegion string
	logger      zerolog.Logger
}

func NewService(
	products catalog.Repository,
	customers customer.Repository,
	orders order.Repository,
	notifier Notifier,
	phoneRegion string,
	logger zerolog.Logger,
) *Service {
	return &Service{
		products:    products,
		customers:   customers,
		orders:      orders,
		notifier:    notifier,
		phoneRegion: phoneRegion,
		logger:      logger,
	}
}

// ValidateContact checks every form field and returns all failures together,
// never just the first one.
func (s *Service) ValidateContact(form ContactForm) validate.FieldErrors {
	errs := validate.FieldErrors{}

	if msg := validate.PersonName(form.FirstName, "Le prénom"); msg != "" {
		errs["firstName"] = msg
	}
	if msg := validate.PersonName(form.LastName, "Le nom"); msg != "" {
		errs["lastName"] = msg
	}
	if msg := validate.Email(form.Email); msg != "" {
		errs["email"] = msg
	}
	if msg := validate.Phone(form.Phone, s.phoneRegion); msg != "" {
		errs["phone"] = msg
	}
	if msg := validate.Address(form.Address); msg != "" {
		errs["address"] = msg
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateCartStock re-reads each referenced product's live stock, since the
// cart's cached value may be stale relative to purchases by other sessions,
// and reports per-line availability. Advisory only: the authoritative check
// happens inside the order-creation transaction.
func (s *Service) ValidateCartStock(ctx context.Context, c *cart.Cart) (map[string]bool, error) {
	availability := make(map[string]bool)
	for _, line := range c.Lines() {
		p, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				availability[line.ProductID] = false
				continue
			}
			return nil, fmt.Errorf("check stock for %s: %w", line.ProductID, err)
		}
		availability[line.ProductID] = p.Stock >= line.Quantity
	}
	return availability, nil
}

// Checkout runs the full pipeline. On success the cart is cleared and the
// created order id and total are returned. Recoverable failures come back as
// validate.FieldErrors or *order.StockConflictError; anything else is a
// backend failure that left no partial order behind.
func (s *Service) Checkout(ctx context.Context, c *cart.Cart, form ContactForm) (*Result, error) {
	if c.Len() == 0 {
		return nil, ErrEmptyCart
	}

	if errs := s.ValidateContact(form); errs != nil {
		return nil, errs
	}

	if err := s.checkStock(ctx, c); err != nil {
		return nil, err
	}

	cust, err := s.resolveCustomer(ctx, form)
	if err != nil {
		return nil, err
	}

	// The total is recomputed here from the captured line prices; the amount
	// submitted by the client is never trusted.
	lines := make([]order.Line, 0, c.Len())
	var total int64
	for _, l := range c.Lines() {
		lines = append(lines, order.Line{
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Quantity:    l.Quantity,
			UnitPrice:   l.Price,
		})
		total += l.Price * int64(l.Quantity)
	}

	o := &order.Order{
		CustomerID: cust.ID,
		Total:      total,
		Lines:      lines,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		var conflict *order.StockConflictError
		if errors.As(err, &conflict) {
			return nil, conflict
		}
		s.logger.Error().Err(err).Str("customer_id", cust.ID).Msg("order creation failed")
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", o.ID).
		Str("customer_id", cust.ID).
		Int64("total", o.Total).
		Int("lines", len(o.Lines)).
		Msg("order created")

	if s.notifier != nil {
		s.notifier.OrderCreated(ctx, o, cust)
	}

	c.Clear()

	return &Result{OrderID: o.ID, Total: o.Total}, nil
}

func (s *Service) checkStock(ctx context.Context, c *cart.Cart) error {
	var conflicts []order.StockConflict
	for _, line := range c.Lines() {
		p, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				conflicts = append(conflicts, order.StockConflict{
					ProductID: line.ProductID,
					Requested: line.Quantity,
				})
				continue
			}
			return fmt.Errorf("check stock for %s: %w", line.ProductID, err)
		}
		if p.Stock < line.Quantity {
			conflicts = append(conflicts, order.StockConflict{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Available: p.Stock,
			})
		}
	}
	if len(conflicts) > 0 {
		return &order.StockConflictError{Conflicts: conflicts}
	}
	return nil
}

func (s *Service) resolveCustomer(ctx context.Context, form ContactForm) (*customer.Customer, error) {
	email := strings.ToLower(strings.TrimSpace(form.Email))

	existing, err := s.customers.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, customer.ErrNotFound) {
		return nil, fmt.Errorf("look up customer: %w", err)
	}

	cust := &customer.Customer{
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
		Email:     email,
		Phone:     strings.TrimSpace(form.Phone),
		Address:   strings.TrimSpace(form.Address),
	}
	if err := s.customers.Create(ctx, cust); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	s.logger.Info().Str("customer_id", cust.ID).Msg("customer created")
	return cust, nil
}
