package analytics

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sensationsbyarda-lgtm/Senteurs/internal/customer"
)

// utf8BOM keeps spreadsheet tools from misreading accented characters.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var orderCSVHeader = []string{
	"ID Commande", "Date", "Client", "Email", "Téléphone", "Adresse",
	"Produits", "Total", "Statut", "Vue",
}

var productCSVHeader = []string{
	"ID", "Nom", "Type", "Prix", "Stock", "Description", "Créé le",
}

// OrdersCSV exports the orders of the trailing window, one row per order.
func (s *Service) OrdersCSV(ctx context.Context, days int) ([]byte, error) {
	since := s.now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	orders, err := s.orders.ListSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("list orders in window: %w", err)
	}

	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	byID := make(map[string]customer.Customer, len(customers))
	for _, c := range customers {
		byID[c.ID] = c
	}

	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)

	if err := w.Write(orderCSVHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for _, o := range orders {
		cust := byID[o.CustomerID]

		lines := make([]string, 0, len(o.Lines))
		for _, l := range o.Lines {
			lines = append(lines, fmt.Sprintf("%s x%d", l.ProductName, l.Quantity))
		}

		viewed := "Non"
		if o.Viewed {
			viewed = "Oui"
		}

		row := []string{
			o.ID,
			o.CreatedAt.UTC().Format("02/01/2006 15:04 (UTC)"),
			strings.TrimSpace(cust.FirstName + " " + cust.LastName),
			cust.Email,
			cust.Phone,
			cust.Address,
			strings.Join(lines, " | "),
			strconv.FormatInt(o.Total, 10),
			o.Status.String(),
			viewed,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ProductsCSV exports the whole catalog, one row per product.
func (s *Service) ProductsCSV(ctx context.Context) ([]byte, error) {
	products, err := s.products.List(ctx, "", "")
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)

	if err := w.Write(productCSVHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for _, p := range products {
		row := []string{
			p.ID,
			p.Name,
			string(p.Category),
			strconv.FormatInt(p.Price, 10),
			strconv.Itoa(p.Stock),
			p.Description,
			p.CreatedAt.UTC().Format("02/01/2006"),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
