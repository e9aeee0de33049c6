// Package cart implements the session-scoped shopping cart. A cart lives in
// memory only, is owned by exactly one browsing session, and is never persisted.
package cart

// Snapshot captures the product fields copied into a cart line at add time.
// Price changes in the catalog do not retroactively alter an existing line.
type Snapshot struct {
	Name  string
	Price int64
	Image string
	// Stock as known when the snapshot was taken.
	Stock int
}

type Line struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image"`
	// Stock known at the time of the last mutation touching this line.
	Stock int `json:"stock"`
}

// Cart is a single session's cart. It is single-writer within one session and
// never shared across sessions, so it carries no lock of its own.
type Cart struct {
	lines map[string]*Line
	// insertion order, for stable display
	order []string
}

func New() *Cart {
	return &Cart{lines: make(map[string]*Line)}
}

// Add puts quantity units of a product into the cart, creating a new line or
// incrementing the existing one. It reports false and leaves the cart
// unchanged when the resulting quantity would exceed the snapshot stock.
func (c *Cart) Add(productID string, snap Snapshot, quantity int) bool {
	if quantity <= 0 || quantity > snap.Stock {
		return false
	}

	if line, ok := c.lines[productID]; ok {
		newQty := line.Quantity + quantity
		if newQty > snap.Stock {
			return false
		}
		line.Quantity = newQty
		line.Stock = snap.Stock
		return true
	}

	c.lines[productID] = &Line{
		ProductID: productID,
		Name:      snap.Name,
		Price:     snap.Price,
		Quantity:  quantity,
		Image:     snap.Image,
		Stock:     snap.Stock,
	}
	c.order = append(c.order, productID)
	return true
}

// SetQuantity overwrites a line's quantity. A quantity of zero or less removes
// the line. It reports false when the line does not exist or the quantity
// exceeds the stock known for that line.
func (c *Cart) SetQuantity(productID string, quantity int) bool {
	line, ok := c.lines[productID]
	if !ok {
		return false
	}
	if quantity <= 0 {
		c.Remove(productID)
		return true
	}
	if quantity > line.Stock {
		return false
	}
	line.Quantity = quantity
	return true
}

// Remove deletes a line. Removing an absent line is a no-op.
func (c *Cart) Remove(productID string) {
	if _, ok := c.lines[productID]; !ok {
		return
	}
	delete(c.lines, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Clear empties the cart. Called after a successful checkout.
func (c *Cart) Clear() {
	c.lines = make(map[string]*Line)
	c.order = nil
}

// Total is the sum of price × quantity over all lines.
func (c *Cart) Total() int64 {
	var total int64
	for _, line := range c.lines {
		total += line.Price * int64(line.Quantity)
	}
	return total
}

// Count is the sum of quantities over all lines.
func (c *Cart) Count() int {
	var n int
	for _, line := range c.lines {
		n += line.Quantity
	}
	return n
}

// Lines returns the cart content in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.lines[id])
	}
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}
