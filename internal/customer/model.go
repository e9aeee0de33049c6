package customer

import "time"

// Customer is a storefront buyer. Email is the natural dedup key: checkout
// reuses an existing record on email match instead of creating a duplicate.
type Customer struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
