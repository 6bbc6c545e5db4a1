package models

import "time"

// Cart is a session-scoped collection of lines with a running total.
// CustomerID stays empty while the shopper is anonymous and is filled in the
// moment an authenticated customer touches the cart.
//
// Total must always equal the sum of the lines' subtotals; every mutation in
// CartRepository maintains that pair inside a single transaction.
type Cart struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID string     `json:"customer_id,omitempty" gorm:"index;type:varchar(36)"`
	Customer   *Customer  `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Lines      []CartLine `json:"lines" gorm:"foreignKey:CartID"`
	Total      uint       `json:"total"`
	CreatedAt  time.Time  `json:"created_at"`
}

// CartLine is one product entry in a cart. Rate is the selling price captured
// when the product was first added, so later catalog price changes never move
// an existing line. Subtotal == Rate * Quantity at all times; a line whose
// quantity reaches zero is deleted rather than kept around.
type CartLine struct {
	ID        string   `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID    string   `json:"cart_id" gorm:"index;type:varchar(36)"`
	ProductID string   `json:"product_id" gorm:"index;type:varchar(36)"`
	Product   *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Rate      uint     `json:"rate"`
	Quantity  uint     `json:"quantity"`
	Subtotal  uint     `json:"subtotal"`
}

// CartSession maps an opaque browser session token to its open cart.
// The row is deleted when checkout converts the cart into an order; the cart
// record itself lives on as the order's frozen line-item history.
type CartSession struct {
	SessionID string    `json:"session_id" gorm:"primaryKey;type:varchar(36)"`
	CartID    string    `json:"cart_id" gorm:"uniqueIndex;type:varchar(36)"`
	UpdatedAt time.Time `json:"updated_at"`
}
