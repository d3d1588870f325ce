package models

import "time"

type CartItem struct {
	ProductID  int64     `db:"product_id" json:"product_id"`
	Title      string    `db:"title" json:"title"`
	Price      string    `db:"price" json:"price"`
	PriceCents int64     `db:"price_cents" json:"price_cents"`
	// Unpriced: цена в базе не разобралась, строка не входит в сумму.
	Unpriced bool `db:"-" json:"unpriced,omitempty"`
	Image      string    `db:"image" json:"image"`
	Quantity   int       `db:"quantity" json:"quantity"`
	AddedAt    time.Time `db:"added_at" json:"added_at"`
}

// Subtotal is the line amount in centavos.
func (i CartItem) Subtotal() int64 {
	return i.PriceCents * int64(i.Quantity)
}

// CartSummary.Total пустой, если хотя бы одна строка без цены.
type CartSummary struct {
	Items         []CartItem `json:"items"`
	TotalCents    int64      `json:"total_cents"`
	Total         string     `json:"total"`
	UnpricedItems int        `json:"unpriced_items,omitempty"`
}
