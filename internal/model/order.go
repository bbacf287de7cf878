// Package model defines the domain types shared across the attribution service.
package model

// Order holds the billing fields extracted from an order-management API
// response. Immutable once fetched.
type Order struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	CustomerName string `json:"customer_name"`
	Phone        string `json:"phone"`
	OrderDate    string `json:"order_date"`  // raw vendor timestamp, formatted at ledger-write time
	OrderTotal   string `json:"order_total"` // vendor decimal string, e.g. "149.95"
	Store        string `json:"store"`       // display name of the originating store
}
