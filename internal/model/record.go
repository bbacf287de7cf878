package model

import "time"

// AttributionRecord is the flattened Order + ContactMatch row appended to
// the external ledger. Write-once.
type AttributionRecord struct {
	Store              string `json:"store"`
	OrderID            string `json:"order_id"`
	Email              string `json:"email"`
	CustomerName       string `json:"customer_name"`
	Phone              string `json:"phone"`
	OrderDate          string `json:"order_date"`
	OrderTotal         string `json:"order_total"`
	SalesRep           string `json:"sales_rep"`
	ContactDate        string `json:"contact_date"`
	ManualVerification bool   `json:"manual_verification"`
	ReviewReason       string `json:"review_reason"`
	RecordType         string `json:"record_type"`
	NetSuitePhone      string `json:"netsuite_phone"`
}

// RunStatus is the terminal state of one attribution invocation.
type RunStatus string

const (
	RunStatusSuccess RunStatus = "success"
	RunStatusIgnored RunStatus = "ignored"
	RunStatusFailed  RunStatus = "failed"
)

// Run is the locally persisted audit row for one attribution invocation.
type Run struct {
	ID                 string    `json:"id"`
	OrderID            string    `json:"order_id"`
	Store              string    `json:"store"`
	Status             RunStatus `json:"status"`
	SalesRep           string    `json:"sales_rep,omitempty"`
	ManualVerification bool      `json:"manual_verification"`
	ReviewReason       string    `json:"review_reason,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}
