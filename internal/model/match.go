package model

// ReviewReason explains how a contact match was (or was not) made and
// whether a human should double-check the attribution.
type ReviewReason string

const (
	ReasonPerfectMatch  ReviewReason = "Perfect match"
	ReasonPhoneMismatch ReviewReason = "Phone number mismatch"
	ReasonMissingPhone  ReviewReason = "Missing phone in NetSuite"
	ReasonNoPhone       ReviewReason = "No phone provided"
	ReasonNoRecord      ReviewReason = "No NetSuite record found"
)

// SearchErrorReason builds the review reason for a failed CRM search.
func SearchErrorReason(msg string) ReviewReason {
	return ReviewReason("Search error: " + msg)
}

// NeedsReview reports whether the reason requires manual verification.
// Only an exact email+phone match or a consistent email-only match
// (no phone on either side) is trusted automatically.
func (r ReviewReason) NeedsReview() bool {
	return r != ReasonPerfectMatch && r != ReasonNoPhone
}

// ContactMatch is the outcome of one CRM contact-match attempt.
// Constructed fresh per attempt; never persisted locally.
type ContactMatch struct {
	Found              bool         `json:"found"`
	ContactID          string       `json:"contact_id,omitempty"`
	Email              string       `json:"email,omitempty"`
	Phone              string       `json:"phone,omitempty"`
	Name               string       `json:"name,omitempty"`
	SalesRep           string       `json:"sales_rep,omitempty"`
	ContactDate        string       `json:"contact_date,omitempty"`
	CreatedDate        string       `json:"created_date,omitempty"`
	RecordType         string       `json:"record_type,omitempty"`
	ManualVerification bool         `json:"manual_verification"`
	ReviewReason       ReviewReason `json:"review_reason"`
}

// unassignedSentinels are the CRM owner values that mean "no attribution".
// The CRM surfaces both depending on how the record was created, so they
// are treated as one enumerated set rather than compared inline.
var unassignedSentinels = map[string]struct{}{
	"":             {},
	"Not Assigned": {},
	"NO OWNER":     {},
}

// IsUnassigned reports whether a sales-rep value means no rep owns the
// contact.
func IsUnassigned(rep string) bool {
	_, ok := unassignedSentinels[rep]
	return ok
}
