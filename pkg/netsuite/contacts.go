package netsuite

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/attribution-service/internal/model"
)

// contactColumns are the customer-table columns selected for contact
// searches. custentity_lead_caselastmoddate is a custom last-contact-date
// field; it wins the tie-break over lastmodifieddate when present.
const contactColumns = `
	id,
	email,
	phone,
	entityid,
	custentity_lead_caselastmoddate AS last_contact_date,
	lastmodifieddate,
	datecreated,
	firstname,
	lastname,
	salesrep,
	'customer' AS record_type`

// contactOrder sorts most recently contacted/modified first, so the first
// row is the winner within a match type.
const contactOrder = `
ORDER BY COALESCE(custentity_lead_caselastmoddate, lastmodifieddate) DESC`

// contactRow is one SuiteQL customer result row.
type contactRow struct {
	ID               str `json:"id"`
	Email            str `json:"email"`
	Phone            str `json:"phone"`
	EntityID         str `json:"entityid"`
	LastContactDate  str `json:"last_contact_date"`
	LastModifiedDate str `json:"lastmodifieddate"`
	DateCreated      str `json:"datecreated"`
	FirstName        str `json:"firstname"`
	LastName         str `json:"lastname"`
	SalesRep         str `json:"salesrep"`
	RecordType       str `json:"record_type"`
}

// Contacts searches CRM customer records. It implements the matcher's
// ContactSource: both searches return only records that carry a sales rep,
// most recently contacted first.
type Contacts struct {
	c Client
}

// NewContacts creates a contact search over the given SuiteQL client.
func NewContacts(c Client) *Contacts {
	return &Contacts{c: c}
}

// PerfectMatch finds the customer whose email matches case-insensitively
// and whose phone, reduced to digits on the database side, equals the
// given normalized phone.
func (s *Contacts) PerfectMatch(ctx context.Context, email, phone string) (*model.ContactMatch, error) {
	q := NewQuery(`
SELECT `+contactColumns+`
FROM customer
WHERE UPPER(email) = UPPER(?)
AND REGEXP_REPLACE(NVL(phone, ''), '[^0-9]', '') = ?
AND salesrep IS NOT NULL`+contactOrder,
		email, phone)

	rows, err := s.search(ctx, q)
	if err != nil {
		return nil, eris.Wrap(err, "netsuite: perfect match search")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return s.toMatch(ctx, rows[0]), nil
}

// EmailMatch finds the customer by case-insensitive email alone, ignoring
// phone.
func (s *Contacts) EmailMatch(ctx context.Context, email string) (*model.ContactMatch, error) {
	q := NewQuery(`
SELECT `+contactColumns+`
FROM customer
WHERE UPPER(email) = UPPER(?)
AND salesrep IS NOT NULL`+contactOrder,
		email)

	rows, err := s.search(ctx, q)
	if err != nil {
		return nil, eris.Wrap(err, "netsuite: email match search")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return s.toMatch(ctx, rows[0]), nil
}

func (s *Contacts) search(ctx context.Context, q Query) ([]contactRow, error) {
	var rows []contactRow
	if err := s.c.Query(ctx, q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// toMatch converts a result row into a ContactMatch, resolving a numeric
// salesrep reference to an employee display name. The caller sets the
// verification flag and review reason.
func (s *Contacts) toMatch(ctx context.Context, row contactRow) *model.ContactMatch {
	rep := string(row.SalesRep)
	if isDigits(rep) {
		rep = EmployeeName(ctx, s.c, rep)
	} else if rep == "" {
		rep = "Not Assigned"
	}

	name := strings.TrimSpace(string(row.FirstName) + " " + string(row.LastName))
	if name == "" {
		name = string(row.EntityID)
	}

	contactDate := string(row.LastContactDate)
	if contactDate == "" {
		contactDate = string(row.LastModifiedDate)
	}

	return &model.ContactMatch{
		Found:       true,
		ContactID:   string(row.ID),
		Email:       string(row.Email),
		Phone:       string(row.Phone),
		Name:        name,
		SalesRep:    rep,
		ContactDate: contactDate,
		CreatedDate: string(row.DateCreated),
		RecordType:  string(row.RecordType),
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
