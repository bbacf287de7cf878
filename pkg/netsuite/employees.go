package netsuite

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// employeeRow is one SuiteQL employee result row.
type employeeRow struct {
	ID        str `json:"id"`
	EntityID  str `json:"entityid"`
	FirstName str `json:"firstname"`
	LastName  str `json:"lastname"`
	Email     str `json:"email"`
}

// EmployeeName resolves an internal employee ID to a display name:
// first+last name, falling back to the entityid, falling back to an
// "Employee ID: <id>" placeholder. Lookup failures degrade to the
// placeholder so a match is never aborted by this secondary query.
func EmployeeName(ctx context.Context, c Client, employeeID string) string {
	placeholder := "Employee ID: " + employeeID

	q := NewQuery(`
SELECT id, entityid, firstname, lastname, email
FROM employee
WHERE id = ?`, employeeID)

	var rows []employeeRow
	if err := c.Query(ctx, q, &rows); err != nil {
		zap.L().Warn("netsuite: employee lookup failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return placeholder
	}
	if len(rows) == 0 {
		return placeholder
	}

	name := strings.TrimSpace(string(rows[0].FirstName) + " " + string(rows[0].LastName))
	if name == "" {
		name = string(rows[0].EntityID)
	}
	if name == "" {
		name = placeholder
	}
	return name
}
