package attribution

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chicago(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)
	return loc
}

func TestFormatOrderDate_RFC1123Z(t *testing.T) {
	t.Parallel()

	// 16:22 UTC in August is 11:22 AM in Chicago (CDT).
	got := FormatOrderDate("Tue, 05 Aug 2026 16:22:01 +0000", chicago(t))
	assert.Equal(t, "08/05/2026 11:22:01 AM CST", got)
}

func TestFormatOrderDate_ISO(t *testing.T) {
	t.Parallel()

	got := FormatOrderDate("2026-01-15T03:04:05Z", chicago(t))
	assert.Equal(t, "01/14/2026 09:04:05 PM CST", got)

	got = FormatOrderDate("2026-01-15T03:04:05.123456Z", chicago(t))
	assert.Equal(t, "01/14/2026 09:04:05 PM CST", got, "fractional seconds accepted")
}

func TestFormatOrderDate_NoLocation(t *testing.T) {
	t.Parallel()

	got := FormatOrderDate("2026-01-15T03:04:05Z", nil)
	assert.Equal(t, "01/15/2026 03:04:05 AM UTC", got)
}

func TestFormatOrderDate_Passthrough(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", FormatOrderDate("", chicago(t)))
	assert.Equal(t, "yesterday-ish", FormatOrderDate("yesterday-ish", chicago(t)))
}

func TestFormatOrderTotal(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "149.95", FormatOrderTotal("149.9500"))
	assert.Equal(t, "1,234.50", FormatOrderTotal("1234.5"))
	assert.Equal(t, "0.00", FormatOrderTotal("0.00"))
	assert.Equal(t, "free", FormatOrderTotal("free"), "unparseable passes through")
}
