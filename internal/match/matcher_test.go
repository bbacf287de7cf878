package match

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/attribution-service/internal/model"
)

// fakeSource is a scripted ContactSource for matcher tests.
type fakeSource struct {
	perfect    *model.ContactMatch
	perfectErr error
	byEmail    *model.ContactMatch
	byEmailErr error

	perfectCalls int
	emailCalls   int
	gotPhone     string
}

func (f *fakeSource) PerfectMatch(_ context.Context, _, phone string) (*model.ContactMatch, error) {
	f.perfectCalls++
	f.gotPhone = phone
	return f.perfect, f.perfectErr
}

func (f *fakeSource) EmailMatch(_ context.Context, _ string) (*model.ContactMatch, error) {
	f.emailCalls++
	return f.byEmail, f.byEmailErr
}

func contact(rep, phone string) *model.ContactMatch {
	return &model.ContactMatch{
		Found:     true,
		ContactID: "1042",
		Email:     "buyer@example.com",
		Phone:     phone,
		SalesRep:  rep,
	}
}

func TestContact_PerfectMatch(t *testing.T) {
	t.Parallel()

	src := &fakeSource{perfect: contact("J. Smith", "555-123-4567")}
	got := Contact(context.Background(), src, "buyer@example.com", "(555) 123-4567")

	require.True(t, got.Found)
	assert.Equal(t, "J. Smith", got.SalesRep)
	assert.False(t, got.ManualVerification)
	assert.Equal(t, model.ReasonPerfectMatch, got.ReviewReason)
	assert.Equal(t, "5551234567", src.gotPhone, "phone should be normalized before querying")
	assert.Zero(t, src.emailCalls, "email-only query skipped when perfect match hits")
}

func TestContact_EmailOnly_PhoneMismatch(t *testing.T) {
	t.Parallel()

	src := &fakeSource{byEmail: contact("J. Smith", "555-999-0000")}
	got := Contact(context.Background(), src, "buyer@example.com", "555-123-4567")

	require.True(t, got.Found)
	assert.True(t, got.ManualVerification)
	assert.Equal(t, model.ReasonPhoneMismatch, got.ReviewReason)
}

func TestContact_EmailOnly_PhonesAgree(t *testing.T) {
	t.Parallel()

	// Perfect-match query missed (e.g. CRM stores the phone with
	// formatting the SQL normalization did not cover), but the phones
	// agree after local normalization.
	src := &fakeSource{byEmail: contact("J. Smith", "+1 (555) 123-4567")}
	got := Contact(context.Background(), src, "buyer@example.com", "1-555-123-4567")

	require.True(t, got.Found)
	assert.False(t, got.ManualVerification)
	assert.Equal(t, model.ReasonPerfectMatch, got.ReviewReason)
}

func TestContact_EmailOnly_MissingCRMPhone(t *testing.T) {
	t.Parallel()

	src := &fakeSource{byEmail: contact("J. Smith", "")}
	got := Contact(context.Background(), src, "buyer@example.com", "555-123-4567")

	require.True(t, got.Found)
	assert.True(t, got.ManualVerification)
	assert.Equal(t, model.ReasonMissingPhone, got.ReviewReason)
}

func TestContact_NoPhoneProvided(t *testing.T) {
	t.Parallel()

	src := &fakeSource{byEmail: contact("J. Smith", "555-123-4567")}
	got := Contact(context.Background(), src, "buyer@example.com", "")

	require.True(t, got.Found)
	assert.False(t, got.ManualVerification)
	assert.Equal(t, model.ReasonNoPhone, got.ReviewReason)
	assert.Zero(t, src.perfectCalls, "no phone means no perfect-match query")
}

func TestContact_NoRecord(t *testing.T) {
	t.Parallel()

	src := &fakeSource{}
	got := Contact(context.Background(), src, "stranger@example.com", "555-123-4567")

	assert.False(t, got.Found)
	assert.True(t, got.ManualVerification)
	assert.Equal(t, model.ReasonNoRecord, got.ReviewReason)
}

func TestContact_SearchErrorAbsorbed(t *testing.T) {
	t.Parallel()

	src := &fakeSource{perfectErr: eris.New("connection refused")}
	got := Contact(context.Background(), src, "buyer@example.com", "555-123-4567")

	assert.False(t, got.Found)
	assert.True(t, got.ManualVerification)
	assert.Equal(t, model.SearchErrorReason("connection refused"), got.ReviewReason)
}

func TestContact_EmailSearchErrorAbsorbed(t *testing.T) {
	t.Parallel()

	src := &fakeSource{byEmailErr: eris.New("suiteql: status 503")}
	got := Contact(context.Background(), src, "buyer@example.com", "")

	assert.False(t, got.Found)
	assert.True(t, got.ManualVerification)
	assert.Contains(t, string(got.ReviewReason), "Search error:")
}
