package match

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/attribution-service/internal/model"
)

// ContactSource queries the CRM for contact records. Both methods return
// the most recently contacted/modified record carrying a sales rep, or
// nil when nothing matches.
type ContactSource interface {
	// PerfectMatch finds a contact whose email matches case-insensitively
	// AND whose normalized phone equals the given digits.
	PerfectMatch(ctx context.Context, email, phone string) (*model.ContactMatch, error)
	// EmailMatch finds a contact by case-insensitive email alone.
	EmailMatch(ctx context.Context, email string) (*model.ContactMatch, error)
}

// Contact attempts to match an order's billing email and phone against the
// CRM, in priority order: perfect match (email + phone), then email-only.
// The email-only result is annotated for phone discrepancies. Matching
// never returns an error: transport/query failures are absorbed into a
// not-found result flagged for manual review.
func Contact(ctx context.Context, src ContactSource, email, rawPhone string) model.ContactMatch {
	phone := NormalizePhone(rawPhone)

	if phone != "" {
		perfect, err := src.PerfectMatch(ctx, email, phone)
		if err != nil {
			return searchError(err)
		}
		if perfect != nil {
			perfect.ManualVerification = false
			perfect.ReviewReason = model.ReasonPerfectMatch
			return *perfect
		}
	}

	byEmail, err := src.EmailMatch(ctx, email)
	if err != nil {
		return searchError(err)
	}
	if byEmail != nil {
		annotate(byEmail, phone)
		return *byEmail
	}

	return model.ContactMatch{
		Found:              false,
		ManualVerification: true,
		ReviewReason:       model.ReasonNoRecord,
	}
}

// annotate sets the verification flag and reason on an email-only match
// based on how the order phone compares with the CRM phone.
func annotate(m *model.ContactMatch, phone string) {
	crmPhone := NormalizePhone(m.Phone)

	switch {
	case phone != "" && crmPhone != "":
		if crmPhone != phone {
			m.ManualVerification = true
			m.ReviewReason = model.ReasonPhoneMismatch
		} else {
			m.ManualVerification = false
			m.ReviewReason = model.ReasonPerfectMatch
		}
	case phone != "":
		m.ManualVerification = true
		m.ReviewReason = model.ReasonMissingPhone
	default:
		m.ManualVerification = false
		m.ReviewReason = model.ReasonNoPhone
	}
}

// searchError converts a CRM query failure into a needs-review result so
// matching never raises past its boundary.
func searchError(err error) model.ContactMatch {
	zap.L().Error("match: contact search failed", zap.Error(err))
	return model.ContactMatch{
		Found:              false,
		ManualVerification: true,
		ReviewReason:       model.SearchErrorReason(eris.Cause(err).Error()),
	}
}
