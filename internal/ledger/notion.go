package ledger

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"

	"github.com/sells-group/attribution-service/internal/model"
	"github.com/sells-group/attribution-service/pkg/notion"
)

// Notion appends attribution records as pages of a Notion database.
type Notion struct {
	client notion.Client
	dbID   string
}

// NewNotion creates a Notion-database ledger.
func NewNotion(client notion.Client, dbID string) *Notion {
	return &Notion{client: client, dbID: dbID}
}

func (n *Notion) Append(ctx context.Context, rec model.AttributionRecord) error {
	req := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(n.dbID),
		},
		Properties: notionapi.Properties{
			"Order":               title(rec.OrderID),
			"Store":               richText(rec.Store),
			"Email":               richText(rec.Email),
			"Customer":            richText(rec.CustomerName),
			"Phone":               richText(rec.Phone),
			"Order Date":          richText(rec.OrderDate),
			"Order Total":         richText(rec.OrderTotal),
			"Sales Rep":           richText(rec.SalesRep),
			"Contact Date":        richText(rec.ContactDate),
			"Review Reason":       richText(rec.ReviewReason),
			"Record Type":         richText(rec.RecordType),
			"NetSuite Phone":      richText(rec.NetSuitePhone),
			"Manual Verification": notionapi.CheckboxProperty{Checkbox: rec.ManualVerification},
		},
	}

	if _, err := n.client.CreatePage(ctx, req); err != nil {
		return eris.Wrapf(err, "ledger: notion append order %s", rec.OrderID)
	}
	return nil
}

func title(s string) notionapi.TitleProperty {
	return notionapi.TitleProperty{
		Title: []notionapi.RichText{{Text: &notionapi.Text{Content: s}}},
	}
}

func richText(s string) notionapi.RichTextProperty {
	return notionapi.RichTextProperty{
		RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: s}}},
	}
}
