package schoolsby

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"dnevnik-backend/lib/htmlutil"
	"dnevnik-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// LessonRow is one lesson entry as it appears in a weekly schedule
// table, before any regrouping. At least one of Subject, Mark and
// Homework is non-empty; fully empty table rows never make it out of
// ParseWeek.
type LessonRow struct {
	Date     time.Time
	DayName  string
	Subject  string
	Mark     *string
	Homework *string
}

// WeekFetcher retrieves the rendered schedule block for one week,
// along with the identifier of the next week if the page links to one.
// A nil block with a nil error means the page rendered without any
// diary content.
type WeekFetcher interface {
	FetchWeek(ctx context.Context, pupilId, week string) (*goquery.Selection, string, error)
}

func (c *Client) FetchWeek(ctx context.Context, pupilId, week string) (*goquery.Selection, string, error) {
	ctx, span := tracer.Start(ctx, "client:FetchWeek")
	defer span.End()
	span.SetAttributes(attribute.String("week", week))

	link := fmt.Sprintf(
		"%s/m/pupil/%s/dnevnik/quarter/%d/week/%s",
		c.opts.SchoolBaseUrl, pupilId, c.opts.QuarterId, week,
	)
	res, err := c.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch week page")
		return nil, "", err
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "week page returned error status")
		return nil, "", fmt.Errorf("week page returned status %d", res.StatusCode())
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse week page html")
		return nil, "", err
	}

	next := doc.Find("a.next").First().AttrOr("next_week_id", "")

	// hidden db_days blocks (the ones carrying a style attribute) hold
	// other weeks preloaded by the portal; only the unstyled one is the
	// week actually on screen
	block, ok := htmlutil.First(doc.Selection, "div.db_days:not([style])")
	if !ok {
		slog.DebugContext(ctx, "no schedule block on week page", "week", week)
		return nil, next, nil
	}
	return block, next, nil
}

// ParseWeek extracts one LessonRow per lesson entry from a week's
// schedule block. Day dates are assigned positionally: the first
// div.db_day in the block is monday, the next monday+1, and so on.
// Days without a lesson table are skipped.
func ParseWeek(block *goquery.Selection, monday time.Time) []LessonRow {
	var rows []LessonRow

	block.Find("div.db_day").Each(func(dayIndex int, day *goquery.Selection) {
		table, ok := htmlutil.First(day, "table.db_table")
		if !ok {
			return
		}

		dayName := "?"
		if th, ok := htmlutil.First(table, "th.lesson"); ok {
			if text := htmlutil.Text(th); text != "" {
				dayName = text
			}
		}
		dayDate := monday.AddDate(0, 0, dayIndex)

		table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
			subject := ""
			if span, ok := htmlutil.First(tr, "td.lesson span"); ok {
				subject = textutil.CleanSubject(htmlutil.Text(span))
			}
			homework := optionalText(tr, "div.ht-text")
			mark := optionalText(tr, "td.mark strong")

			if subject == "" && homework == nil && mark == nil {
				return
			}
			rows = append(rows, LessonRow{
				Date:     dayDate,
				DayName:  dayName,
				Subject:  subject,
				Mark:     mark,
				Homework: homework,
			})
		})
	})

	return rows
}

func optionalText(sel *goquery.Selection, selector string) *string {
	found, ok := htmlutil.First(sel, selector)
	if !ok {
		return nil
	}
	text := htmlutil.Text(found)
	if text == "" {
		return nil
	}
	return &text
}
