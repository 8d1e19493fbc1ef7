package schoolsby

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dnevnik-backend/lib/chrono"

	"go.opentelemetry.io/otel/attribute"
)

// ErrStructure marks irrecoverable structural mismatches in portal
// pages, like a week identifier that is not a date.
var ErrStructure = errors.New("structural parsing error")

// FetchQuarter walks weekly schedule pages starting from startWeek,
// following "next week" pointers until they run out, repeat, or a page
// comes back without a schedule block. A missing block is treated as
// the end of the term, even when the page still carries a next-week
// pointer. A fetch failure stops the walk and keeps whatever rows were
// collected so far.
func FetchQuarter(ctx context.Context, fetcher WeekFetcher, pupilId, startWeek string, delay time.Duration) ([]LessonRow, error) {
	ctx, span := tracer.Start(ctx, "FetchQuarter")
	defer span.End()
	span.SetAttributes(attribute.String("start_week", startWeek))

	visited := map[string]bool{}
	week := startWeek
	var rows []LessonRow

	for week != "" && !visited[week] {
		visited[week] = true

		date, err := chrono.ParseDate(week)
		if err != nil {
			return rows, fmt.Errorf("%w: week id %q: %v", ErrStructure, week, err)
		}

		block, next, err := fetcher.FetchWeek(ctx, pupilId, week)
		if err != nil {
			slog.WarnContext(ctx, "week fetch failed, stopping traversal", "week", week, "err", err)
			return rows, nil
		}
		if block == nil {
			break
		}
		rows = append(rows, ParseWeek(block, chrono.WeekStart(date))...)

		week = next
		if week == "" {
			break
		}

		// courtesy pause so we don't hammer the portal
		select {
		case <-ctx.Done():
			return rows, ctx.Err()
		case <-time.After(delay):
		}
	}

	span.SetAttributes(
		attribute.Int("weeks_visited", len(visited)),
		attribute.Int("rows", len(rows)),
	)
	return rows, nil
}

// Quarter scrapes the configured term for a pupil and regroups the
// rows into the structured week/day/lesson hierarchy.
func (c *Client) Quarter(ctx context.Context, pupilId string) ([]StructuredWeek, error) {
	rows, err := FetchQuarter(ctx, c, pupilId, c.opts.StartWeek, c.opts.RequestDelay)
	if err != nil {
		return nil, err
	}
	return Structure(rows), nil
}
