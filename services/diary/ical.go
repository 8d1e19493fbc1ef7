package diary

import (
	"fmt"
	"net/http"

	"dnevnik-backend/lib/chrono"
	"dnevnik-backend/lib/scrapers/schoolsby"

	ics "github.com/arran4/golang-ical"
	"github.com/gin-gonic/gin"
)

func handleIcal(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		weeks, ok := fetchWeeks(c, svc)
		if !ok {
			return
		}

		feed, err := RenderCalendar(weeks)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("calendar rendering failed: %s", err)})
			return
		}
		c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
	}
}

// RenderCalendar converts structured weeks into an iCalendar feed with
// one all-day event per lesson, so the timetable can be subscribed to
// from any calendar app. Marks ride along in the summary and homework
// in the description.
func RenderCalendar(weeks []schoolsby.StructuredWeek) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//dnevnik-backend//diary//EN")

	for _, week := range weeks {
		for _, day := range week.Days {
			date, err := chrono.ParseDate(day.Date)
			if err != nil {
				return "", err
			}
			for i, lesson := range day.Lessons {
				event := cal.AddEvent(fmt.Sprintf("%s-%d@dnevnik", day.Date, i))
				event.SetDtStampTime(chrono.Now())
				event.SetAllDayStartAt(date)
				event.SetAllDayEndAt(date.AddDate(0, 0, 1))

				summary := lesson.Subject
				if summary == "" {
					summary = day.Name
				}
				if lesson.Mark != nil {
					summary = fmt.Sprintf("%s [%s]", summary, *lesson.Mark)
				}
				event.SetSummary(summary)
				if lesson.Homework != nil {
					event.SetDescription(*lesson.Homework)
				}
			}
		}
	}

	return cal.Serialize(), nil
}
