package schoolsby

import (
	"slices"

	"dnevnik-backend/lib/chrono"
)

type Lesson struct {
	Subject  string  `json:"subject"`
	Mark     *string `json:"mark"`
	Homework *string `json:"hw"`
}

type StructuredDay struct {
	Date    string   `json:"date"`
	Name    string   `json:"name"`
	Lessons []Lesson `json:"lessons"`
}

type StructuredWeek struct {
	Monday string          `json:"monday"`
	Days   []StructuredDay `json:"days"`
}

type dayGroup struct {
	name    string
	lessons []Lesson
}

// Structure regroups flat lesson rows into an ordered week → day →
// lesson hierarchy. Weeks are keyed by the Monday of each row's date
// and days by the date itself, both emitted sorted ascending; lessons
// keep the order they were scraped in. The first row seen for a day
// decides the day's display name.
func Structure(rows []LessonRow) []StructuredWeek {
	weeks := map[string]map[string]*dayGroup{}

	for _, row := range rows {
		weekId := chrono.FormatDate(chrono.WeekStart(row.Date))
		dayId := chrono.FormatDate(row.Date)

		days := weeks[weekId]
		if days == nil {
			days = map[string]*dayGroup{}
			weeks[weekId] = days
		}
		day := days[dayId]
		if day == nil {
			day = &dayGroup{name: row.DayName}
			days[dayId] = day
		}
		day.lessons = append(day.lessons, Lesson{
			Subject:  row.Subject,
			Mark:     row.Mark,
			Homework: row.Homework,
		})
	}

	// canonical dates sort chronologically as plain strings
	weekIds := make([]string, 0, len(weeks))
	for id := range weeks {
		weekIds = append(weekIds, id)
	}
	slices.Sort(weekIds)

	out := make([]StructuredWeek, 0, len(weekIds))
	for _, weekId := range weekIds {
		days := weeks[weekId]
		dayIds := make([]string, 0, len(days))
		for id := range days {
			dayIds = append(dayIds, id)
		}
		slices.Sort(dayIds)

		structured := StructuredWeek{
			Monday: weekId,
			Days:   make([]StructuredDay, 0, len(dayIds)),
		}
		for _, dayId := range dayIds {
			day := days[dayId]
			structured.Days = append(structured.Days, StructuredDay{
				Date:    dayId,
				Name:    day.name,
				Lessons: day.lessons,
			})
		}
		out = append(out, structured)
	}
	return out
}
