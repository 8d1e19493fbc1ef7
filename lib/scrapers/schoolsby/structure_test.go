package schoolsby

import (
	"testing"

	"dnevnik-backend/lib/chrono"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string {
	return &s
}

func row(t *testing.T, date, dayName, subject string, mark, homework *string) LessonRow {
	d, err := chrono.ParseDate(date)
	require.NoError(t, err)
	return LessonRow{
		Date:     d,
		DayName:  dayName,
		Subject:  subject,
		Mark:     mark,
		Homework: homework,
	}
}

func TestStructure(t *testing.T) {
	rows := []LessonRow{
		// deliberately out of order to exercise the sorting
		row(t, "2026-01-19", "Понедельник", "Химия", nil, nil),
		row(t, "2026-01-13", "Вторник", "Физика", strptr("7"), nil),
		row(t, "2026-01-12", "Понедельник", "Алгебра", strptr("8"), strptr("§12")),
		row(t, "2026-01-12", "Понедельник", "История", nil, nil),
	}

	expected := []StructuredWeek{
		{
			Monday: "2026-01-12",
			Days: []StructuredDay{
				{
					Date: "2026-01-12",
					Name: "Понедельник",
					Lessons: []Lesson{
						{Subject: "Алгебра", Mark: strptr("8"), Homework: strptr("§12")},
						{Subject: "История"},
					},
				},
				{
					Date: "2026-01-13",
					Name: "Вторник",
					Lessons: []Lesson{
						{Subject: "Физика", Mark: strptr("7")},
					},
				},
			},
		},
		{
			Monday: "2026-01-19",
			Days: []StructuredDay{
				{
					Date: "2026-01-19",
					Name: "Понедельник",
					Lessons: []Lesson{
						{Subject: "Химия"},
					},
				},
			},
		},
	}

	diff := cmp.Diff(expected, Structure(rows))
	require.Empty(t, diff)
}

func TestStructureFirstRowNamesTheDay(t *testing.T) {
	rows := []LessonRow{
		row(t, "2026-01-12", "Понедельник", "Алгебра", nil, nil),
		row(t, "2026-01-12", "ПН", "Физика", nil, nil),
	}

	weeks := Structure(rows)
	require.Len(t, weeks, 1)
	require.Len(t, weeks[0].Days, 1)
	require.Equal(t, "Понедельник", weeks[0].Days[0].Name)
	require.Len(t, weeks[0].Days[0].Lessons, 2)
}

func TestStructureEmpty(t *testing.T) {
	require.Empty(t, Structure(nil))
}
