package commands

import (
	"context"
	"log/slog"
	"time"

	"dnevnik-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(quarterCmd)
}

var quarterCmd = &cobra.Command{
	Use:   "quarter",
	Short: "Scrape the configured term and print the timetable.",
	Run: func(cmd *cobra.Command, args []string) {
		svc, cfg := newService()

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute*10)
		defer cancel()

		session, err := svc.Login(ctx, cfg.Username, cfg.Password)
		if err != nil {
			serviceutil.Fatal("login failed", err)
		}
		slog.Info("logged in", "pupilid", session.PupilId)

		t1 := time.Now()
		weeks, err := svc.Quarter(ctx, session.SessionId, session.PupilId)
		if err != nil {
			serviceutil.Fatal("quarter scrape failed", err)
		}
		slog.Info("scraping time", "seconds", time.Since(t1).Seconds())

		t := newTable()
		t.AppendHeader(table.Row{"Date", "Day", "Subject", "Mark", "Homework"})
		for _, week := range weeks {
			for _, day := range week.Days {
				for _, lesson := range day.Lessons {
					t.AppendRow(table.Row{
						day.Date,
						day.Name,
						lesson.Subject,
						orEmpty(lesson.Mark),
						orEmpty(lesson.Homework),
					})
				}
			}
		}
		t.Render()
	},
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
