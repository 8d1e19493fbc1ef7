package commands

import (
	"context"
	"time"

	"dnevnik-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Verify portal credentials and print the harvested session.",
	Run: func(cmd *cobra.Command, args []string) {
		svc, cfg := newService()

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		session, err := svc.Login(ctx, cfg.Username, cfg.Password)
		if err != nil {
			serviceutil.Fatal("login failed", err)
		}

		t := newTable()
		t.AppendRows([]table.Row{
			{"sessionid", session.SessionId},
			{"pupilid", session.PupilId},
			{"full name", session.Profile.FullName},
			{"class", session.Profile.ClassName},
			{"class teacher", session.Profile.ClassTeacher},
			{"avatar", session.Profile.AvatarUrl},
		})
		t.Render()
	},
}
