package commands

import (
	"context"
	"fmt"
	"os"

	"dnevnik-backend/lib/configutil"
	"dnevnik-backend/lib/restyutil"
	"dnevnik-backend/lib/serviceutil"
	"dnevnik-backend/lib/telemetry"
	"dnevnik-backend/services/diary"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var dumpDir *string
var verbose *bool

var rootCmd = &cobra.Command{
	Use:   "dnevnik-cli",
	Short: "dnevnik-cli logs into the school portal and scrapes the diary from the command line.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func init() {
	dumpDir = rootCmd.PersistentFlags().String("dump", "", "Directory to write raw HTTP exchanges to.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type cliConfig struct {
	Username string       `json:"username"`
	Password string       `json:"password"`
	Diary    diary.Config `json:"diary"`
}

func newService() (*diary.Service, cliConfig) {
	cfg, err := configutil.ReadConfig[cliConfig]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}

	svc := diary.NewService(cfg.Diary)
	if *dumpDir != "" {
		svc.Instrument = restyutil.NewFilesystemOutput(*dumpDir)
	}
	return svc, cfg
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}
