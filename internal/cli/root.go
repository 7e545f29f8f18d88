// Package cli wires the command tree: one command per course family plus
// the read-only show command.
package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/mbtag/internal/config"
	"github.com/llehouerou/mbtag/internal/errmsg"
	"github.com/llehouerou/mbtag/internal/logging"
	"github.com/llehouerou/mbtag/internal/report"
)

// app holds what PersistentPreRunE prepares for every subcommand.
type app struct {
	logLevel   string
	jsonLogs   bool
	configPath string
	dryRun     bool

	cfg *config.Config
	log *zap.Logger
}

// newRootCommand creates a fresh command tree, so tests never share state.
func newRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "mbtag",
		Short: "Tag Mandarin Blueprint course media from file names and sidecars",
		Long: `mbtag walks a course directory, derives title, album and track metadata
from the course file naming conventions and story sidecar files, and writes
only the tags that differ from what each file already carries.

Examples:
   mbtag li ~/course/LI              # Language Islands SAI audio
   mbtag tpv --filter immersion .    # The Phrase Vault tracks
   mbtag sentences --filter mbP3 .   # L<level> All Sentences Combined
   mbtag stories --dry-run .         # story paragraphs, nothing written
   mbtag show .                      # dump the tags of every media file`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Set log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&a.jsonLogs, "json", false, "Output logs in JSON format")
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Extra configuration file applied last")
	cmd.PersistentFlags().BoolVar(&a.dryRun, "dry-run", false, "Compute changes without writing any file")

	cmd.AddCommand(newFamilyCommands(a)...)
	cmd.AddCommand(newShowCommand(a))
	return cmd
}

func (a *app) init() error {
	log, err := logging.New(logging.Options{Level: a.logLevel, JSON: a.jsonLogs})
	if err != nil {
		return errmsg.Wrap(errmsg.OpInitLogger, "", err)
	}
	a.log = log

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return errmsg.Wrap(errmsg.OpLoadConfig, a.configPath, err)
	}
	a.cfg = cfg
	return nil
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run executes args against a fresh command tree. Errors are printed to
// stderr before being returned.
func run(args []string, stdout, stderr io.Writer) error {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(stderr, err)
	}
	return err
}

// terminalWidth reads $COLUMNS, falling back to the report default.
func terminalWidth() int {
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	return report.DefaultWidth
}
