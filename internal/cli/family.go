package cli

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/llehouerou/mbtag/internal/errmsg"
	"github.com/llehouerou/mbtag/internal/pipeline"
	"github.com/llehouerou/mbtag/internal/report"
	"github.com/llehouerou/mbtag/internal/walk"
)

var familyHelp = map[pipeline.Family]string{
	pipeline.LanguageIslands: "Tag Language Islands audio (SAI-<title>[-Part<N>]-<person>)",
	pipeline.PhraseVault:     "Tag The Phrase Vault audio (<title>[_Part_<N>]_<ALBUM>_MANDARIN_BLUEPRINT)",
	pipeline.Sentences:       "Tag combined sentence audio (L<level> All Sentences Combined)",
	pipeline.Stories:         "Tag story paragraph audio and video from TITLE INFO sidecars",
}

func newFamilyCommands(a *app) []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(pipeline.Families))
	for _, f := range pipeline.Families {
		cmds = append(cmds, newFamilyCommand(a, f))
	}
	return cmds
}

func newFamilyCommand(a *app, family pipeline.Family) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   string(family) + " [scan_dir]",
		Short: familyHelp[family],
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			re, err := walk.CompileFilter(filter)
			if err != nil {
				return errmsg.Wrap(errmsg.OpCompileFilter, filter, err)
			}

			start := time.Now()
			rep, err := pipeline.New(a.cfg, a.log).Run(family, pipeline.Options{
				Root:   root,
				Filter: re,
				DryRun: a.dryRun,
			})
			if err != nil {
				return runError(root, err)
			}

			absRoot, _ := filepath.Abs(root)
			err = report.Render(cmd.OutOrStdout(), rep, report.RenderOptions{
				Root:    absRoot,
				Width:   terminalWidth(),
				Elapsed: time.Since(start),
				DryRun:  a.dryRun,
			})
			return errmsg.Wrap(errmsg.OpRenderReport, "", err)
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Case-insensitive regex a directory path must match for its files to be processed")
	return cmd
}

// runError keeps the operation a pipeline failure already names and only
// wraps bare errors with the run itself.
func runError(root string, err error) error {
	var e *errmsg.Error
	if errors.As(err, &e) {
		return err
	}
	return errmsg.Wrap(errmsg.OpRun, root, err)
}
