package cli

import (
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llehouerou/mbtag/internal/errmsg"
	"github.com/llehouerou/mbtag/internal/report"
	"github.com/llehouerou/mbtag/internal/tags"
	"github.com/llehouerou/mbtag/internal/walk"
)

func newShowCommand(a *app) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "show [scan_dir]",
		Short: "Print the tags of every media file without changing anything",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			absRoot, err := filepath.Abs(root)
			if err != nil {
				return errmsg.Wrap(errmsg.OpWalk, root, err)
			}

			re, err := walk.CompileFilter(filter)
			if err != nil {
				return errmsg.Wrap(errmsg.OpCompileFilter, filter, err)
			}

			opts := walk.Options{
				Extensions:    slices.Concat(a.cfg.AudioExtensions, a.cfg.VideoExtensions),
				Filter:        re,
				ExcludeMarker: a.cfg.ExcludeMarker,
			}
			for entry, err := range walk.Walk(absRoot, opts) {
				if err != nil {
					return errmsg.Wrap(errmsg.OpWalk, entry.Dir, err)
				}

				path := entry.Path()
				in, err := tags.Inspect(path)
				if err != nil {
					a.log.Warn(errmsg.FormatWith(errmsg.OpTagsInspect, path, err), zap.Error(err))
					continue
				}
				if err := report.RenderInspection(cmd.OutOrStdout(), in, absRoot); err != nil {
					return errmsg.Wrap(errmsg.OpRenderReport, path, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Case-insensitive regex a directory path must match for its files to be shown")
	return cmd
}
