// Package pipeline runs one course family end to end: walk the tree, match
// file names, resolve targets, reconcile tags and record the outcome.
package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/llehouerou/mbtag/internal/config"
	"github.com/llehouerou/mbtag/internal/convention"
	"github.com/llehouerou/mbtag/internal/errmsg"
	"github.com/llehouerou/mbtag/internal/reconcile"
	"github.com/llehouerou/mbtag/internal/report"
	"github.com/llehouerou/mbtag/internal/resolve"
	"github.com/llehouerou/mbtag/internal/tags"
	"github.com/llehouerou/mbtag/internal/walk"
)

// Family selects the convention set a run applies.
type Family string

const (
	LanguageIslands Family = config.ProfileLI
	PhraseVault     Family = config.ProfileTPV
	Sentences       Family = config.ProfileSentences
	Stories         Family = config.ProfileStories
)

// Families lists every runnable family.
var Families = []Family{LanguageIslands, PhraseVault, Sentences, Stories}

// ErrUnknownFamily is returned by Run for a family it does not know.
var ErrUnknownFamily = errors.New("unknown family")

// Options configure one run.
type Options struct {
	Root   string
	Filter *regexp.Regexp // directory filter, nil accepts every directory
	DryRun bool
}

// Runner executes families against a configuration.
type Runner struct {
	cfg *config.Config
	log *zap.Logger
}

// New creates a runner. A nil logger discards all output.
func New(cfg *config.Config, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{cfg: cfg, log: log}
}

// run holds the state of one Run call.
type run struct {
	*Runner
	opts      Options
	typedRoot string // root as given, before it was made absolute
	constants resolve.Constants
	report    *report.RunReport
}

// Run processes every file of the family under opts.Root and returns the
// report. An I/O failure aborts the run; the partial report is returned with
// the error.
func (r *Runner) Run(family Family, opts Options) (*report.RunReport, error) {
	rep := &report.RunReport{}

	typedRoot := opts.Root
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return rep, fmt.Errorf("resolve root: %w", err)
	}
	opts.Root = root

	profile := r.cfg.Profile(string(family))
	ru := &run{
		Runner:    r,
		opts:      opts,
		typedRoot: typedRoot,
		constants: resolve.Constants{
			Artist:  r.cfg.Artist,
			Genre:   r.cfg.Genre,
			Comment: profile.Comment,
			Album:   profile.Album,
		},
		report: rep,
	}

	r.log.Info("scanning",
		zap.String("family", string(family)),
		zap.String("root", root),
		zap.Bool("dry_run", opts.DryRun))

	switch family {
	case LanguageIslands:
		err = ru.names(convention.SAI, r.cfg.AudioExtensions, false)
	case PhraseVault:
		err = ru.names(convention.TPV, r.cfg.AudioExtensions, false)
	case Sentences:
		err = ru.names(convention.Sentence, r.cfg.AudioExtensions, true)
	case Stories:
		err = ru.stories()
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownFamily, family)
	}
	return rep, err
}

// walkOptions builds the traversal options for one walk of this run rooted
// at dir. The filter and exclusion marker see paths as typed by the user.
func (ru *run) walkOptions(dir string, exts []string, filter *regexp.Regexp) walk.Options {
	return walk.Options{
		Extensions:    exts,
		Filter:        filter,
		ExcludeMarker: ru.cfg.ExcludeMarker,
		TypedRoot:     ru.typedPath(dir),
		OnDir: func(dir string, included bool) {
			if included {
				ru.log.Debug("entering directory", zap.String("dir", dir))
			} else {
				ru.log.Debug("directory filtered out", zap.String("dir", dir))
			}
		},
	}
}

// typedPath maps an absolute directory under the run root back onto the
// root as the user typed it.
func (ru *run) typedPath(dir string) string {
	rel, err := filepath.Rel(ru.opts.Root, dir)
	if err != nil {
		return dir
	}
	return filepath.Join(ru.typedRoot, rel)
}

// names handles the families whose files are matched by name alone, with an
// optional path context requirement.
func (ru *run) names(id convention.ID, exts []string, needsPath bool) error {
	for entry, err := range walk.Walk(ru.opts.Root, ru.walkOptions(ru.opts.Root, exts, ru.opts.Filter)) {
		if err != nil {
			return errmsg.Wrap(errmsg.OpWalk, entry.Dir, err)
		}

		path := entry.Path()
		base := baseName(entry.Name)

		var pc convention.PathContext
		if needsPath {
			var ok bool
			pc, ok = convention.ParsePathContext(entry.Dir)
			if !ok {
				ru.log.Debug("skipping, no course level in path", zap.String("path", path))
				continue
			}
		}

		if !convention.Candidate(id, base) {
			ru.log.Debug("skipping, not a candidate", zap.String("path", path))
			continue
		}
		ru.report.Record(path, report.Unmatched)

		params := convention.Params{Level: pc.Level}
		m, err := convention.Parse(id, base, params)
		if err != nil {
			ru.logNoMatch(path, id, params, err)
			continue
		}

		rc := resolve.Context{
			PathCode:  pc.Code,
			Kind:      tags.Classify(entry.Name, ru.cfg.AudioExtensions, ru.cfg.VideoExtensions),
			Constants: ru.constants,
		}
		if err := ru.apply(path, rc, m); err != nil {
			return err
		}
	}
	return nil
}

func (ru *run) logNoMatch(path string, id convention.ID, p convention.Params, err error) {
	if errors.Is(err, convention.ErrNoMatch) {
		ru.log.Info("no match",
			zap.String("path", path),
			zap.String("pattern", convention.Pattern(id, p)))
		return
	}
	ru.log.Warn("no match", zap.String("path", path), zap.Error(err))
}

// apply resolves and reconciles one matched file and records the outcome.
func (ru *run) apply(path string, rc resolve.Context, m convention.Match) error {
	target, err := resolve.Resolve(rc, m)
	if err != nil {
		ru.log.Warn("cannot resolve", zap.String("path", path), zap.Error(err))
		return nil
	}

	a, err := tags.Open(path, tags.Options{ID3Version: ru.cfg.ID3Version})
	if errors.Is(err, tags.ErrUnsupportedFormat) {
		ru.log.Warn("no tag adapter", zap.String("path", path), zap.Error(err))
		return nil
	}
	if err != nil {
		return errmsg.Wrap(errmsg.OpTagsOpen, path, err)
	}
	defer a.Close()

	if ru.opts.DryRun {
		a = tags.DryRun(a)
	}

	res, err := reconcile.Reconcile(a, target)
	if err != nil {
		return errmsg.Wrap(errmsg.OpTagsWrite, path, err)
	}

	if res.Outcome == reconcile.Updated {
		ru.report.Record(path, report.Updated)
		fields := make([]string, len(res.Fields))
		for i, k := range res.Fields {
			fields[i] = string(k)
		}
		ru.log.Info("updated",
			zap.String("path", path),
			zap.String("title", target.Tags[tags.Title]),
			zap.Strings("fields", fields),
			zap.Bool("comment", res.CommentWritten),
			zap.Bool("created", res.Created))
		return nil
	}

	ru.report.Record(path, report.Unchanged)
	ru.log.Info("unchanged", zap.String("path", path))
	return nil
}

// baseName strips the extension.
func baseName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
