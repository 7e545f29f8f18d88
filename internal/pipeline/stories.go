package pipeline

import (
	"errors"
	"slices"

	"go.uber.org/zap"

	"github.com/llehouerou/mbtag/internal/convention"
	"github.com/llehouerou/mbtag/internal/errmsg"
	"github.com/llehouerou/mbtag/internal/report"
	"github.com/llehouerou/mbtag/internal/resolve"
	"github.com/llehouerou/mbtag/internal/sidecar"
	"github.com/llehouerou/mbtag/internal/tags"
	"github.com/llehouerou/mbtag/internal/walk"
)

const sidecarExt = ".json"

// stories finds every story sidecar and tags the paragraph media below it.
func (ru *run) stories() error {
	for entry, err := range walk.Walk(ru.opts.Root, ru.walkOptions(ru.opts.Root, []string{sidecarExt}, ru.opts.Filter)) {
		if err != nil {
			return errmsg.Wrap(errmsg.OpWalk, entry.Dir, err)
		}

		path := entry.Path()
		base := baseName(entry.Name)
		if !convention.Candidate(convention.TitleInfo, base) {
			ru.log.Debug("skipping, not a story sidecar", zap.String("path", path))
			continue
		}

		info, err := convention.Parse(convention.TitleInfo, base, convention.Params{})
		if err != nil {
			ru.logNoMatch(path, convention.TitleInfo, convention.Params{}, err)
			continue
		}

		pc, ok := convention.ParsePathContext(entry.Dir)
		if !ok {
			ru.log.Info("skipping story, no course level in path", zap.String("path", path))
			continue
		}

		unit, err := sidecar.Load(path)
		if err != nil {
			var verr *sidecar.ValidationError
			var perr *sidecar.ParseError
			if errors.As(err, &verr) || errors.As(err, &perr) {
				ru.log.Warn("skipping story, invalid sidecar", zap.String("path", path), zap.Error(err))
				continue
			}
			return errmsg.Wrap(errmsg.OpSidecarLoad, path, err)
		}

		ru.log.Info("story",
			zap.String("path", path),
			zap.String("title", info.Title),
			zap.String("paragraph", info.Part),
			zap.String("level", pc.Code),
			zap.Strings("english", unit.Title.English))

		rc := resolve.Context{PathCode: pc.Code, Unit: unit, Constants: ru.constants}
		if err := ru.paragraphs(entry.Dir, rc); err != nil {
			return err
		}
	}
	return nil
}

// paragraphs tags the audio and video files under dir for one course unit.
func (ru *run) paragraphs(dir string, rc resolve.Context) error {
	exts := slices.Concat(ru.cfg.AudioExtensions, ru.cfg.VideoExtensions)
	params := convention.Params{EnglishTitles: rc.Unit.Title.English}

	for entry, err := range walk.Walk(dir, ru.walkOptions(dir, exts, nil)) {
		if err != nil {
			return errmsg.Wrap(errmsg.OpWalk, entry.Dir, err)
		}

		path := entry.Path()
		base := baseName(entry.Name)

		kind := tags.Classify(entry.Name, ru.cfg.AudioExtensions, ru.cfg.VideoExtensions)
		id := convention.ParagraphAudio
		if kind == tags.KindVideo {
			id = convention.ParagraphVideo
		}

		if !convention.Candidate(id, base) {
			ru.log.Debug("skipping, not a candidate", zap.String("path", path))
			continue
		}
		ru.report.Record(path, report.Unmatched)

		m, err := convention.Parse(id, base, params)
		if err != nil {
			ru.logNoMatch(path, id, params, err)
			continue
		}

		fileCtx := rc
		fileCtx.Kind = kind
		if err := ru.apply(path, fileCtx, m); err != nil {
			return err
		}
	}
	return nil
}
