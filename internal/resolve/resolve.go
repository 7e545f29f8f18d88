// Package resolve turns a parsed file name and its directory context into the
// tag values the file should carry. It performs no I/O.
package resolve

import (
	"errors"
	"fmt"

	"github.com/llehouerou/mbtag/internal/convention"
	"github.com/llehouerou/mbtag/internal/sidecar"
	"github.com/llehouerou/mbtag/internal/tags"
)

// Comment language and description shared by every family.
const (
	CommentLanguage    = "eng"
	CommentDescription = ""
)

// Constants are the fixed strings of one course family.
type Constants struct {
	Artist  string
	Genre   string
	Comment string
	Album   string // fixed album for families that do not derive it (SAI)
}

// Context is everything resolution needs beyond the file name.
type Context struct {
	PathCode  string              // mbPxLy code of the enclosing course directory
	Unit      *sidecar.CourseUnit // course unit of the enclosing story, if any
	Kind      tags.Kind           // adapter family of the file
	Constants Constants
}

// Target is the resolved metadata for one file.
type Target struct {
	Tags    tags.Record
	Comment tags.Comment
	Kind    tags.Kind
}

// Resolve builds the target for m.
func Resolve(ctx Context, m convention.Match) (Target, error) {
	if err := validate(ctx, m); err != nil {
		return Target{}, fmt.Errorf("resolve %s: %w", m.Convention, err)
	}

	rec := tags.Record{
		tags.Artist: ctx.Constants.Artist,
		tags.Genre:  ctx.Constants.Genre,
	}

	switch m.Convention {
	case convention.SAI:
		rec[tags.Title] = m.Title + " - part " + m.Part
		rec[tags.Album] = ctx.Constants.Album
		rec[tags.DiscSubtitle] = m.Person
		rec[tags.DiscNumber] = ""
		rec[tags.TrackNumber] = m.Part
	case convention.TPV:
		rec[tags.Title] = m.Title
		rec[tags.Album] = m.Album
		rec[tags.DiscSubtitle] = "Part " + m.Part
		rec[tags.DiscNumber] = m.Part
	case convention.Sentence:
		rec[tags.Title] = m.Title
		rec[tags.Album] = ctx.PathCode
	case convention.ParagraphAudio:
		rec[tags.Title] = fmt.Sprintf("%s - %s%s (%s)",
			ctx.Unit.Title.Chinese,
			convention.GenderGlyph(m.Gender),
			convention.SpeedGlyph(m.Speed),
			m.Speed)
		rec[tags.Album] = ctx.PathCode
	case convention.ParagraphVideo:
		rec[tags.Title] = ctx.Unit.Title.Chinese + " - " + convention.GenderGlyph(m.Gender)
		rec[tags.Album] = ctx.PathCode
	default:
		return Target{}, fmt.Errorf("resolve %s: no tag mapping", m.Convention)
	}

	return Target{
		Tags: rec,
		Comment: tags.Comment{
			Language:    CommentLanguage,
			Description: CommentDescription,
			Text:        ctx.Constants.Comment,
		},
		Kind: ctx.Kind,
	}, nil
}

// validate checks the context carries what the convention needs.
func validate(ctx Context, m convention.Match) error {
	switch m.Convention {
	case convention.Sentence:
		if ctx.PathCode == "" {
			return errors.New("path code is required")
		}
	case convention.ParagraphAudio, convention.ParagraphVideo:
		if ctx.PathCode == "" {
			return errors.New("path code is required")
		}
		if ctx.Unit == nil {
			return errors.New("course unit is required")
		}
	}
	return nil
}
