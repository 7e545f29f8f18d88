// Package reconcile brings a file's tag container in line with a resolved
// target, writing only what differs.
package reconcile

import (
	"fmt"
	"slices"

	"github.com/llehouerou/mbtag/internal/resolve"
	"github.com/llehouerou/mbtag/internal/tags"
)

// Outcome is the result of reconciling one file.
type Outcome int

const (
	Unchanged Outcome = iota
	Updated
)

func (o Outcome) String() string {
	if o == Updated {
		return "UPDATED"
	}
	return "UNCHANGED"
}

// Result details what a reconciliation did.
type Result struct {
	Outcome        Outcome
	Created        bool       // an empty container had to be created
	Fields         []tags.Key // keys written, in tags.Keys order
	CommentWritten bool
}

// Reconcile updates a to match target.
//
// Fields are compared with exact string equality against the first stored
// value and persisted before comments are looked at. The comment set is left
// alone when one entry already equals target.Comment, otherwise it is replaced
// by that single entry and persisted in a second write. A failure between the
// two writes leaves the fields updated and the comment stale.
func Reconcile(a tags.Adapter, target resolve.Target) (Result, error) {
	var res Result

	created, err := a.EnsureContainer()
	if err != nil {
		return res, fmt.Errorf("ensure container: %w", err)
	}
	res.Created = created

	for _, key := range target.Tags.Sorted() {
		want := target.Tags[key]
		// An absent key reads as the empty string
		if got, _ := a.Field(key); got == want {
			continue
		}
		a.SetField(key, want)
		res.Fields = append(res.Fields, key)
	}

	if len(res.Fields) > 0 {
		if err := a.Persist(); err != nil {
			return res, fmt.Errorf("persist fields: %w", err)
		}
	}

	if !slices.Contains(a.Comments(), target.Comment) {
		a.ReplaceComments([]tags.Comment{target.Comment})
		res.CommentWritten = true
		if err := a.Persist(); err != nil {
			return res, fmt.Errorf("persist comment: %w", err)
		}
	}

	if len(res.Fields) > 0 || res.CommentWritten {
		res.Outcome = Updated
	}
	return res, nil
}
