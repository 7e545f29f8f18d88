// Package report accumulates the terminal status of every file that reached
// reconciliation and renders the end-of-run summary.
package report

// Status is the terminal state of one file.
type Status int

const (
	Unmatched Status = iota
	Updated
	Unchanged
)

func (s Status) String() string {
	switch s {
	case Updated:
		return "UPDATED"
	case Unchanged:
		return "UNCHANGED"
	default:
		return "UNMATCHED"
	}
}

// Entry is one line of the summary.
type Entry struct {
	Path   string
	Status Status
}

// Counts holds the number of files per status.
type Counts struct {
	Updated   int
	Unchanged int
	Unmatched int
}

// Total returns the number of reported files.
func (c Counts) Total() int {
	return c.Updated + c.Unchanged + c.Unmatched
}

// RunReport maps file paths to statuses in first-seen order.
// The zero value is ready to use.
type RunReport struct {
	index   map[string]int
	entries []Entry
}

// Record sets the status of path. Unmatched never overrides a status already
// recorded; Updated and Unchanged always do.
func (r *RunReport) Record(path string, status Status) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	i, ok := r.index[path]
	if !ok {
		r.index[path] = len(r.entries)
		r.entries = append(r.entries, Entry{Path: path, Status: status})
		return
	}
	if status != Unmatched {
		r.entries[i].Status = status
	}
}

// Status returns the recorded status of path.
func (r *RunReport) Status(path string) (Status, bool) {
	i, ok := r.index[path]
	if !ok {
		return Unmatched, false
	}
	return r.entries[i].Status, true
}

// Summary returns every recorded entry in first-seen order.
func (r *RunReport) Summary() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Counts tallies the recorded statuses.
func (r *RunReport) Counts() Counts {
	var c Counts
	for _, e := range r.entries {
		switch e.Status {
		case Updated:
			c.Updated++
		case Unchanged:
			c.Unchanged++
		default:
			c.Unmatched++
		}
	}
	return c
}

// Len returns the number of recorded files.
func (r *RunReport) Len() int {
	return len(r.entries)
}
