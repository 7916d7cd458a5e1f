package git

import (
	"strconv"
	"strings"

	gitwipErrors "github.com/bashhack/gitwip/internal/errors"
)

// ErrNoDiff is returned by DiffSummary when git reports no numstat line
// for the requested path.
var ErrNoDiff = gitwipErrors.New("no diff available")

// logFormat separates fields with US (0x1f) and records with RS (0x1e),
// neither of which can appear in a hash or a commit message.
const logFormat = "%H%x1f%P%x1f%B%x1e"

// Rename is a path moved from From to To.
type Rename struct {
	From string
	To   string
}

// Status is the working tree state grouped the way it is staged.
type Status struct {
	NotAdded []string
	Created  []string
	Modified []string
	Renamed  []Rename
	Deleted  []string
}

// AllPaths returns every changed path in NotAdded, Created, Modified,
// Renamed (destination), Deleted order with duplicates removed.
func (s Status) AllPaths() []string {
	seen := make(map[string]struct{})
	var paths []string
	add := func(p string) {
		if p == "" {
			return
		}
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}

	for _, p := range s.NotAdded {
		add(p)
	}
	for _, p := range s.Created {
		add(p)
	}
	for _, p := range s.Modified {
		add(p)
	}
	for _, r := range s.Renamed {
		add(r.To)
	}
	for _, p := range s.Deleted {
		add(p)
	}
	return paths
}

// IsClean reports whether nothing is changed.
func (s Status) IsClean() bool {
	return len(s.NotAdded) == 0 && len(s.Created) == 0 && len(s.Modified) == 0 &&
		len(s.Renamed) == 0 && len(s.Deleted) == 0
}

// DiffStat is the numstat of a single path.
type DiffStat struct {
	Path       string
	Insertions int
	Deletions  int
	IsBinary   bool
}

// Commit is one entry of the history.
type Commit struct {
	Hash    string
	Parents []string
	Message string
}

// parseStatus parses `git status --porcelain=v1 -z` output. Entries are NUL
// terminated; rename and copy entries are followed by an extra NUL
// terminated field holding the source path.
func parseStatus(output string) Status {
	var st Status
	fields := strings.Split(output, "\x00")

	for i := 0; i < len(fields); i++ {
		entry := fields[i]
		if len(entry) < 4 {
			continue
		}
		x, y, p := entry[0], entry[1], entry[3:]

		switch {
		case x == '?' && y == '?':
			st.NotAdded = append(st.NotAdded, p)
		case x == '!' && y == '!':
			// ignored files are only listed with --ignored
		case x == 'R' || y == 'R':
			var from string
			if i+1 < len(fields) {
				i++
				from = fields[i]
			}
			st.Renamed = append(st.Renamed, Rename{From: from, To: p})
		case x == 'C':
			if i+1 < len(fields) {
				i++
			}
			st.Created = append(st.Created, p)
		case x == 'A':
			st.Created = append(st.Created, p)
		case x == 'D' || y == 'D':
			st.Deleted = append(st.Deleted, p)
		default:
			st.Modified = append(st.Modified, p)
		}
	}

	return st
}

// parseNumstat sums the `git diff --numstat` lines of output. Binary files
// report "-" for both counts.
func parseNumstat(path, output string) (DiffStat, error) {
	stat := DiffStat{Path: path}
	found := false

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) < 3 {
			continue
		}
		found = true

		if parts[0] == "-" && parts[1] == "-" {
			stat.IsBinary = true
			continue
		}
		ins, err := strconv.Atoi(parts[0])
		if err != nil {
			return DiffStat{}, gitwipErrors.Wrapf(err, "parse numstat insertions %q", parts[0])
		}
		del, err := strconv.Atoi(parts[1])
		if err != nil {
			return DiffStat{}, gitwipErrors.Wrapf(err, "parse numstat deletions %q", parts[1])
		}
		stat.Insertions += ins
		stat.Deletions += del
	}

	if !found {
		return DiffStat{}, ErrNoDiff
	}
	return stat, nil
}

// parseLog parses output produced with logFormat.
func parseLog(output string) []Commit {
	var commits []Commit
	for _, record := range strings.Split(output, "\x1e") {
		record = strings.TrimLeft(record, "\n")
		if strings.TrimSpace(record) == "" {
			continue
		}
		fields := strings.SplitN(record, "\x1f", 3)
		if len(fields) < 3 {
			continue
		}
		commits = append(commits, Commit{
			Hash:    strings.TrimSpace(fields[0]),
			Parents: strings.Fields(fields[1]),
			Message: strings.TrimSpace(fields[2]),
		})
	}
	return commits
}
