// Package transcript computes review status over append-only JSONL
// session transcripts and appends reviewed stamps. Scanning is pure:
// status works on any io.Reader and directory scans take an injected
// fs.FS, so tests run against in-memory filesystems.
package transcript

import (
	"bufio"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/superchargeai/supercharge/internal/errors"
)

// StampType is the reserved discriminant marking a reviewed stamp.
const StampType = "supercharge-memory-reviewed"

// Extension filters which sibling files count as transcripts.
const Extension = ".jsonl"

// stampRecord is the JSONL record appended by Stamp.
type stampRecord struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// Status is the review state of one transcript.
type Status struct {
	// FullyReviewed is true when a stamp exists and no content follows it.
	FullyReviewed bool

	// LastStampLine is the 1-indexed line of the last stamp record,
	// or zero when the transcript has never been stamped.
	LastStampLine int
}

// ResumeLine is the 1-indexed line harvesting should continue from, or
// zero when the whole transcript is unreviewed.
func (s Status) ResumeLine() int {
	if s.LastStampLine == 0 {
		return 0
	}
	return s.LastStampLine + 1
}

// StampStatus scans the full transcript and reports its review state.
//
// Every line is visited: a stamp record moves the last-stamp marker and
// resets the content-after flag; any other non-blank line after a stamp
// sets it. Blank lines and lines that fail to parse are inert. A tail
// read would not do: stamps and trailing content can both appear
// anywhere after the last stamp.
func StampStatus(r io.Reader) (Status, error) {
	var status Status
	contentAfter := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}

		if entry["type"] == StampType {
			status.LastStampLine = lineNo
			contentAfter = false
		} else if status.LastStampLine > 0 {
			contentAfter = true
		}
	}
	if err := scanner.Err(); err != nil {
		return Status{}, errors.Wrap(errors.ErrCodeFileReadFailed,
			"scanning transcript", err)
	}

	status.FullyReviewed = status.LastStampLine > 0 && !contentAfter
	return status, nil
}

// Pending is one transcript awaiting review.
type Pending struct {
	// Path is the transcript's path within the scanned filesystem.
	Path string

	// ResumeLine is where review continues, zero meaning the start.
	ResumeLine int
}

// ScanUnreviewed finds transcripts in dir that still need harvesting.
//
// Excluded: the current session's own file, files modified within the
// last minAgeHours, files whose status is fully reviewed, and anything
// without the transcript extension. Unreadable entries are no signal
// and skipped. Results are sorted by path so output is deterministic.
func ScanUnreviewed(fsys fs.FS, dir, currentName string, now time.Time, minAgeHours float64) []Pending {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil
	}

	cutoff := now.Add(-time.Duration(minAgeHours * float64(time.Hour)))
	var results []Pending

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, Extension) || name == currentName {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		path := name
		if dir != "." {
			path = dir + "/" + name
		}

		f, err := fsys.Open(path)
		if err != nil {
			continue
		}
		status, err := StampStatus(f)
		f.Close()
		if err != nil || status.FullyReviewed {
			continue
		}

		results = append(results, Pending{Path: path, ResumeLine: status.ResumeLine()})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results
}

// Stamp appends one reviewed-stamp record to the transcript. The write
// is a single append of one complete line and the only mutation this
// package performs; the file is never rewritten or truncated.
func Stamp(path, version string, now time.Time) error {
	record := stampRecord{
		Type:      StampType,
		Timestamp: now.UTC().Format(time.RFC3339),
		Version:   version,
	}
	data, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(errors.ErrCodeTranscriptStamp, "encoding stamp", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return errors.Wrap(errors.ErrCodeTranscriptStamp, "opening transcript "+path, err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return errors.Wrap(errors.ErrCodeTranscriptStamp, "appending stamp to "+path, err)
	}
	return nil
}
