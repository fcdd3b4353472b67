package workspace

import (
	"io/fs"
	"sort"
	"time"
)

// hoursPerDay converts the stale threshold into a duration.
const hoursPerDay = 24

// ScanStale finds task folders whose newest file is older than maxAgeDays.
//
// fsys is rooted at the task root. Its immediate children are role
// directories; their immediate children are candidate task folders. Only
// canonical UUID names are considered; anything else (shared or auxiliary
// directories) is skipped entirely. A folder with no files in its subtree
// is never stale: there is no evidence of inactivity versus never-started.
//
// Pure over the injected filesystem; results are sorted for determinism.
func ScanStale(fsys fs.FS, now time.Time, maxAgeDays float64) []string {
	roles, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil
	}

	cutoff := now.Add(-time.Duration(maxAgeDays * hoursPerDay * float64(time.Hour)))
	var stale []string

	for _, role := range roles {
		if !role.IsDir() || role.Name() == "scripts" {
			continue
		}
		tasks, err := fs.ReadDir(fsys, role.Name())
		if err != nil {
			continue
		}
		for _, task := range tasks {
			if !task.IsDir() || !ValidUUID(task.Name()) {
				continue
			}
			dir := role.Name() + "/" + task.Name()
			newest, ok := newestModTime(fsys, dir)
			if ok && newest.Before(cutoff) {
				stale = append(stale, dir)
			}
		}
	}

	sort.Strings(stale)
	return stale
}

// newestModTime returns the modification time of the most recently
// modified file under dir, recursively. ok is false when the subtree
// contains no files or cannot be read.
func newestModTime(fsys fs.FS, dir string) (time.Time, bool) {
	var newest time.Time
	found := false

	_ = fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if !found || info.ModTime().After(newest) {
			newest = info.ModTime()
			found = true
		}
		return nil
	})

	return newest, found
}
