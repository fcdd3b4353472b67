package workspace

import (
	"io/fs"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
)

const testUUID = "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"

var scanNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func mapFile(modTime time.Time) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte("# Task"), ModTime: modTime}
}

func TestScanStaleEmptyRoot(t *testing.T) {
	assert.Empty(t, ScanStale(fstest.MapFS{}, scanNow, 0))
}

func TestScanStaleReturnsOldFolder(t *testing.T) {
	fsys := fstest.MapFS{
		"code/" + testUUID + "/task.md": mapFile(scanNow.Add(-72 * time.Hour)),
	}
	got := ScanStale(fsys, scanNow, 2)
	assert.Equal(t, []string{"code/" + testUUID}, got)
}

func TestScanStaleSkipsRecentFolder(t *testing.T) {
	fsys := fstest.MapFS{
		"code/" + testUUID + "/task.md": mapFile(scanNow.Add(-time.Hour)),
	}
	assert.Empty(t, ScanStale(fsys, scanNow, 2))
}

func TestScanStaleSkipsNonUUIDNames(t *testing.T) {
	fsys := fstest.MapFS{
		"code/not-a-uuid/task.md": mapFile(scanNow.Add(-72 * time.Hour)),
		"code/AAAAAAAA-BBBB-CCCC-DDDD-EEEEEEEEEEEE/task.md": mapFile(scanNow.Add(-72 * time.Hour)),
	}
	assert.Empty(t, ScanStale(fsys, scanNow, 2))
}

func TestScanStaleSkipsScriptsDir(t *testing.T) {
	fsys := fstest.MapFS{
		"scripts/" + testUUID + "/task.md": mapFile(scanNow.Add(-72 * time.Hour)),
	}
	assert.Empty(t, ScanStale(fsys, scanNow, 2))
}

func TestScanStaleUsesNewestFileRecursively(t *testing.T) {
	fsys := fstest.MapFS{
		"plan/" + testUUID + "/task.md":          mapFile(scanNow.Add(-96 * time.Hour)),
		"plan/" + testUUID + "/workers/w.md":     mapFile(scanNow.Add(-time.Hour)),
		"plan/" + testUUID + "/workers/older.md": mapFile(scanNow.Add(-90 * time.Hour)),
	}
	// The newest file is one hour old, so the folder is not stale.
	assert.Empty(t, ScanStale(fsys, scanNow, 2))
}

func TestScanStaleExcludesEmptyFolders(t *testing.T) {
	fsys := fstest.MapFS{
		"code/" + testUUID: {Mode: fs.ModeDir},
	}
	assert.Empty(t, ScanStale(fsys, scanNow, 0))
}

func TestScanStaleAcrossRoles(t *testing.T) {
	fsys := fstest.MapFS{
		"review/" + testUUID + "/task.md": mapFile(scanNow.Add(-72 * time.Hour)),
		"plan/" + testUUID + "/task.md":   mapFile(scanNow.Add(-72 * time.Hour)),
		"code/" + testUUID + "/task.md":   mapFile(scanNow.Add(-72 * time.Hour)),
	}
	got := ScanStale(fsys, scanNow, 2)
	assert.Equal(t, []string{
		"code/" + testUUID,
		"plan/" + testUUID,
		"review/" + testUUID,
	}, got)
}

func TestScanStaleIncludesMemoryRoleFolders(t *testing.T) {
	// The memory agent's own task folders participate in the
	// self-cleaning loop like any other role.
	fsys := fstest.MapFS{
		"memory/" + testUUID + "/task.md": mapFile(scanNow.Add(-72 * time.Hour)),
	}
	got := ScanStale(fsys, scanNow, 2)
	assert.Equal(t, []string{"memory/" + testUUID}, got)
}

func TestScanStaleFractionalDays(t *testing.T) {
	fsys := fstest.MapFS{
		"code/" + testUUID + "/task.md": mapFile(scanNow.Add(-24 * time.Hour)),
	}
	assert.Len(t, ScanStale(fsys, scanNow, 0.5), 1)
	assert.Empty(t, ScanStale(fsys, scanNow, 3))
}

func TestNewestModTime(t *testing.T) {
	old := scanNow.Add(-48 * time.Hour)
	fsys := fstest.MapFS{
		"dir/old.txt":     {Data: []byte("old"), ModTime: old},
		"dir/sub/new.txt": {Data: []byte("new"), ModTime: scanNow},
	}

	newest, ok := newestModTime(fsys, "dir")
	assert.True(t, ok)
	assert.Equal(t, scanNow, newest)

	_, ok = newestModTime(fstest.MapFS{"dir": {Mode: fs.ModeDir}}, "dir")
	assert.False(t, ok)
}
