package flatten

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func flattenIn(dir, content string) string {
	return Imports(content, dir, map[string]bool{}, 0, DefaultMaxDepth)
}

func TestNoImports(t *testing.T) {
	content := "Just plain text"
	assert.Equal(t, content, flattenIn(t.TempDir(), content))
}

func TestMissingFile(t *testing.T) {
	got := flattenIn(t.TempDir(), "Import @nonexistent")
	assert.Contains(t, got, "<!-- NOT FOUND: nonexistent.md -->")
}

func TestSimpleImport(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "child.md", "Child content")

	got := flattenIn(dir, "Before @child after")
	assert.Contains(t, got, "<!-- BEGIN: child.md -->")
	assert.Contains(t, got, "Child content")
	assert.Contains(t, got, "<!-- END: child.md -->")
	assert.True(t, strings.HasPrefix(got, "Before "))
	assert.True(t, strings.HasSuffix(got, " after"))
}

func TestExplicitExtensionKept(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "child.txt", "Text content")

	got := flattenIn(dir, "Import @child.txt")
	assert.Contains(t, got, "Text content")
}

func TestRecursiveImport(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "grandchild.md", "Grandchild content")
	write(t, dir, "child.md", "Child imports @grandchild")

	got := flattenIn(dir, "Root imports @child")
	assert.Contains(t, got, "Child imports")
	assert.Contains(t, got, "Grandchild content")
}

func TestImportsResolveRelativeToImportingFile(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "nested/inner.md", "Inner")
	write(t, dir, "nested/outer.md", "Outer @inner")

	got := flattenIn(dir, "@nested/outer")
	assert.Contains(t, got, "Inner")
}

func TestCircularImport(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.md", "A imports @b")
	write(t, dir, "b.md", "B imports @a")

	got := flattenIn(dir, "Start @a")
	assert.Contains(t, got, "<!-- CIRCULAR: a.md -->")
	assert.Contains(t, got, "B imports")
}

func TestMaxDepth(t *testing.T) {
	content := "Test @anything"
	assert.Equal(t, content, Imports(content, t.TempDir(), map[string]bool{}, 5, 5))
}

func TestPreservesCodeSpan(t *testing.T) {
	content := "Keep `@this` intact"
	assert.Equal(t, content, flattenIn(t.TempDir(), content))
}

func TestPreservesFencedBlock(t *testing.T) {
	content := "```\n@inside\n```"
	assert.Equal(t, content, flattenIn(t.TempDir(), content))

	content = "```python\n@inside\n```\nAfter"
	assert.Equal(t, content, flattenIn(t.TempDir(), content))
}

func TestImportAfterFencedBlock(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "after.md", "After content")

	got := flattenIn(dir, "```\ncode\n```\n@after")
	assert.Contains(t, got, "After content")
}

func TestFileWritesOutput(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "child.md", "Child")
	input := write(t, dir, "root.md", "Root @child")
	output := filepath.Join(dir, "flat.md")

	got, err := File(input, output, DefaultMaxDepth)
	require.NoError(t, err)

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, got, string(written))
	assert.Contains(t, got, "Child")
}

func TestFileMissingInput(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "missing.md"), "", DefaultMaxDepth)
	assert.Error(t, err)
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, filepath.Join("/base", "foo", "bar.md"),
		resolvePath("foo/bar.md", "/base"))
	assert.Equal(t, "/abs/path.md", resolvePath("/abs/path.md", "/base"))

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "test.md"), resolvePath("~/test.md", "/base"))
}

func TestInsideCode(t *testing.T) {
	assert.False(t, insideCode("Hello @world", 6))
	assert.True(t, insideCode("Hello `@world` there", 7))

	content := "Before\n```\n@inside\n```\nAfter"
	assert.True(t, insideCode(content, strings.Index(content, "@inside")))

	content = "Before\n```\ncode\n```\n@after"
	assert.False(t, insideCode(content, strings.Index(content, "@after")))
}
