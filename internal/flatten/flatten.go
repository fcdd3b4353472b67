// Package flatten resolves @path imports in markdown documents into a
// single flat file, following the Claude Code import syntax.
package flatten

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/superchargeai/supercharge/internal/errors"
)

// DefaultMaxDepth caps import recursion.
const DefaultMaxDepth = 5

// importRe matches @path references. The leading capture stands in for
// a lookbehind: a reference directly preceded by a backtick is a code
// span, not an import. Paths stop at whitespace, backticks, brackets.
var importRe = regexp.MustCompile("(^|[^`])@([^\\s`\\[\\]]+)")

var fenceRe = regexp.MustCompile("^```")

// File flattens the markdown file at path, writing to outputPath when
// it is non-empty, and returns the flattened content.
func File(path, outputPath string, maxDepth int) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileReadFailed, "reading "+path, err)
	}

	flat := Imports(string(data), filepath.Dir(path), map[string]bool{}, 0, maxDepth)

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(flat), 0o644); err != nil {
			return "", errors.Wrap(errors.ErrCodeFileWriteFailed, "writing "+outputPath, err)
		}
	}
	return flat, nil
}

// Imports recursively expands @path references in content. Imported
// files are wrapped in BEGIN/END comment markers; circular and missing
// imports leave a comment in place of the reference. References inside
// code spans and fenced code blocks are left untouched.
func Imports(content, baseDir string, resolved map[string]bool, depth, maxDepth int) string {
	if depth >= maxDepth {
		return content
	}

	matches := importRe.FindAllStringSubmatchIndex(content, -1)
	if matches == nil {
		return content
	}

	var out strings.Builder
	last := 0
	for _, m := range matches {
		// m[2:4] is the pre-character, m[4:6] the import path. The
		// @ sits right before the path capture.
		atPos := m[4] - 1
		out.WriteString(content[last:atPos])
		last = m[1]

		ref := content[atPos:m[1]]
		if insideCode(content, atPos) {
			out.WriteString(ref)
			continue
		}
		out.WriteString(expand(content[m[4]:m[5]], baseDir, resolved, depth, maxDepth))
	}
	out.WriteString(content[last:])
	return out.String()
}

// expand resolves a single import reference to its replacement text.
func expand(importPath, baseDir string, resolved map[string]bool, depth, maxDepth int) string {
	// Bare names default to markdown files.
	if !strings.Contains(filepath.Base(importPath), ".") {
		importPath += ".md"
	}

	fullPath := resolvePath(importPath, baseDir)
	key := fullPath
	if abs, err := filepath.Abs(fullPath); err == nil {
		key = abs
	}

	if resolved[key] {
		return fmt.Sprintf("<!-- CIRCULAR: %s -->", importPath)
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return fmt.Sprintf("<!-- NOT FOUND: %s -->", importPath)
	}
	resolved[key] = true

	imported := Imports(string(data), filepath.Dir(fullPath), resolved, depth+1, maxDepth)
	return fmt.Sprintf("<!-- BEGIN: %s -->\n%s\n<!-- END: %s -->",
		importPath, imported, importPath)
}

// resolvePath makes an import path absolute relative to baseDir, with
// ~ expanding to the home directory.
func resolvePath(importPath, baseDir string) string {
	if strings.HasPrefix(importPath, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, importPath[2:])
		}
	}
	if filepath.IsAbs(importPath) {
		return importPath
	}
	return filepath.Join(baseDir, importPath)
}

// insideCode reports whether the byte offset sits inside a code span or
// a fenced code block.
func insideCode(content string, offset int) bool {
	before := content[:offset]

	backticks := strings.Count(before, "`") - strings.Count(before, "\\`")
	if backticks%2 == 1 {
		return true
	}

	fences := 0
	for _, line := range strings.Split(before, "\n") {
		if fenceRe.MatchString(strings.TrimSpace(line)) {
			fences++
		}
	}
	return fences%2 == 1
}
