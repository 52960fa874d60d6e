// Package upload turns an uploaded ZIP archive into the in-memory file
// collection the analysis engine consumes. Archives are untrusted
// input: extraction enforces size, count and path-traversal limits.
package upload

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"webready/internal/engine"
)

// Security limits for untrusted archives.
const (
	MaxArchiveSize   = 50 << 20  // 50 MB upload
	MaxExtractedSize = 100 << 20 // 100 MB total extracted (zip bomb guard)
	MaxFilesInZip    = 1000
)

// ExtractZip reads a ZIP archive and returns its Python sources as
// (logical path, content) pairs in stable path order. Non-Python
// entries are ignored; a hostile archive (traversal paths, too many
// files, too much data) fails extraction as a whole.
func ExtractZip(data []byte) ([]engine.SourceFile, error) {
	if len(data) > MaxArchiveSize {
		return nil, fmt.Errorf("upload: archive exceeds %d MB limit", MaxArchiveSize>>20)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("upload: invalid zip archive: %w", err)
	}

	var files []engine.SourceFile
	var extracted int64

	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}

		name := path.Clean(strings.ReplaceAll(entry.Name, `\`, "/"))
		if strings.HasPrefix(name, "../") || strings.HasPrefix(name, "/") || name == ".." {
			return nil, fmt.Errorf("upload: archive entry escapes extraction root: %s", entry.Name)
		}
		if !strings.HasSuffix(strings.ToLower(name), ".py") {
			continue
		}
		if skipEntry(name) {
			continue
		}

		if len(files) >= MaxFilesInZip {
			return nil, fmt.Errorf("upload: archive holds more than %d files", MaxFilesInZip)
		}

		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("upload: open %s: %w", name, err)
		}
		content, err := io.ReadAll(io.LimitReader(rc, MaxExtractedSize-extracted+1))
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("upload: read %s: %w", name, err)
		}
		extracted += int64(len(content))
		if extracted > MaxExtractedSize {
			return nil, fmt.Errorf("upload: extracted size exceeds %d MB limit", MaxExtractedSize>>20)
		}

		files = append(files, engine.SourceFile{Path: name, Content: content})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// skipEntry drops cache directories and hidden files from archives.
func skipEntry(name string) bool {
	for _, part := range strings.Split(name, "/") {
		if part == "__pycache__" || strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
