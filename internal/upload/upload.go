// Package upload persists ticket attachments to a server-local directory.
// Stored names are timestamp-prefixed and sanitized so client-supplied
// filenames can never escape the upload directory or collide easily.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// unsafeChars matches everything outside the conservative filename alphabet.
var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Saver writes uploaded files under Dir, creating it on first use.
type Saver struct {
	// Dir is the upload directory (relative paths are resolved against the
	// process working directory).
	Dir string
}

// Save persists the uploaded file and returns the stored path (always with
// forward slashes, suitable for embedding in a ticket document).
func (s *Saver) Save(fh *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), SanitizeFilename(fh.Filename))
	dst := filepath.Join(s.Dir, name)

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dst)
		return "", err
	}
	return filepath.ToSlash(dst), nil
}

// SanitizeFilename strips any directory components and replaces characters
// outside [a-zA-Z0-9._-] with underscores. An empty or fully-stripped name
// becomes "attachment".
func SanitizeFilename(name string) string {
	// Drop directory components from either separator convention.
	name = filepath.Base(filepath.ToSlash(name))
	name = unsafeChars.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == ".." {
		return "attachment"
	}
	return name
}
