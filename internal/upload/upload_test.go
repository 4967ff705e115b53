package upload

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// fileHeader builds a real *multipart.FileHeader by round-tripping a form
// through the stdlib parser.
func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("attachment", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := io.Copy(fw, bytes.NewReader(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	f, fhdr, err := req.FormFile("attachment")
	if err != nil {
		t.Fatalf("parse form: %v", err)
	}
	f.Close()
	return fhdr
}

func TestSave_WritesFileUnderDir(t *testing.T) {
	dir := t.TempDir()
	s := &Saver{Dir: dir}

	got, err := s.Save(fileHeader(t, "report.pdf", []byte("%PDF-1.4 hello")))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(got, filepath.ToSlash(dir)) {
		t.Fatalf("stored path %q not under %q", got, dir)
	}
	if !strings.HasSuffix(got, "_report.pdf") {
		t.Fatalf("stored path %q should keep the sanitized name", got)
	}

	// Timestamp prefix keeps concurrent uploads of the same name apart.
	base := filepath.Base(got)
	if m, _ := regexp.MatchString(`^\d+_report\.pdf$`, base); !m {
		t.Fatalf("stored name %q should be timestamp-prefixed", base)
	}

	data, err := os.ReadFile(filepath.FromSlash(got))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "%PDF-1.4 hello" {
		t.Fatalf("content mismatch: %q", data)
	}
}

func TestSave_CreatesDirOnFirstUse(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	s := &Saver{Dir: dir}

	if _, err := s.Save(fileHeader(t, "a.txt", []byte("x"))); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("upload dir not created: %v", err)
	}
}

func TestSave_NeutralizesHostilePaths(t *testing.T) {
	dir := t.TempDir()
	s := &Saver{Dir: dir}

	got, err := s.Save(fileHeader(t, "../../etc/passwd", []byte("x")))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if strings.Contains(got, "..") {
		t.Fatalf("stored path %q escaped the upload dir", got)
	}
	if !strings.HasPrefix(got, filepath.ToSlash(dir)) {
		t.Fatalf("stored path %q not under %q", got, dir)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"report.pdf":           "report.pdf",
		"my report (1).pdf":    "my_report_1_.pdf",
		"../../etc/passwd":     "passwd",
		"π∆ƒ.txt":              "_.txt",
		"":                     "attachment",
		".":                    "attachment",
		"..":                   "attachment",
		"UPPER-case_ok.tar.gz": "UPPER-case_ok.tar.gz",
	}
	for in, want := range cases {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q; want %q", in, got, want)
		}
	}
}
