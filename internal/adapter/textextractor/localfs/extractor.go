// Package localfs extracts plain text from resume documents stored on the
// local filesystem. PDF, DOCX, and plain text are supported; the format is
// sniffed from content, never from the file extension.
package localfs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/fairyhunter13/ai-career-coach/internal/domain"
	"github.com/fairyhunter13/ai-career-coach/pkg/textx"
)

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Extractor implements domain.TextExtractor over a base directory. Paths
// are resolved relative to the base and may not escape it.
type Extractor struct {
	baseDir string
}

// New constructs an Extractor rooted at baseDir.
func New(baseDir string) *Extractor { return &Extractor{baseDir: baseDir} }

// ExtractPath reads the document at the given relative path and returns its
// sanitized plain text. Extraction runs in a goroutine so a cancelled or
// expired context returns promptly even on a slow parse.
func (e *Extractor) ExtractPath(ctx domain.Context, path string) (string, error) {
	abs, err := e.resolve(path)
	if err != nil {
		return "", err
	}

	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		text, err := extractFile(abs)
		ch <- result{text, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return "", fmt.Errorf("op=localfs.Extract path=%s: %w", path, res.err)
		}
		return textx.SanitizeText(res.text), nil
	}
}

// resolve confines path to the base directory.
func (e *Extractor) resolve(path string) (string, error) {
	abs := filepath.Join(e.baseDir, filepath.Clean("/"+path))
	base, err := filepath.Abs(e.baseDir)
	if err != nil {
		return "", err
	}
	full, err := filepath.Abs(abs)
	if err != nil {
		return "", err
	}
	if full != base && !strings.HasPrefix(full, base+string(filepath.Separator)) {
		return "", fmt.Errorf("op=localfs.resolve: %w: path escapes uploads dir", domain.ErrInvalidArgument)
	}
	return full, nil
}

func extractFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	switch mt := mimetype.Detect(data); {
	case mt.Is("application/pdf"):
		return extractPDF(bytes.NewReader(data), int64(len(data)))
	case mt.Is(docxMIME):
		return extractDocx(data)
	case strings.HasPrefix(mt.String(), "text/"):
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported document type: %s", mt.String())
	}
}

func extractPDF(r io.ReaderAt, size int64) (string, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, _ := page.GetPlainText(nil)
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

var xmlTagPattern = regexp.MustCompile(`<[^>]+>`)

func extractDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	defer doc.Close()

	// GetContent returns the raw document XML; flatten it to text.
	content := doc.Editable().GetContent()
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	return xmlTagPattern.ReplaceAllString(content, ""), nil
}
