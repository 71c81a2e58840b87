package fsdata

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/slatview/slat/rescache"
)

// Preview is the auxiliary resource cached per file: a content-type
// sniff plus the first lines for text files.
type Preview struct {
	ContentType string
	Lines       []string
	FileSize    int64
	Truncated   bool
}

const (
	previewHeadBytes = 4096
	previewMaxLines  = 8
	previewMaxWidth  = 200
)

// approxSize estimates the in-memory footprint charged to the cache.
func (p Preview) approxSize() int64 {
	size := int64(len(p.ContentType)) + 64
	for _, line := range p.Lines {
		size += int64(len(line)) + 16
	}
	return size
}

// PreviewLoader returns a cache loader that sniffs path and extracts a
// short textual head. Binary files yield only the content type.
func PreviewLoader(path string) rescache.Loader {
	return func(ctx context.Context) (rescache.Result, error) {
		if err := ctx.Err(); err != nil {
			return rescache.Result{}, err
		}

		file, err := os.Open(path)
		if err != nil {
			return rescache.Result{}, fmt.Errorf("open: %w", err)
		}
		defer file.Close()

		info, err := file.Stat()
		if err != nil {
			return rescache.Result{}, fmt.Errorf("stat: %w", err)
		}
		if info.IsDir() {
			return rescache.Result{}, fmt.Errorf("preview: %s is a directory", path)
		}

		head := make([]byte, previewHeadBytes)
		n, err := file.Read(head)
		if err != nil && n == 0 && info.Size() > 0 {
			return rescache.Result{}, fmt.Errorf("read head: %w", err)
		}
		head = head[:n]

		p := Preview{
			ContentType: http.DetectContentType(head),
			FileSize:    info.Size(),
			Truncated:   info.Size() > int64(n),
		}
		if isTextual(p.ContentType) {
			p.Lines = headLines(head)
		}
		return rescache.Result{Value: p, Size: p.approxSize()}, nil
	}
}

func isTextual(contentType string) bool {
	return strings.HasPrefix(contentType, "text/") ||
		strings.HasPrefix(contentType, "application/json") ||
		strings.HasPrefix(contentType, "application/xml")
}

// headLines splits the sniffed head into display lines, dropping a
// trailing partial line and anything that is not valid UTF-8.
func headLines(head []byte) []string {
	text := string(head)
	if !utf8.ValidString(text) {
		if i := strings.LastIndexFunc(text, utf8.ValidRune); i < 0 {
			return nil
		}
		for !utf8.ValidString(text) && len(text) > 0 {
			text = text[:len(text)-1]
		}
	}

	raw := strings.Split(text, "\n")
	if len(raw) > 1 {
		// The final fragment is usually cut mid-line by the head limit.
		raw = raw[:len(raw)-1]
	}
	lines := make([]string, 0, previewMaxLines)
	for _, line := range raw {
		if len(lines) == previewMaxLines {
			break
		}
		line = strings.TrimRight(line, "\r")
		line = strings.ReplaceAll(line, "\t", "    ")
		if len(line) > previewMaxWidth {
			line = line[:previewMaxWidth]
		}
		lines = append(lines, line)
	}
	return lines
}
