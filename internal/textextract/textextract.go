// Package textextract turns uploaded documents into plain text.
package textextract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

// Extractor returns the plain text of a document.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// ErrUnsupported is wrapped when no extractor handles the document type.
var ErrUnsupported = errors.New("unsupported document type")

// ExtractionError means the document could not be read. It is a user error:
// the upload is malformed or of the wrong kind.
type ExtractionError struct {
	MIME    string
	Wrapped error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %s document: %v", e.MIME, e.Wrapped)
}

func (e *ExtractionError) Unwrap() error {
	return e.Wrapped
}

// Router picks an extractor from the detected MIME type.
type Router struct {
	pdf      Extractor
	fallback Extractor // handles every other binary type, may be nil
}

// NewRouter routes PDFs to pdf and other non-text types to fallback.
func NewRouter(pdf, fallback Extractor) *Router {
	return &Router{pdf: pdf, fallback: fallback}
}

// Detect reports the MIME type of data.
func Detect(data []byte) string {
	return mimetype.Detect(data).String()
}

func (r *Router) Extract(ctx context.Context, data []byte) (string, error) {
	mt := mimetype.Detect(data)

	var (
		text string
		err  error
	)
	switch {
	case mt.Is("application/pdf"):
		text, err = r.pdf.Extract(ctx, data)
	case mt.Is("text/plain"):
		if !utf8.Valid(data) {
			err = errors.New("invalid UTF-8")
		}
		text = string(data)
	case r.fallback != nil:
		text, err = r.fallback.Extract(ctx, data)
	default:
		err = ErrUnsupported
	}

	if err != nil {
		var ee *ExtractionError
		if errors.As(err, &ee) {
			return "", err
		}
		return "", &ExtractionError{MIME: mt.String(), Wrapped: err}
	}
	return NormalizeWhitespace(text), nil
}

// NormalizeWhitespace drops control characters and collapses whitespace
// runs to single spaces, keeping line breaks as spaces.
func NormalizeWhitespace(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// Meaningful counts the non-space characters of s.
func Meaningful(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
