package extract

import (
	"context"
	"errors"
	"time"
)

// ErrUnreadable marks a document-level failure: the byte stream could not be
// parsed as its declared format, no pages were recoverable, or OCR failed on
// every page. Callers detect it with errors.Is and short-circuit to a terminal
// verdict without running the parser or rules.
var ErrUnreadable = errors.New("unreadable file")

// Document is the immutable input to the pipeline. The engine consumes it once
// and discards it; persistence is the caller's responsibility.
type Document struct {
	Bytes    []byte
	MIMEType string
	Filename string // optional, used only for logging
}

// PageText is the extraction output for a single page, in page order.
type PageText struct {
	Number     int
	Text       string
	Confidence float64 // 0..100; 100 for directly extracted (non-OCR) pages
	OCR        bool
}

// Result is the output of text acquisition.
type Result struct {
	Text  string
	Pages []PageText

	// Confidence is the per-page confidence averaged across pages, weighted
	// by page character count, in 0..100. Nil only when acquisition failed
	// entirely; rules never observe a nil confidence.
	Confidence *float64

	// UsedOCR reports whether any page went through OCR rather than direct
	// text extraction.
	UsedOCR bool

	Duration time.Duration
	Warnings []string
}

// TextExtractor is stage 1: document bytes -> text plus confidence.
type TextExtractor interface {
	Acquire(ctx context.Context, doc Document) (Result, error)
}
