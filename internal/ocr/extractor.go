package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/tributecare/poa-validator/constants"
	"github.com/tributecare/poa-validator/internal/extract"
)

// Config holds the acquisition knobs. Zero values are replaced with the
// documented defaults in NewExtractor.
type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	TessdataDir   string
	PSM           int // e.g. 6 for a uniform block of text
	OEM           int // 1 = LSTM; 0 = engine default

	DPI             int           // rasterization DPI for scanned pages, default 300
	MinCharsPerPage int           // below this a PDF page falls back to OCR, default 20
	MinImageWidth   int           // below this an image is flagged low-resolution, default 1000
	MaxPages        int           // 0 = no limit
	PageTimeout     time.Duration // per-page OCR timeout, default 30s
	Parallelism     int           // concurrent OCR pages, default 4
}

func (c *Config) applyDefaults() {
	if c.Pdftotext == "" {
		c.Pdftotext = "pdftotext"
	}
	if c.Pdftoppm == "" {
		c.Pdftoppm = "pdftoppm"
	}
	if c.Tesseract == "" {
		c.Tesseract = "tesseract"
	}
	if c.TesseractLang == "" {
		c.TesseractLang = "eng"
	}
	if c.DPI <= 0 {
		c.DPI = 300
	}
	if c.MinCharsPerPage <= 0 {
		c.MinCharsPerPage = 20
	}
	if c.MinImageWidth <= 0 {
		c.MinImageWidth = 1000
	}
	if c.PageTimeout <= 0 {
		c.PageTimeout = 30 * time.Second
	}
	if c.Parallelism <= 0 {
		c.Parallelism = 4
	}
}

// Extractor implements extract.TextExtractor on top of poppler and tesseract.
// The PDF probe (validation + page count) is pdfcpu, held as function values
// so tests can substitute it alongside the Runner.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger

	validatePDF func(path string) error
	pdfPages    func(path string) (int, error)
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.applyDefaults()
	return &Extractor{
		cfg:         cfg,
		runner:      execRunner{},
		logger:      logger,
		validatePDF: func(path string) error { return api.ValidateFile(path, nil) },
		pdfPages:    api.PageCountFile,
	}
}

// Acquire spools the document bytes to a scoped temp directory, picks a
// strategy based on the declared MIME type, and returns the extracted text
// with a per-page confidence. Any failure that leaves no recoverable pages is
// reported as extract.ErrUnreadable. Temp artifacts are removed on all exit
// paths, and a panicking OCR layer is converted to ErrUnreadable rather than
// propagated.
func (e *Extractor) Acquire(ctx context.Context, doc extract.Document) (res extract.Result, err error) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("acquisition panic", "filename", doc.Filename, "panic", r)
			res = extract.Result{}
			err = fmt.Errorf("acquisition panic: %v: %w", r, extract.ErrUnreadable)
		}
		res.Duration = time.Since(start)
	}()

	if len(doc.Bytes) == 0 {
		return extract.Result{}, fmt.Errorf("empty payload: %w", extract.ErrUnreadable)
	}
	format := constants.MapMIMEToFormat(doc.MIMEType)
	if format == "" {
		return extract.Result{}, fmt.Errorf("unsupported mime type %q: %w", doc.MIMEType, extract.ErrUnreadable)
	}

	tmpDir, err := os.MkdirTemp("", "poa-acq-*")
	if err != nil {
		return extract.Result{}, fmt.Errorf("create temp dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			e.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", rmErr)
		}
	}()

	spool := filepath.Join(tmpDir, "input."+constants.ExtForMIME(doc.MIMEType))
	if err := os.WriteFile(spool, doc.Bytes, 0o600); err != nil {
		return extract.Result{}, fmt.Errorf("spool input: %w", err)
	}

	e.logger.Debug("starting acquisition",
		"filename", doc.Filename, "mime", doc.MIMEType, "format", string(format), "bytes", len(doc.Bytes))

	switch format {
	case constants.PDF:
		return e.acquirePDF(ctx, spool, tmpDir)
	case constants.IMAGE:
		return e.acquireImage(ctx, spool)
	default:
		return extract.Result{}, fmt.Errorf("unsupported format %q: %w", format, extract.ErrUnreadable)
	}
}

// finalize computes the aggregate confidence (char-count weighted mean) and
// the concatenated text from per-page results.
func finalize(pages []extract.PageText, warnings []string) extract.Result {
	var (
		text    string
		weights float64
		sum     float64
		usedOCR bool
	)
	for i, p := range pages {
		if i > 0 {
			text += "\n\f\n" // keep a clear page break marker
		}
		text += p.Text
		w := float64(len(p.Text))
		if w < 1 {
			w = 1
		}
		sum += p.Confidence * w
		weights += w
		if p.OCR {
			usedOCR = true
		}
	}
	conf := 0.0
	if weights > 0 {
		conf = sum / weights
	}
	return extract.Result{
		Text:       Normalize(text),
		Pages:      pages,
		Confidence: &conf,
		UsedOCR:    usedOCR,
		Warnings:   warnings,
	}
}
