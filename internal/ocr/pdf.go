package ocr

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tributecare/poa-validator/internal/extract"
)

// acquirePDF extracts embedded text page by page and falls back to
// rasterize+OCR for pages below the character-density floor. Mixed documents
// (scanned cover page, typed body) are the common case, so the decision is
// made per page, never per document.
func (e *Extractor) acquirePDF(ctx context.Context, spool, tmpDir string) (extract.Result, error) {
	if err := e.validatePDF(spool); err != nil {
		return extract.Result{}, fmt.Errorf("pdf validation: %v: %w", err, extract.ErrUnreadable)
	}
	pageCount, err := e.pdfPages(spool)
	if err != nil {
		return extract.Result{}, fmt.Errorf("pdf page count: %v: %w", err, extract.ErrUnreadable)
	}
	if pageCount == 0 {
		return extract.Result{}, fmt.Errorf("pdf has zero pages: %w", extract.ErrUnreadable)
	}
	if e.cfg.MaxPages > 0 && pageCount > e.cfg.MaxPages {
		pageCount = e.cfg.MaxPages
	}

	pages := make([]extract.PageText, pageCount)
	var warnings []string
	var needOCR []int

	for i := 0; i < pageCount; i++ {
		pageNum := i + 1
		text, err := e.pdfPageText(ctx, spool, pageNum)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("page %d: pdftotext: %v", pageNum, err))
			text = ""
		}
		if inkChars(text) < e.cfg.MinCharsPerPage {
			needOCR = append(needOCR, i)
			continue
		}
		pages[i] = extract.PageText{Number: pageNum, Text: text, Confidence: 100, OCR: false}
	}

	if len(needOCR) > 0 {
		e.logger.Info("pdf pages falling back to ocr", "pages", len(needOCR), "total", pageCount)
		ocrWarns, err := e.ocrPages(ctx, spool, tmpDir, pages, needOCR)
		if err != nil {
			return extract.Result{}, err
		}
		warnings = append(warnings, ocrWarns...)
	}

	recovered := 0
	for _, p := range pages {
		if strings.TrimSpace(p.Text) != "" {
			recovered++
		}
	}
	if recovered == 0 {
		return extract.Result{}, fmt.Errorf("no recoverable pages (%d attempted): %w", pageCount, extract.ErrUnreadable)
	}

	return finalize(pages, warnings), nil
}

// ocrPages rasterizes and OCRs the given page indexes concurrently, bounded by
// cfg.Parallelism, with a per-page timeout. Page order in the output slice is
// preserved regardless of completion order. Individual page failures become
// warnings; only cancellation aborts the group.
func (e *Extractor) ocrPages(ctx context.Context, spool, tmpDir string, pages []extract.PageText, idxs []int) ([]string, error) {
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(e.cfg.Parallelism)

	var mu sync.Mutex
	var warnings []string

	for _, i := range idxs {
		idx := i
		pageNum := idx + 1
		eg.Go(func() error {
			pctx, cancel := context.WithTimeout(gctx, e.cfg.PageTimeout)
			defer cancel()

			text, conf, err := e.ocrPDFPage(pctx, spool, tmpDir, pageNum)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				mu.Lock()
				warnings = append(warnings, fmt.Sprintf("page %d: ocr: %v", pageNum, err))
				mu.Unlock()
				pages[idx] = extract.PageText{Number: pageNum, OCR: true}
				return nil
			}
			pages[idx] = extract.PageText{Number: pageNum, Text: text, Confidence: conf, OCR: true}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return warnings, err
	}
	return warnings, nil
}

// pdfPageText extracts the embedded text of one page.
// pdftotext -f N -l N -layout -enc UTF-8 -eol unix <path> -
func (e *Extractor) pdfPageText(ctx context.Context, path string, page int) (string, error) {
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext,
		"-f", fmt.Sprintf("%d", page), "-l", fmt.Sprintf("%d", page),
		"-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext: %s: %w", truncate(string(errb), 512), err)
	}
	return string(out), nil
}

// ocrPDFPage rasterizes a single page at the configured DPI and OCRs it.
// The rendered PNG lands in the scoped temp dir removed by Acquire.
func (e *Extractor) ocrPDFPage(ctx context.Context, spool, tmpDir string, page int) (string, float64, error) {
	prefix := filepath.Join(tmpDir, fmt.Sprintf("page-%d", page))
	// pdftoppm -f N -l N -r <dpi> -png <in.pdf> <prefix>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm,
		"-f", fmt.Sprintf("%d", page), "-l", fmt.Sprintf("%d", page),
		"-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", spool, prefix)
	if err != nil {
		return "", 0, fmt.Errorf("pdftoppm: %s: %w", truncate(string(errb), 512), err)
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return "", 0, fmt.Errorf("pdftoppm produced no image for page %d", page)
	}

	return e.tesseractPage(ctx, matches[0])
}

// inkChars counts non-whitespace characters, the density measure deciding
// whether a PDF page is text-native or image-only.
func inkChars(s string) int {
	n := 0
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f', '\v':
		default:
			n++
		}
	}
	return n
}
