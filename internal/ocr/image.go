package ocr

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strconv"
	"strings"

	"github.com/tributecare/poa-validator/internal/extract"
)

// lowResPenalty scales the confidence of images below the minimum width so
// they are attempted but surfaced as less trustworthy.
const lowResPenalty = 0.8

// acquireImage OCRs a single raster image. Images below the minimum
// resolution are still attempted, with a flagged, reduced confidence.
func (e *Extractor) acquireImage(ctx context.Context, spool string) (extract.Result, error) {
	var warnings []string
	lowRes := false
	if w, err := imageWidth(spool); err == nil && w > 0 && w < e.cfg.MinImageWidth {
		lowRes = true
		warnings = append(warnings, fmt.Sprintf("image width %dpx below %dpx minimum; confidence reduced", w, e.cfg.MinImageWidth))
	}

	pctx, cancel := context.WithTimeout(ctx, e.cfg.PageTimeout)
	defer cancel()

	text, conf, err := e.tesseractPage(pctx, spool)
	if err != nil {
		return extract.Result{}, fmt.Errorf("image ocr: %v: %w", err, extract.ErrUnreadable)
	}
	if strings.TrimSpace(text) == "" {
		return extract.Result{}, fmt.Errorf("image ocr produced no text: %w", extract.ErrUnreadable)
	}
	if lowRes {
		conf *= lowResPenalty
	}

	pages := []extract.PageText{{Number: 1, Text: text, Confidence: conf, OCR: true}}
	return finalize(pages, warnings), nil
}

// tesseractPage runs tesseract twice on one image: once for the plain text and
// once in TSV mode for the word-level confidence, returned on a 0..100 scale.
func (e *Extractor) tesseractPage(ctx context.Context, path string) (string, float64, error) {
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", fmt.Sprintf("%d", e.cfg.PSM))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", fmt.Sprintf("%d", e.cfg.OEM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", 0, fmt.Errorf("tesseract: %s: %w", truncate(string(errb), 512), err)
	}
	text := reBoxNoise.ReplaceAllString(string(out), "")

	conf, err := e.tesseractTSVConfidence(ctx, path, args)
	if err != nil {
		// Text came through; fall back to a conservative mid confidence
		// rather than failing the page.
		e.logger.Warn("tesseract tsv confidence unavailable", "path", path, "error", err)
		conf = 50
	}
	return text, conf, nil
}

// tesseractTSVConfidence reruns tesseract in TSV mode and returns the mean
// word confidence in 0..100.
func (e *Extractor) tesseractTSVConfidence(ctx context.Context, path string, baseArgs []string) (float64, error) {
	args := append(append([]string{}, baseArgs...), "tsv")
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return 0, fmt.Errorf("tesseract tsv: %s: %w", truncate(string(errb), 512), err)
	}

	lines := strings.Split(string(out), "\n")
	var sum float64
	var n int
	for i, ln := range lines {
		if i == 0 || len(ln) == 0 {
			continue // header
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		confStr := cols[len(cols)-2]
		if confStr == "" || confStr == "-1" {
			continue
		}
		if v, err := strconv.ParseFloat(confStr, 64); err == nil {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, fmt.Errorf("tsv output had no confident words")
	}
	return sum / float64(n), nil
}

func imageWidth(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, err
	}
	return cfg.Width, nil
}
