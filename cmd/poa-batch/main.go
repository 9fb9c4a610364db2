package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tributecare/poa-validator/constants"
	"github.com/tributecare/poa-validator/internal/common"
	"github.com/tributecare/poa-validator/internal/extract"
	"github.com/tributecare/poa-validator/internal/notary"
	"github.com/tributecare/poa-validator/internal/ocr"
	"github.com/tributecare/poa-validator/internal/pipeline"
	"github.com/tributecare/poa-validator/internal/report"
	"github.com/tributecare/poa-validator/internal/verdict"
)

func main() {
	var (
		dir      = flag.String("dir", "", "directory of documents to validate (required)")
		out      = flag.String("out", "", "output XLSX path (default: <parent>/verdicts.xlsx)")
		registry = flag.String("registry", "", "notary commission roster (SQLite)")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *dir == "" {
		logger.Error("usage", "cmd", "poa-batch -dir <documents> [-out <verdicts.xlsx>] [-registry <roster.db>]")
		os.Exit(2)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "verdicts.xlsx")
	}

	ctx := context.Background()

	var lookup notary.Lookup = notary.UnavailableLookup{}
	if *registry != "" {
		reg, err := notary.OpenSQLiteRegistry(ctx, *registry, logger)
		if err != nil {
			logger.Error("open registry failed", "path", *registry, "error", err)
			os.Exit(1)
		}
		defer func() { _ = reg.Close() }()
		lookup = reg
	} else {
		logger.Warn("no commission roster configured; notary verification will be unavailable")
	}

	envCfg := common.LoadConfig()
	extractor := ocr.NewExtractor(ocr.Config{
		Pdftotext:     envCfg.OCR.Pdftotext,
		Pdftoppm:      envCfg.OCR.Pdftoppm,
		Tesseract:     envCfg.OCR.Tesseract,
		TesseractLang: envCfg.OCR.TesseractLang,
		TessdataDir:   envCfg.OCR.TessdataDir,
	}, logger)

	v, err := pipeline.New(pipeline.DefaultConfig(), extractor, lookup, logger)
	if err != nil {
		logger.Error("pipeline construction failed", "error", err)
		os.Exit(1)
	}

	var rows []report.Row
	valid, invalid, failures := 0, 0, 0

	err = filepath.WalkDir(*dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			logger.Warn("walk error", "path", path, "error", walkErr)
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != *dir {
				return filepath.SkipDir
			}
			return nil
		}
		ext := constants.NormalizeExt(filepath.Ext(path))
		if _, ok := constants.AllowedExtensions[ext]; !ok {
			return nil
		}

		payload, err := os.ReadFile(path)
		if err != nil {
			logger.Error("read failed", "path", path, "error", err)
			failures++
			return nil
		}

		start := time.Now()
		vd, err := v.Validate(ctx, extract.Document{
			Bytes:    payload,
			MIMEType: constants.MIMEForExt(ext),
			Filename: filepath.Base(path),
		})
		row := report.Row{Filename: path, Duration: time.Since(start)}
		if err != nil {
			logger.Error("validation aborted", "path", path, "error", err)
			row.Err = err.Error()
			failures++
		} else {
			row.Verdict = vd
			if vd.Status == verdict.StatusValid {
				valid++
			} else {
				invalid++
			}
		}
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		logger.Error("walk failed", "dir", *dir, "error", err)
		os.Exit(1)
	}

	xlsxBytes, err := report.NewWriter(logger).WriteXLSX(rows)
	if err != nil {
		logger.Error("report generation failed", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0o644); err != nil {
		logger.Error("write report failed", "out", *out, "error", err)
		os.Exit(1)
	}

	logger.Info("batch complete",
		"documents", len(rows), "valid", valid, "invalid", invalid, "failures", failures, "report", *out)

	fmt.Printf("Validated %d documents: %d valid, %d invalid, %d failures\n", len(rows), valid, invalid, failures)
	fmt.Printf("Report: %s\n", *out)
}
