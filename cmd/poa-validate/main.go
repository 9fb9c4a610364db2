package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/tributecare/poa-validator/constants"
	"github.com/tributecare/poa-validator/internal/common"
	"github.com/tributecare/poa-validator/internal/extract"
	"github.com/tributecare/poa-validator/internal/notary"
	"github.com/tributecare/poa-validator/internal/ocr"
	"github.com/tributecare/poa-validator/internal/pipeline"
	"github.com/tributecare/poa-validator/internal/verdict"
)

func main() {
	var (
		file     = flag.String("file", "", "document to validate (required)")
		mimeType = flag.String("mime", "", "declared MIME type (default: inferred from extension)")
		registry = flag.String("registry", "", "notary commission roster (SQLite); empty means verification unavailable")
		timeout  = flag.Duration("timeout", 2*time.Minute, "overall validation timeout")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *file == "" {
		logger.Error("usage", "cmd", "poa-validate -file <document> [-mime <type>] [-registry <roster.db>]")
		os.Exit(2)
	}
	mime := *mimeType
	if mime == "" {
		mime = constants.MIMEForExt(filepath.Ext(*file))
	}
	if mime == "" {
		logger.Error("cannot infer MIME type; pass -mime", "file", *file)
		os.Exit(2)
	}

	payload, err := os.ReadFile(*file)
	if err != nil {
		logger.Error("read file failed", "file", *file, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	lookup, closeRegistry, err := openLookup(ctx, *registry, logger)
	if err != nil {
		logger.Error("open registry failed", "path", *registry, "error", err)
		os.Exit(1)
	}
	defer closeRegistry()

	envCfg := common.LoadConfig()
	v, err := pipeline.New(pipeline.DefaultConfig(), newExtractor(envCfg, logger), lookup, logger)
	if err != nil {
		logger.Error("pipeline construction failed", "error", err)
		os.Exit(1)
	}

	vd, err := v.Validate(ctx, extract.Document{
		Bytes:    payload,
		MIMEType: mime,
		Filename: filepath.Base(*file),
	})
	if err != nil {
		logger.Error("validation aborted", "error", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(vd, "", "  ")
	if err != nil {
		logger.Error("encode verdict failed", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))

	if vd.Status != verdict.StatusValid {
		os.Exit(3)
	}
}

func newExtractor(cfg *common.Config, logger *slog.Logger) *ocr.Extractor {
	return ocr.NewExtractor(ocr.Config{
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		TessdataDir:   cfg.OCR.TessdataDir,
	}, logger)
}

func openLookup(ctx context.Context, path string, logger *slog.Logger) (notary.Lookup, func(), error) {
	if path == "" {
		logger.Warn("no commission roster configured; notary verification will be unavailable")
		return notary.UnavailableLookup{}, func() {}, nil
	}
	reg, err := notary.OpenSQLiteRegistry(ctx, path, logger)
	if err != nil {
		return nil, nil, err
	}
	return reg, func() { _ = reg.Close() }, nil
}
