package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/tributecare/poa-validator/constants"
	"github.com/tributecare/poa-validator/internal/async"
	"github.com/tributecare/poa-validator/internal/common"
	"github.com/tributecare/poa-validator/internal/extract"
	"github.com/tributecare/poa-validator/internal/ingest"
	"github.com/tributecare/poa-validator/internal/notary"
	"github.com/tributecare/poa-validator/internal/ocr"
	"github.com/tributecare/poa-validator/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "", "pipeline config JSON (optional)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	pipeCfg := pipeline.DefaultConfig()
	if *configPath != "" {
		raw, err := os.ReadFile(*configPath)
		if err != nil {
			logger.Error("read pipeline config failed", "path", *configPath, "error", err)
			os.Exit(1)
		}
		pipeCfg, err = pipeline.ParseConfigJSON(raw)
		if err != nil {
			logger.Error("invalid pipeline config", "path", *configPath, "error", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var lookup notary.Lookup = notary.UnavailableLookup{}
	if cfg.Registry.SQLitePath != "" {
		reg, err := notary.OpenSQLiteRegistry(ctx, cfg.Registry.SQLitePath, logger)
		if err != nil {
			logger.Error("open registry failed", "path", cfg.Registry.SQLitePath, "error", err)
			os.Exit(1)
		}
		defer func() { _ = reg.Close() }()
		lookup = reg
		logger.Info("commission roster loaded", "path", cfg.Registry.SQLitePath)
	} else {
		logger.Warn("no commission roster configured; notary verification will be unavailable")
	}

	extractor := ocr.NewExtractor(ocr.Config{
		Pdftotext:       cfg.OCR.Pdftotext,
		Pdftoppm:        cfg.OCR.Pdftoppm,
		Tesseract:       cfg.OCR.Tesseract,
		TesseractLang:   cfg.OCR.TesseractLang,
		TessdataDir:     cfg.OCR.TessdataDir,
		DPI:             pipeCfg.OCRDPI,
		MinCharsPerPage: pipeCfg.MinCharsPerPage,
		MaxPages:        pipeCfg.MaxPages,
		PageTimeout:     pipeCfg.PageTimeout,
		Parallelism:     pipeCfg.OCRParallelism,
	}, logger)

	validator, err := pipeline.New(pipeCfg, extractor, lookup, logger)
	if err != nil {
		logger.Error("pipeline construction failed", "error", err)
		os.Exit(1)
	}

	// Health endpoint, as the ops side expects from every service here.
	grpcServer := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("listen failed", "addr", cfg.Server.GRPCAddr, "error", err)
		os.Exit(1)
	}
	go func() {
		logger.Info("grpc serving", "addr", cfg.Server.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("grpc serve failed", "error", err)
		}
	}()
	defer grpcServer.GracefulStop()

	events, watchErrs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{cfg.Intake.Dir},
		InitialScan: true,
		Debounce:    cfg.Intake.Debounce,
	}, logger)
	if err != nil {
		logger.Error("watcher start failed", "dir", cfg.Intake.Dir, "error", err)
		os.Exit(1)
	}
	logger.Info("intake watcher running", "dir", cfg.Intake.Dir)

	// Per-document budget: every page at its OCR timeout plus slack for
	// parsing and the verdict write. Uncapped page counts keep the default.
	jobTimeout := 3 * time.Minute
	if pipeCfg.MaxPages > 0 {
		jobTimeout = pipeCfg.PageTimeout * time.Duration(pipeCfg.MaxPages+1)
	}
	var queue async.Queue = async.NewValidationQueue(func(jctx context.Context, job async.Job) error {
		return processIntakeFile(jctx, validator, job.Path, logger)
	}, logger,
		async.WithWorkers(cfg.Intake.Workers),
		async.WithQueueSize(cfg.Intake.QueueSize),
		async.WithJobTimeout(jobTimeout))
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		queue.Shutdown(drainCtx)
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case err, ok := <-watchErrs:
			if ok && err != nil {
				logger.Error("watcher error", "error", err)
			}
		case path, ok := <-events:
			if !ok {
				return
			}
			_ = queue.Enqueue(ctx, async.Job{Path: path, EnqueuedAt: time.Now()})
		}
	}
}

// processIntakeFile validates one dropped document and writes the verdict as
// a JSON sidecar next to it. Errors are the queue's to log; none is fatal to
// the daemon.
func processIntakeFile(ctx context.Context, v *pipeline.Validator, path string, logger *slog.Logger) error {
	// Verdict sidecars and strays in the intake dir are not documents.
	if constants.MapExtToFormat(filepath.Ext(path)) == "" {
		return nil
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		return common.WrapError(err, "read intake document")
	}

	vd, err := v.Validate(ctx, extract.Document{
		Bytes:    payload,
		MIMEType: constants.MIMEForExt(filepath.Ext(path)),
		Filename: filepath.Base(path),
	})
	if err != nil {
		return common.WrapError(err, "validate document")
	}

	out, err := json.MarshalIndent(vd, "", "  ")
	if err != nil {
		return common.WrapError(err, "encode verdict")
	}
	sidecar := path + ".verdict.json"
	if err := os.WriteFile(sidecar, out, 0o644); err != nil {
		return common.WrapError(err, "write verdict sidecar")
	}
	logger.Info("verdict written", "document", path, "verdict", sidecar, "status", string(vd.Status))
	return nil
}
