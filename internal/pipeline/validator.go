package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tributecare/poa-validator/internal/extract"
	"github.com/tributecare/poa-validator/internal/notary"
	"github.com/tributecare/poa-validator/internal/ocr"
	"github.com/tributecare/poa-validator/internal/parse"
	"github.com/tributecare/poa-validator/internal/rules"
	"github.com/tributecare/poa-validator/internal/verdict"
)

// FieldParser is stage 2: extraction result -> parsed fields.
type FieldParser interface {
	Parse(res extract.Result) parse.Fields
}

// Validator wires the four stages: acquire -> parse -> evaluate -> aggregate.
// Runs are independent; a single Validator may be used concurrently across
// documents.
type Validator struct {
	cfg       Config
	extractor extract.TextExtractor
	parser    FieldParser
	engine    *rules.Engine
	logger    *slog.Logger
	now       func() time.Time
}

// Option overrides a default collaborator, mostly for tests.
type Option func(*Validator)

// WithParser substitutes the field parser.
func WithParser(p FieldParser) Option {
	return func(v *Validator) { v.parser = p }
}

// WithNow pins the validation date for deterministic evaluation.
func WithNow(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// New builds a Validator. A nil extractor gets the default poppler/tesseract
// implementation configured from cfg. Construction fails fast on a malformed
// config; per-document failures never surface here.
func New(cfg Config, extractor extract.TextExtractor, lookup notary.Lookup, logger *slog.Logger, opts ...Option) (*Validator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline config: %w", err)
	}
	if lookup == nil {
		return nil, errors.New("pipeline: notary lookup is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	v := &Validator{
		cfg:       cfg,
		extractor: extractor,
		parser:    parse.NewParser(),
		logger:    logger,
		now:       time.Now,
	}
	for _, o := range opts {
		o(v)
	}
	if v.extractor == nil {
		v.extractor = ocr.NewExtractor(cfg.ocrConfig(), logger)
	}
	v.engine = rules.NewEngine(cfg.rulesConfig(v.now), lookup, logger)
	return v, nil
}

// Validate runs the full pipeline on one document. Expected document failures
// (unreadable files, rule violations) come back as a Verdict, never an error;
// the only error returned is context cancellation.
func (v *Validator) Validate(ctx context.Context, doc extract.Document) (verdict.Verdict, error) {
	runID := uuid.New()
	log := v.logger.With("run_id", runID, "filename", doc.Filename)
	start := time.Now()

	res, err := v.extractor.Acquire(ctx, doc)
	if err != nil {
		if ctx.Err() != nil {
			return verdict.Verdict{}, ctx.Err()
		}
		if !errors.Is(err, extract.ErrUnreadable) {
			// Unexpected acquisition failure: terminal for the document, not
			// for the caller.
			log.Error("acquire.unexpected", "error", err)
		}
		log.Info("verdict.unreadable", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return verdict.Unreadable(runID), nil
	}
	conf := 0.0
	if res.Confidence != nil {
		conf = *res.Confidence
	}
	log.Info("acquire.ok",
		"pages", len(res.Pages),
		"used_ocr", res.UsedOCR,
		"confidence", conf,
		"warnings", len(res.Warnings),
	)

	fields := v.parser.Parse(res)
	results := v.engine.Evaluate(ctx, fields, res)
	if ctx.Err() != nil {
		return verdict.Verdict{}, ctx.Err()
	}

	vd := verdict.Aggregate(runID, res, results)
	log.Info("verdict.ready",
		"status", string(vd.Status),
		"reasons", len(vd.Reasons),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return vd, nil
}
