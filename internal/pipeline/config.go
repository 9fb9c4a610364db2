package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/tributecare/poa-validator/internal/ocr"
	"github.com/tributecare/poa-validator/internal/rules"
)

// Config is the pipeline's entire configuration surface, passed explicitly at
// construction time. There is no ambient or global state; a malformed config
// is a programmer error caught by Validate before any document is processed.
type Config struct {
	// MinLegibilityConfidence is the 0..100 floor under which a document is
	// flagged ILLEGIBLE_CONTENT. Default 60.
	MinLegibilityConfidence float64
	// OCRDPI is the rasterization target for scanned pages. Default 300.
	OCRDPI int
	// MinCharsPerPage is the character density under which a PDF page falls
	// back to OCR. Default 20.
	MinCharsPerPage int
	// PageTimeout bounds OCR per page. Default 30s.
	PageTimeout time.Duration
	// LookupTimeout bounds each commission lookup. Default 5s.
	LookupTimeout time.Duration
	// OCRParallelism bounds concurrent page OCR in one document. Default 4.
	OCRParallelism int
	// MaxPages caps processed pages; 0 means no cap.
	MaxPages int
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		MinLegibilityConfidence: 60,
		OCRDPI:                  300,
		MinCharsPerPage:         20,
		PageTimeout:             30 * time.Second,
		LookupTimeout:           5 * time.Second,
		OCRParallelism:          4,
	}
}

// Validate fails fast on malformed values.
func (c Config) Validate() error {
	if c.MinLegibilityConfidence < 0 || c.MinLegibilityConfidence > 100 {
		return fmt.Errorf("min legibility confidence %v outside 0..100", c.MinLegibilityConfidence)
	}
	if c.OCRDPI < 72 {
		return fmt.Errorf("ocr dpi %d below 72", c.OCRDPI)
	}
	if c.MinCharsPerPage < 1 {
		return fmt.Errorf("min chars per page %d below 1", c.MinCharsPerPage)
	}
	if c.PageTimeout <= 0 {
		return fmt.Errorf("page timeout must be positive, got %v", c.PageTimeout)
	}
	if c.LookupTimeout <= 0 {
		return fmt.Errorf("lookup timeout must be positive, got %v", c.LookupTimeout)
	}
	if c.OCRParallelism < 1 {
		return fmt.Errorf("ocr parallelism %d below 1", c.OCRParallelism)
	}
	if c.MaxPages < 0 {
		return fmt.Errorf("max pages %d negative", c.MaxPages)
	}
	return nil
}

func (c Config) ocrConfig() ocr.Config {
	return ocr.Config{
		DPI:             c.OCRDPI,
		MinCharsPerPage: c.MinCharsPerPage,
		MaxPages:        c.MaxPages,
		PageTimeout:     c.PageTimeout,
		Parallelism:     c.OCRParallelism,
	}
}

func (c Config) rulesConfig(now func() time.Time) rules.Config {
	return rules.Config{
		MinLegibilityConfidence: c.MinLegibilityConfidence,
		LookupTimeout:           c.LookupTimeout,
		Now:                     now,
	}
}

// configJSON is the on-disk form accepted by the daemon. Durations are Go
// duration strings ("30s", "2m").
type configJSON struct {
	MinLegibilityConfidence *float64 `json:"min_legibility_confidence,omitempty"`
	OCRDPI                  *int     `json:"ocr_dpi,omitempty"`
	MinCharsPerPage         *int     `json:"min_chars_per_page,omitempty"`
	PageTimeout             string   `json:"page_timeout,omitempty"`
	LookupTimeout           string   `json:"lookup_timeout,omitempty"`
	OCRParallelism          *int     `json:"ocr_parallelism,omitempty"`
	MaxPages                *int     `json:"max_pages,omitempty"`
}

const configSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "min_legibility_confidence": {"type": "number", "minimum": 0, "maximum": 100},
    "ocr_dpi": {"type": "integer", "minimum": 72},
    "min_chars_per_page": {"type": "integer", "minimum": 1},
    "page_timeout": {"type": "string", "pattern": "^[0-9]+(ns|us|µs|ms|s|m|h)$"},
    "lookup_timeout": {"type": "string", "pattern": "^[0-9]+(ns|us|µs|ms|s|m|h)$"},
    "ocr_parallelism": {"type": "integer", "minimum": 1},
    "max_pages": {"type": "integer", "minimum": 0}
  }
}`

// ParseConfigJSON validates raw JSON against the embedded schema and overlays
// it on the defaults. Schema violations fail here, at construction time.
func ParseConfigJSON(raw []byte) (Config, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("config.json", bytes.NewReader([]byte(configSchema))); err != nil {
		return Config{}, fmt.Errorf("add config schema: %w", err)
	}
	schema, err := compiler.Compile("config.json")
	if err != nil {
		return Config{}, fmt.Errorf("compile config schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return Config{}, fmt.Errorf("config does not match schema: %w", err)
	}

	var in configJSON
	if err := json.Unmarshal(raw, &in); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg := DefaultConfig()
	if in.MinLegibilityConfidence != nil {
		cfg.MinLegibilityConfidence = *in.MinLegibilityConfidence
	}
	if in.OCRDPI != nil {
		cfg.OCRDPI = *in.OCRDPI
	}
	if in.MinCharsPerPage != nil {
		cfg.MinCharsPerPage = *in.MinCharsPerPage
	}
	if in.PageTimeout != "" {
		d, err := time.ParseDuration(in.PageTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("page_timeout: %w", err)
		}
		cfg.PageTimeout = d
	}
	if in.LookupTimeout != "" {
		d, err := time.ParseDuration(in.LookupTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("lookup_timeout: %w", err)
		}
		cfg.LookupTimeout = d
	}
	if in.OCRParallelism != nil {
		cfg.OCRParallelism = *in.OCRParallelism
	}
	if in.MaxPages != nil {
		cfg.MaxPages = *in.MaxPages
	}
	return cfg, cfg.Validate()
}
