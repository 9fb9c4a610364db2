package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tributecare/poa-validator/constants"
	"github.com/tributecare/poa-validator/internal/extract"
	"github.com/tributecare/poa-validator/internal/notary"
	"github.com/tributecare/poa-validator/internal/parse"
	"github.com/tributecare/poa-validator/internal/verdict"
)

// compliantPOA exercises the full happy path through the real field parser.
const compliantPOA = `KNOW ALL MEN BY THESE PRESENTS that I, Robert A. Milton, residing at
14 Birch Lane, Columbus, Ohio, being of sound mind, do hereby appoint my son,
James R. Milton, as my attorney-in-fact.

My agent shall have full power and authority to direct the cremation of my remains
and to make all arrangements for the disposition of my remains.

This power of attorney is durable and shall not be affected by my subsequent
incapacity.

This power of attorney shall expire on December 31, 2030.

IN WITNESS WHEREOF, I have executed this instrument this 14th day of March, 2024.

Witness: Dana Whitfield
Date: March 14, 2024

Witness: Priya Natarajan
Date: March 14, 2024

STATE OF OHIO )
COUNTY OF FRANKLIN )

Acknowledged before me this 14th day of March, 2024.

Karen L. Vasquez, Notary Public
Commission # 20481733
My commission expires on June 1, 2027.`

type fakeExtractor struct {
	res extract.Result
	err error
}

func (f fakeExtractor) Acquire(ctx context.Context, doc extract.Document) (extract.Result, error) {
	if err := ctx.Err(); err != nil {
		return extract.Result{}, err
	}
	return f.res, f.err
}

type scriptedLookup struct {
	rec notary.Commission
	err error
}

func (s scriptedLookup) LookupCommission(ctx context.Context, number string, asOf time.Time) (notary.Commission, error) {
	if s.err != nil {
		return notary.Commission{}, s.err
	}
	return s.rec, nil
}

type countingParser struct {
	inner *parse.Parser
	calls int
}

func (c *countingParser) Parse(res extract.Result) parse.Fields {
	c.calls++
	return c.inner.Parse(res)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pinnedNow() time.Time {
	return time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
}

func legibleText(text string) extract.Result {
	conf := 95.0
	return extract.Result{
		Text:       text,
		Pages:      []extract.PageText{{Number: 1, Text: text, Confidence: conf}},
		Confidence: &conf,
	}
}

func activeLookup() scriptedLookup {
	return scriptedLookup{rec: notary.Commission{Number: "20481733", Status: notary.StatusActive}}
}

func newTestValidator(t *testing.T, ex extract.TextExtractor, lookup notary.Lookup, opts ...Option) *Validator {
	t.Helper()
	opts = append(opts, WithNow(pinnedNow))
	v, err := New(DefaultConfig(), ex, lookup, testLogger(), opts...)
	require.NoError(t, err)
	return v
}

func TestValidateCompliantDocument(t *testing.T) {
	v := newTestValidator(t, fakeExtractor{res: legibleText(compliantPOA)}, activeLookup())

	vd, err := v.Validate(context.Background(), extract.Document{Filename: "poa.pdf"})

	require.NoError(t, err)
	assert.Equal(t, verdict.StatusValid, vd.Status)
	assert.Empty(t, vd.Reasons)
	require.NotNil(t, vd.Confidence)
	assert.Equal(t, 95.0, *vd.Confidence)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", vd.RunID.String())
}

func TestValidateUnreadableFile(t *testing.T) {
	ex := fakeExtractor{err: fmt.Errorf("pdf validation: corrupt: %w", extract.ErrUnreadable)}
	parser := &countingParser{inner: parse.NewParser()}
	v := newTestValidator(t, ex, activeLookup(), WithParser(parser))

	vd, err := v.Validate(context.Background(), extract.Document{Filename: "broken.pdf"})

	require.NoError(t, err)
	assert.Equal(t, verdict.StatusInvalid, vd.Status)
	assert.Equal(t, []constants.ReasonCode{constants.ReasonUnreadableFile}, vd.Reasons)
	assert.Nil(t, vd.Confidence)
	assert.Zero(t, parser.calls, "parsing must not run for an unreadable document")
}

func TestValidateUnexpectedAcquireErrorIsUnreadable(t *testing.T) {
	ex := fakeExtractor{err: errors.New("disk full")}
	v := newTestValidator(t, ex, activeLookup())

	vd, err := v.Validate(context.Background(), extract.Document{})

	require.NoError(t, err)
	assert.Equal(t, []constants.ReasonCode{constants.ReasonUnreadableFile}, vd.Reasons)
}

func TestValidateMissingNotary(t *testing.T) {
	text := `I, Robert A. Milton, do hereby appoint James R. Milton as my attorney-in-fact.
My agent shall have authority to direct the cremation of my remains.

Witness: Dana Whitfield
Witness: Priya Natarajan`
	v := newTestValidator(t, fakeExtractor{res: legibleText(text)}, activeLookup())

	vd, err := v.Validate(context.Background(), extract.Document{})

	require.NoError(t, err)
	assert.Equal(t, verdict.StatusInvalid, vd.Status)
	assert.Equal(t, []constants.ReasonCode{constants.ReasonNotaryMissing}, vd.Reasons)
}

func TestValidateVagueVerbiageOnly(t *testing.T) {
	text := `KNOW ALL MEN BY THESE PRESENTS that I, Robert A. Milton, do hereby appoint my son,
James R. Milton, as my attorney-in-fact.

My agent may handle my final arrangements as he sees fit.

Witness: Dana Whitfield
Date: March 14, 2024

Witness: Priya Natarajan
Date: March 14, 2024

STATE OF OHIO )
COUNTY OF FRANKLIN )

Acknowledged before me this 14th day of March, 2024.

Karen L. Vasquez, Notary Public
Commission # 20481733`
	v := newTestValidator(t, fakeExtractor{res: legibleText(text)}, activeLookup())

	vd, err := v.Validate(context.Background(), extract.Document{})

	require.NoError(t, err)
	assert.Equal(t, []constants.ReasonCode{constants.ReasonNonCompliantVerbiage}, vd.Reasons)
}

func TestValidateWitnessIsAgent(t *testing.T) {
	text := `KNOW ALL MEN BY THESE PRESENTS that I, Robert A. Milton, do hereby appoint my son,
James R. Milton, as my attorney-in-fact.

My agent shall have authority to direct the cremation of my remains.

Witness: James R. Milton
Date: March 14, 2024

Witness: Priya Natarajan
Date: March 14, 2024

STATE OF OHIO )
COUNTY OF FRANKLIN )

Acknowledged before me this 14th day of March, 2024.

Karen L. Vasquez, Notary Public
Commission # 20481733`
	v := newTestValidator(t, fakeExtractor{res: legibleText(text)}, activeLookup())

	vd, err := v.Validate(context.Background(), extract.Document{})

	require.NoError(t, err)
	assert.Equal(t, []constants.ReasonCode{constants.ReasonWitnessIsAgent}, vd.Reasons)
}

func TestValidateMissingWitnesses(t *testing.T) {
	text := `KNOW ALL MEN BY THESE PRESENTS that I, Robert A. Milton, do hereby appoint my son,
James R. Milton, as my attorney-in-fact.

My agent shall have authority to direct the cremation of my remains.

STATE OF OHIO )
COUNTY OF FRANKLIN )

Acknowledged before me this 14th day of March, 2024.

Karen L. Vasquez, Notary Public
Commission # 20481733`
	v := newTestValidator(t, fakeExtractor{res: legibleText(text)}, activeLookup())

	vd, err := v.Validate(context.Background(), extract.Document{})

	require.NoError(t, err)
	assert.Equal(t, verdict.StatusInvalid, vd.Status)
	assert.Equal(t, []constants.ReasonCode{constants.ReasonWitnessMissing}, vd.Reasons)
}

func TestValidateRegistryOutage(t *testing.T) {
	v := newTestValidator(t, fakeExtractor{res: legibleText(compliantPOA)},
		scriptedLookup{err: notary.ErrUnavailable})

	vd, err := v.Validate(context.Background(), extract.Document{})

	require.NoError(t, err)
	assert.Equal(t, verdict.StatusInvalid, vd.Status)
	assert.Equal(t, []constants.ReasonCode{constants.ReasonNotaryVerification}, vd.Reasons)
}

func TestValidateExpiredCommission(t *testing.T) {
	v := newTestValidator(t, fakeExtractor{res: legibleText(compliantPOA)},
		scriptedLookup{rec: notary.Commission{Number: "20481733", Status: notary.StatusExpired}})

	vd, err := v.Validate(context.Background(), extract.Document{})

	require.NoError(t, err)
	assert.Equal(t, []constants.ReasonCode{constants.ReasonNotaryExpired}, vd.Reasons)
}

func TestValidateIllegibleScan(t *testing.T) {
	conf := 35.0
	res := extract.Result{
		Text:       "P0W3R 0F ATT0RN3Y ...",
		Pages:      []extract.PageText{{Number: 1, Text: "P0W3R", Confidence: conf, OCR: true}},
		Confidence: &conf,
		UsedOCR:    true,
	}
	v := newTestValidator(t, fakeExtractor{res: res}, activeLookup())

	vd, err := v.Validate(context.Background(), extract.Document{})

	require.NoError(t, err)
	assert.Equal(t, verdict.StatusInvalid, vd.Status)
	assert.Contains(t, vd.Reasons, constants.ReasonIllegibleContent)
}

func TestValidateExpiredDocument(t *testing.T) {
	// Validation date pinned to 2026-08-29; expiry 2025-06-30 is in the past.
	text := `KNOW ALL MEN BY THESE PRESENTS that I, Robert A. Milton, do hereby appoint my son,
James R. Milton, as my attorney-in-fact.

My agent shall have authority to direct the cremation of my remains.

This power of attorney shall expire on June 30, 2025.

Witness: Dana Whitfield
Witness: Priya Natarajan

STATE OF OHIO )
COUNTY OF FRANKLIN )

Acknowledged before me this 14th day of March, 2024.

Karen L. Vasquez, Notary Public
Commission # 20481733`
	v := newTestValidator(t, fakeExtractor{res: legibleText(text)}, activeLookup())

	vd, err := v.Validate(context.Background(), extract.Document{})

	require.NoError(t, err)
	assert.Equal(t, []constants.ReasonCode{constants.ReasonPOAExpired}, vd.Reasons)
}

func TestValidateIsDeterministic(t *testing.T) {
	v := newTestValidator(t, fakeExtractor{res: legibleText(compliantPOA)},
		scriptedLookup{err: notary.ErrUnavailable})

	first, err := v.Validate(context.Background(), extract.Document{})
	require.NoError(t, err)
	second, err := v.Validate(context.Background(), extract.Document{})
	require.NoError(t, err)

	// Run IDs differ; everything observable about the outcome is identical.
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.Reasons, second.Reasons)
	assert.Equal(t, *first.Confidence, *second.Confidence)
}

func TestValidateCancelledContext(t *testing.T) {
	v := newTestValidator(t, fakeExtractor{res: legibleText(compliantPOA)}, activeLookup())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.Validate(ctx, extract.Document{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OCRDPI = 10

	_, err := New(cfg, fakeExtractor{}, activeLookup(), testLogger())
	assert.Error(t, err)
}

func TestNewRequiresLookup(t *testing.T) {
	_, err := New(DefaultConfig(), fakeExtractor{}, nil, testLogger())
	assert.Error(t, err)
}
