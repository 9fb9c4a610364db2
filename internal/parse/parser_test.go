package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completePOA = `KNOW ALL MEN BY THESE PRESENTS that I, Robert A. Milton, residing at
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

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseCompleteDocument(t *testing.T) {
	f := ParseText(completePOA)

	assert.Contains(t, f.Principal, "Robert A. Milton")
	assert.Equal(t, []string{"James R. Milton"}, f.Agents)

	require.NotNil(t, f.CremationClause)
	assert.True(t, f.CremationClause.Explicit)
	assert.Contains(t, f.CremationClause.Text, "cremation of my remains")

	require.NotNil(t, f.DurabilityClause)

	require.NotNil(t, f.Notary)
	assert.Equal(t, "Karen L. Vasquez", f.Notary.Name)
	assert.Equal(t, "20481733", f.Notary.CommissionNumber)
	assert.True(t, f.Notary.CommissionWellFormed)
	assert.Equal(t, "FRANKLIN", f.Notary.County)
	require.NotNil(t, f.Notary.NotarizedDate)
	assert.Equal(t, date(2024, time.March, 14), *f.Notary.NotarizedDate)
	require.NotNil(t, f.Notary.ExpirationDate)
	assert.Equal(t, date(2027, time.June, 1), *f.Notary.ExpirationDate)

	require.Len(t, f.Witnesses, 2)
	assert.Equal(t, "Dana Whitfield", f.Witnesses[0].Name)
	assert.Equal(t, "Priya Natarajan", f.Witnesses[1].Name)
	require.NotNil(t, f.Witnesses[0].Date)
	assert.Equal(t, date(2024, time.March, 14), *f.Witnesses[0].Date)

	require.NotNil(t, f.ExecutionDate)
	assert.Equal(t, date(2024, time.March, 14), *f.ExecutionDate)
	require.NotNil(t, f.ExpirationDate)
	assert.Equal(t, date(2030, time.December, 31), *f.ExpirationDate)
}

func TestParseVagueClauseIsPresentButNotExplicit(t *testing.T) {
	text := `I, Robert A. Milton, do hereby appoint James R. Milton as my attorney-in-fact.
My agent may handle final arrangements as he sees fit.`

	f := ParseText(text)
	require.NotNil(t, f.CremationClause)
	assert.False(t, f.CremationClause.Explicit,
		"vague general-authority language must not satisfy the explicit phrase set")
}

func TestParseNoCremationClause(t *testing.T) {
	text := `I, Robert A. Milton, do hereby appoint James R. Milton as my attorney-in-fact
to manage my banking and real estate affairs.`

	f := ParseText(text)
	assert.Nil(t, f.CremationClause)
}

func TestParseMalformedCommissionIsPresent(t *testing.T) {
	text := `Acknowledged before me this 2nd day of May, 2025.
Karen L. Vasquez, Notary Public
County of Franklin
Commission # AB-123`

	f := ParseText(text)
	require.NotNil(t, f.Notary)
	assert.Equal(t, "AB-123", f.Notary.CommissionNumber)
	assert.False(t, f.Notary.CommissionWellFormed,
		"non-numeric commission token must be recorded present-but-malformed, not absent")
}

func TestParseMissingCommission(t *testing.T) {
	text := `Acknowledged before me this 2nd day of May, 2025.
Karen L. Vasquez, Notary Public
County of Franklin`

	f := ParseText(text)
	require.NotNil(t, f.Notary)
	assert.Empty(t, f.Notary.CommissionNumber)
	assert.False(t, f.Notary.CommissionWellFormed)
}

func TestParseZeroWitnessesYieldsEmptySlice(t *testing.T) {
	f := ParseText("I, the undersigned, do hereby appoint James R. Milton as my agent.")
	require.NotNil(t, f.Witnesses)
	assert.Empty(t, f.Witnesses)
}

func TestParseMultipleAgentsDeduplicated(t *testing.T) {
	text := `I do hereby appoint James R. Milton as my agent. If he is unable to serve,
I appoint Sarah Quinn as successor agent. I again appoint JAMES R. MILTON to act.`

	f := ParseText(text)
	assert.Equal(t, []string{"James R. Milton", "Sarah Quinn"}, f.Agents)
}

func TestParseNeverFailsOnGarbage(t *testing.T) {
	for _, text := range []string{"", "   ", "%%%%\x00\x01", "witness witness witness"} {
		f := ParseText(text)
		assert.NotNil(t, f.Witnesses)
		assert.Nil(t, f.Notary)
	}
}
