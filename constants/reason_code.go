package constants

// ReasonCode identifies a specific compliance failure. The enumeration is part of
// the contract with callers and report renderers; do not rename values without a
// version bump.
type ReasonCode string

// Stable values (callers match on these exact strings).
const (
	ReasonUnreadableFile          ReasonCode = "UNREADABLE_FILE"
	ReasonIllegibleContent        ReasonCode = "ILLEGIBLE_CONTENT"
	ReasonNotaryMissing           ReasonCode = "NOTARY_MISSING"
	ReasonNotaryIncomplete        ReasonCode = "NOTARY_INCOMPLETE"
	ReasonNotaryInvalidCommission ReasonCode = "NOTARY_INVALID_COMMISSION"
	ReasonNotaryExpired           ReasonCode = "NOTARY_EXPIRED"
	ReasonNotaryIsAgent           ReasonCode = "NOTARY_IS_AGENT"
	ReasonNotaryVerification      ReasonCode = "NOTARY_VERIFICATION_UNAVAILABLE"
	ReasonWitnessMissing          ReasonCode = "WITNESS_MISSING"
	ReasonWitnessIsAgent          ReasonCode = "WITNESS_IS_AGENT"
	ReasonCremationMissing        ReasonCode = "CREMATION_AUTHORITY_MISSING"
	ReasonNonCompliantVerbiage    ReasonCode = "NON_COMPLIANT_VERBIAGE"
	ReasonPOAExpired              ReasonCode = "POA_EXPIRED"
)

// ReasonMessages maps every reason code to the actionable message a report
// renderer shows. Kept 1:1 with the enumeration above.
var ReasonMessages = map[ReasonCode]string{
	ReasonUnreadableFile:          "The uploaded file could not be read. Please re-upload a clearer copy.",
	ReasonIllegibleContent:        "The document scan is too low quality to read reliably.",
	ReasonNotaryMissing:           "No notary acknowledgment block was found.",
	ReasonNotaryIncomplete:        "The notary block is missing a valid commission number or county.",
	ReasonNotaryInvalidCommission: "The notary commission number does not match an active commission.",
	ReasonNotaryExpired:           "The notary commission was expired on the notarization date.",
	ReasonNotaryIsAgent:           "The notary may not also be named as an agent.",
	ReasonNotaryVerification:      "The notary commission could not be verified; manual review required.",
	ReasonWitnessMissing:          "No witness signatures were found.",
	ReasonWitnessIsAgent:          "A witness may not also be named as an agent.",
	ReasonCremationMissing:        "The document does not grant cremation authority.",
	ReasonNonCompliantVerbiage:    "The authority language is too vague; explicit cremation authorization is required.",
	ReasonPOAExpired:              "The power of attorney has expired.",
}
