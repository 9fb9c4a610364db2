package verdict

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tributecare/poa-validator/constants"
	"github.com/tributecare/poa-validator/internal/extract"
	"github.com/tributecare/poa-validator/internal/rules"
)

func TestAggregateAllPassed(t *testing.T) {
	id := uuid.New()
	conf := 88.0
	results := []rules.Result{
		{RuleID: "a", Passed: true},
		{RuleID: "b", Passed: true},
	}

	v := Aggregate(id, extract.Result{Confidence: &conf}, results)

	assert.Equal(t, id, v.RunID)
	assert.Equal(t, StatusValid, v.Status)
	require.NotNil(t, v.Reasons)
	assert.Empty(t, v.Reasons)
	require.NotNil(t, v.Confidence)
	assert.Equal(t, 88.0, *v.Confidence)
}

func TestAggregatePreservesResultOrder(t *testing.T) {
	results := []rules.Result{
		{RuleID: "a", Passed: false, Reason: constants.ReasonNotaryMissing},
		{RuleID: "b", Passed: true},
		{RuleID: "c", Passed: false, Reason: constants.ReasonWitnessMissing},
		{RuleID: "d", Passed: false, Reason: constants.ReasonPOAExpired},
	}

	v := Aggregate(uuid.New(), extract.Result{}, results)

	assert.Equal(t, StatusInvalid, v.Status)
	assert.Equal(t, []constants.ReasonCode{
		constants.ReasonNotaryMissing,
		constants.ReasonWitnessMissing,
		constants.ReasonPOAExpired,
	}, v.Reasons)
}

func TestUnreadable(t *testing.T) {
	id := uuid.New()

	v := Unreadable(id)

	assert.Equal(t, id, v.RunID)
	assert.Equal(t, StatusInvalid, v.Status)
	assert.Equal(t, []constants.ReasonCode{constants.ReasonUnreadableFile}, v.Reasons)
	assert.Nil(t, v.Confidence)
}

// Reasons marshals as [] rather than null so downstream consumers can always
// range over it.
func TestVerdictJSONEmptyReasons(t *testing.T) {
	v := Aggregate(uuid.New(), extract.Result{}, []rules.Result{{RuleID: "a", Passed: true}})

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"reasons":[]`)
	assert.Contains(t, string(raw), `"status":"valid"`)
}
