package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommonFilter_ValidateRejectsUnknownField(t *testing.T) {
	f := &CommonFilter{Field: "amount; drop table", Operator: CommonFilterOperatorEq, Values: []any{1}}
	require.Error(t, f.Validate([]string{"ambassador_id"}))
}

func TestCommonFilter_ValidateRangeNeedsTwoValues(t *testing.T) {
	f := &CommonFilter{Field: "created_at", Operator: CommonFilterOperatorDateRange, Values: []any{"2025-01-01"}}
	require.Error(t, f.Validate([]string{"created_at"}))

	f.Values = append(f.Values, "2025-02-01")
	require.NoError(t, f.Validate([]string{"created_at"}))
}

func TestCommonFilter_MatchEquality(t *testing.T) {
	lookup := func(field string) (string, bool) {
		m := map[string]string{"transaction_type": "lead_sale"}
		v, ok := m[field]
		return v, ok
	}
	require.True(t, (&CommonFilter{Field: "transaction_type", Operator: CommonFilterOperatorEq, Values: []any{"lead_sale"}}).MatchEquality(lookup))
	require.True(t, (&CommonFilter{Field: "transaction_type", Operator: CommonFilterOperatorIn, Values: []any{"x", "lead_sale"}}).MatchEquality(lookup))
	require.False(t, (&CommonFilter{Field: "transaction_type", Operator: CommonFilterOperatorNotEq, Values: []any{"lead_sale"}}).MatchEquality(lookup))
	require.False(t, (&CommonFilter{Field: "missing", Operator: CommonFilterOperatorEq, Values: []any{"x"}}).MatchEquality(lookup))
}
