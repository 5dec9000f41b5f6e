package leadservice

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitforce/ambassador/pkg/errs"
	"github.com/bitforce/ambassador/pkg/types"
)

func TestCheckTransition(t *testing.T) {
	const (
		suggested  = types.LeadServiceStatusSuggested
		contacted  = types.LeadServiceStatusContacted
		interested = types.LeadServiceStatusInterested
		sold       = types.LeadServiceStatusSold
		declined   = types.LeadServiceStatusDeclined
	)
	cases := []struct {
		from, to types.LeadServiceStatus
		changed  bool
		wantErr  error
	}{
		{suggested, contacted, true, nil},
		{suggested, sold, true, nil},
		{contacted, interested, true, nil},
		{interested, sold, true, nil},
		{suggested, declined, true, nil},
		{interested, declined, true, nil},
		{contacted, contacted, false, nil},
		{sold, sold, false, nil},
		{declined, declined, false, nil},
		{interested, contacted, false, ErrInvalidTransition},
		{sold, interested, false, ErrInvalidTransition},
		{sold, declined, false, ErrInvalidTransition},
		{declined, contacted, false, ErrInvalidTransition},
		{suggested, "archived", false, ErrInvalidStatus},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			changed, err := CheckTransition(tc.from, tc.to)
			require.Equal(t, tc.changed, changed)
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
			require.ErrorIs(t, err, errs.ErrValidation)
		})
	}
}

func TestStatusActionCoversEveryStatus(t *testing.T) {
	for _, st := range []types.LeadServiceStatus{
		types.LeadServiceStatusSuggested, types.LeadServiceStatusContacted, types.LeadServiceStatusInterested,
		types.LeadServiceStatusSold, types.LeadServiceStatusDeclined,
	} {
		_, ok := StatusAction[st]
		require.True(t, ok, st)
	}
}
