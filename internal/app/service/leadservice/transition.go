package leadservice

import (
	"fmt"

	"github.com/bitforce/ambassador/pkg/errs"
	"github.com/bitforce/ambassador/pkg/types"
)

var (
	ErrInvalidTransition = fmt.Errorf("%w: invalid lead service status transition", errs.ErrValidation)
	ErrInvalidStatus     = fmt.Errorf("%w: unknown lead service status", errs.ErrValidation)
)

// statusRank orders the forward track. declined sits off the track.
var statusRank = map[types.LeadServiceStatus]int{
	types.LeadServiceStatusSuggested:  0,
	types.LeadServiceStatusContacted:  1,
	types.LeadServiceStatusInterested: 2,
	types.LeadServiceStatusSold:       3,
}

// StatusAction is the gamification action awarded on entering a status.
var StatusAction = map[types.LeadServiceStatus]types.ActionType{
	types.LeadServiceStatusSuggested:  types.ActionTypeSuggestService,
	types.LeadServiceStatusContacted:  types.ActionTypeContactLead,
	types.LeadServiceStatusInterested: types.ActionTypeLeadInterested,
	types.LeadServiceStatusSold:       types.ActionTypeMakeSale,
	types.LeadServiceStatusDeclined:   types.ActionTypeLeadDeclined,
}

// CheckTransition reports whether moving from -> to changes anything. Moving
// to the current status is a no-op; forward moves may skip states; declined
// is reachable from any non-terminal status; everything else is rejected.
func CheckTransition(from, to types.LeadServiceStatus) (bool, error) {
	if !to.Valid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if from == to {
		return false, nil
	}
	if from.Terminal() {
		return false, fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, from)
	}
	if to == types.LeadServiceStatusDeclined {
		return true, nil
	}
	if statusRank[to] <= statusRank[from] {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return true, nil
}
