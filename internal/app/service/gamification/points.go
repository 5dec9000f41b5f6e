package gamification

import (
	"fmt"
	"time"

	"github.com/bitforce/ambassador/pkg/errs"
	"github.com/bitforce/ambassador/pkg/types"
)

// PointValues is the fixed award per action type. ADMIN_ADJUSTMENT is absent:
// its value is supplied by the operator.
var PointValues = map[types.ActionType]int64{
	types.ActionTypeSuggestService: 5,
	types.ActionTypeContactLead:    10,
	types.ActionTypeLeadInterested: 15,
	types.ActionTypeMakeSale:       50,
	types.ActionTypeLeadDeclined:   0,
	types.ActionTypeDailyLogin:     2,
	types.ActionTypeStreakBonus7:   25,
	types.ActionTypeStreakBonus30:  100,
	types.ActionTypeGenerateDesign: 15,
}

// LevelThresholds[i] is the minimum total for level i+1.
var LevelThresholds = []int64{0, 100, 250, 500, 1000, 2000, 3500, 5000, 7500, 10000}

var (
	ErrUnknownAction = fmt.Errorf("%w: unknown action type", errs.ErrValidation)
	ErrInvalidUser   = fmt.Errorf("%w: user id is required", errs.ErrValidation)
	ErrZeroAdjust    = fmt.Errorf("%w: adjustment must be non-zero", errs.ErrValidation)
)

// LevelFor returns the 1-based level for a points total: 99 is level 1, 100
// is level 2. Negative totals stay at level 1.
func LevelFor(total int64) int {
	level := 1
	for i, threshold := range LevelThresholds {
		if total >= threshold {
			level = i + 1
		}
	}
	return level
}

// NextThreshold returns the total needed to reach the level after level, or
// false at the top level.
func NextThreshold(level int) (int64, bool) {
	if level < 1 {
		level = 1
	}
	if level >= len(LevelThresholds) {
		return 0, false
	}
	return LevelThresholds[level], true
}

const dayLayout = "2006-01-02"

// streakStep is the outcome of recording activity on a calendar day.
type streakStep struct {
	changed bool
	current int
	longest int
	day     string
}

// nextStreak applies one activity day to the stored streak state. Repeats of
// the last day and days before it leave the state unchanged.
func nextStreak(lastDay string, current, longest int, day time.Time) (streakStep, error) {
	today := day.Format(dayLayout)
	step := streakStep{current: current, longest: longest, day: lastDay}
	if lastDay == "" {
		step.changed, step.current, step.day = true, 1, today
		step.longest = max(longest, 1)
		return step, nil
	}
	last, err := time.Parse(dayLayout, lastDay)
	if err != nil {
		return step, fmt.Errorf("invalid last activity date %q: %w", lastDay, err)
	}
	cur, _ := time.Parse(dayLayout, today)
	gap := int(cur.Sub(last).Hours() / 24)
	switch {
	case gap <= 0:
		return step, nil
	case gap == 1:
		step.current = current + 1
	default:
		step.current = 1
	}
	step.changed = true
	step.day = today
	step.longest = max(longest, step.current)
	return step, nil
}
