package gamification

import (
	"context"
	"time"

	"github.com/bitforce/ambassador/internal/app/storage"
	"github.com/bitforce/ambassador/internal/models"
	"github.com/bitforce/ambassador/pkg/tool"
	"github.com/bitforce/ambassador/pkg/types"
)

type countRule struct {
	badge  types.BadgeType
	action types.ActionType
	count  int64
}

var countRules = []countRule{
	{types.BadgeTypeFirstSale, types.ActionTypeMakeSale, 1},
	{types.BadgeTypeSales10, types.ActionTypeMakeSale, 10},
	{types.BadgeTypeSales50, types.ActionTypeMakeSale, 50},
	{types.BadgeTypeFirstDesign, types.ActionTypeGenerateDesign, 1},
}

// milestoneBadges returns the badges the current points state qualifies for
// without reading the action log.
func milestoneBadges(p *models.AmbassadorPoints) []types.BadgeType {
	var out []types.BadgeType
	if p.Level >= 5 {
		out = append(out, types.BadgeTypeLevel5)
	}
	if p.Level >= 10 {
		out = append(out, types.BadgeTypeLevel10)
	}
	if p.CurrentStreak >= 7 {
		out = append(out, types.BadgeTypeStreak7)
	}
	if p.CurrentStreak >= 30 {
		out = append(out, types.BadgeTypeStreak30)
	}
	return out
}

// evaluateBadges inserts every badge the user now qualifies for and returns
// the ones that were new.
func evaluateBadges(ctx context.Context, tx storage.Store, p *models.AmbassadorPoints, actionType types.ActionType, now time.Time) ([]types.BadgeType, error) {
	candidates := milestoneBadges(p)

	var counted int64 = -1
	for _, rule := range countRules {
		if rule.action != actionType {
			continue
		}
		if counted < 0 {
			n, err := tx.CountActions(ctx, p.UserID, actionType)
			if err != nil {
				return nil, err
			}
			counted = n
		}
		if counted >= rule.count {
			candidates = append(candidates, rule.badge)
		}
	}

	var earned []types.BadgeType
	for _, badge := range candidates {
		inserted, err := tx.CreateBadgeIfAbsent(ctx, &models.AmbassadorBadge{
			ID:        tool.GenerateUUIDV7(),
			UserID:    p.UserID,
			BadgeType: badge,
			EarnedAt:  now,
		})
		if err != nil {
			return nil, err
		}
		if inserted {
			earned = append(earned, badge)
		}
	}
	return earned, nil
}
