package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	mw "github.com/bitforce/ambassador/internal/app/api/middleware"
	"github.com/bitforce/ambassador/internal/app/service/gamification"
	"github.com/bitforce/ambassador/internal/app/service/invite"
	"github.com/bitforce/ambassador/internal/app/service/referral"
	"github.com/bitforce/ambassador/internal/models"
	"github.com/bitforce/ambassador/pkg/response"
	"github.com/bitforce/ambassador/pkg/types"
)

type SignupRequest struct {
	Email          string `json:"email" binding:"required,email"`
	FullName       string `json:"full_name" binding:"required"`
	ReferredByCode string `json:"referred_by_code"`
	Tier           string `json:"tier"`
}

type Profile struct {
	Ambassador   *models.AmbassadorSubscription `json:"ambassador"`
	ReferralLink string                         `json:"referral_link"`
}

type DesignRequest struct {
	Description string `json:"description"`
}

// @Summary      Ambassador signup
// @Description  Creates the ambassador record of the caller. A referral code links the new ambassador to its referrer.
// @Tags         Ambassador
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "Signup request"
// @Success      200  {object}  handlers.RespProfile
// @Router       /api/v1/ambassador/signup [post]
func ApiSignup(ref *referral.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		amb, err := ref.Signup(c.Request.Context(), referral.SignupInput{
			UserID:         mw.UserID(c),
			Email:          req.Email,
			FullName:       req.FullName,
			ReferredByCode: req.ReferredByCode,
			Tier:           req.Tier,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(&Profile{Ambassador: amb, ReferralLink: ref.ReferralLink(amb)}))
	}
}

// @Summary      Current ambassador
// @Tags         Ambassador
// @Produce      json
// @Success      200  {object}  handlers.RespProfile
// @Router       /api/v1/ambassador/me [get]
func ApiMe(ref *referral.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		amb, err := currentAmbassador(c, ref)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(&Profile{Ambassador: amb, ReferralLink: ref.ReferralLink(amb)}))
	}
}

// @Summary      Points progress
// @Description  Returns total points, level, streaks and badges of the caller.
// @Tags         Gamification
// @Produce      json
// @Success      200  {object}  handlers.RespProgress
// @Router       /api/v1/ambassador/points [get]
func ApiPoints(gam *gamification.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := gam.GetProgress(c.Request.Context(), mw.UserID(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Action history
// @Tags         Gamification
// @Produce      json
// @Param        limit query int false "Max number of actions, newest first" default(50)
// @Success      200  {object}  handlers.RespActions
// @Router       /api/v1/ambassador/actions [get]
func ApiActions(gam *gamification.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := queryInt(c, "limit", 50)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		res, err := gam.ListActions(c.Request.Context(), mw.UserID(c), limit)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Earned badges
// @Tags         Gamification
// @Produce      json
// @Success      200  {object}  handlers.RespBadges
// @Router       /api/v1/ambassador/badges [get]
func ApiBadges(gam *gamification.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := gam.ListBadges(c.Request.Context(), mw.UserID(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Record daily activity
// @Description  Advances the login streak for today. Repeated calls on the same day change nothing.
// @Tags         Gamification
// @Produce      json
// @Success      200  {object}  handlers.RespActivity
// @Router       /api/v1/ambassador/activity [post]
func ApiRecordActivity(gam *gamification.Service, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := gam.RecordDailyActivity(c.Request.Context(), mw.UserID(c), now())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Record a generated design
// @Tags         Gamification
// @Accept       json
// @Produce      json
// @Param        request body DesignRequest false "Design description"
// @Success      200  {object}  handlers.RespAward
// @Router       /api/v1/ambassador/designs [post]
func ApiGenerateDesign(gam *gamification.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DesignRequest
		if err := bindOptionalJSON(c, &req); err != nil {
			badRequest(c, err.Error())
			return
		}
		res, err := gam.AwardPoints(c.Request.Context(), mw.UserID(c), types.ActionTypeGenerateDesign,
			gamification.AwardContext{Description: req.Description})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Referral earnings
// @Description  Lists signup bonuses and monthly overrides with pending and paid totals.
// @Tags         Referral
// @Produce      json
// @Success      200  {object}  handlers.RespEarnings
// @Router       /api/v1/ambassador/referrals [get]
func ApiReferralEarnings(ref *referral.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		amb, err := currentAmbassador(c, ref)
		if err != nil {
			fail(c, err)
			return
		}
		res, err := ref.GetEarnings(c.Request.Context(), amb.ID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Invite a prospect
// @Description  Records the invitation and emails the caller's referral link. A delivery failure is reported as a warning.
// @Tags         Referral
// @Accept       json
// @Produce      json
// @Param        request body invite.Input true "Invitation"
// @Success      200  {object}  handlers.RespInvite
// @Router       /api/v1/ambassador/invite [post]
func ApiInvite(inv *invite.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req invite.Input
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		res, err := inv.Send(c.Request.Context(), mw.UserID(c), req)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Sent invitations
// @Tags         Referral
// @Produce      json
// @Success      200  {object}  handlers.RespInvitations
// @Router       /api/v1/ambassador/invitations [get]
func ApiListInvitations(inv *invite.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := inv.List(c.Request.Context(), mw.UserID(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAmbassadorRoutes(r gin.IRouter, ref *referral.Service, gam *gamification.Service, inv *invite.Service) {
	r.POST("/signup", ApiSignup(ref))
	r.GET("/me", ApiMe(ref))
	r.GET("/points", ApiPoints(gam))
	r.GET("/actions", ApiActions(gam))
	r.GET("/badges", ApiBadges(gam))
	r.POST("/activity", ApiRecordActivity(gam, time.Now))
	r.POST("/designs", ApiGenerateDesign(gam))
	r.GET("/referrals", ApiReferralEarnings(ref))
	r.POST("/invite", ApiInvite(inv))
	r.GET("/invitations", ApiListInvitations(inv))
}
