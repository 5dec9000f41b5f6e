package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/bitforce/ambassador/internal/app/api/middleware"
	"github.com/bitforce/ambassador/internal/app/service/bft"
	"github.com/bitforce/ambassador/internal/app/service/gamification"
	"github.com/bitforce/ambassador/internal/app/service/leadservice"
	"github.com/bitforce/ambassador/internal/app/service/reconcile"
	"github.com/bitforce/ambassador/internal/app/service/referral"
	"github.com/bitforce/ambassador/internal/app/service/statistics"
	"github.com/bitforce/ambassador/pkg/response"
)

type AdjustPointsRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Delta  int64  `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// @Summary      Create service provider (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body leadservice.CreateProviderInput true "Provider"
// @Success      200  {object}  handlers.RespProvider
// @Router       /api/v1/admin/providers [post]
func ApiCreateProvider(svc *leadservice.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req leadservice.CreateProviderInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		res, err := svc.CreateProvider(c.Request.Context(), req)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      List service providers (Admin)
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  handlers.RespProviders
// @Router       /api/v1/admin/providers [get]
func ApiListProviders(svc *leadservice.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.ListProviders(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Create provider listing (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body leadservice.CreateListingInput true "Listing"
// @Success      200  {object}  handlers.RespListing
// @Router       /api/v1/admin/listings [post]
func ApiCreateListing(svc *leadservice.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req leadservice.CreateListingInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		res, err := svc.CreateListing(c.Request.Context(), req)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      List provider listings (Admin)
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  handlers.RespListings
// @Router       /api/v1/admin/listings [get]
func ApiListListings(svc *leadservice.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.ListListings(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Adjust points (Admin)
// @Description  Applies a signed correction to a user's total, recorded as ADMIN_ADJUSTMENT.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body AdjustPointsRequest true "Adjustment"
// @Success      200  {object}  handlers.RespAward
// @Router       /api/v1/admin/points/adjust [post]
func ApiAdjustPoints(gam *gamification.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AdjustPointsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		res, err := gam.AdjustPoints(c.Request.Context(), req.UserID, req.Delta, req.Reason, mw.UserID(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Post BFT transaction (Admin)
// @Description  Appends a manual entry to an ambassador's BFT ledger.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body bft.PostRequest true "Posting"
// @Success      200  {object}  handlers.RespBFTTransaction
// @Router       /api/v1/admin/bft/transactions [post]
func ApiPostBFTTransaction(ledger *bft.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bft.PostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		res, err := ledger.PostTransaction(c.Request.Context(), req)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      List BFT transactions (Admin)
// @Description  Retrieves a paginated and filterable list of ledger entries across ambassadors.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body bft.ScanRequest true "Filters and pagination"
// @Success      200  {object}  handlers.RespBFTTransactions
// @Router       /api/v1/admin/bft/list_transactions [post]
func ApiScanBFTTransactions(ledger *bft.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bft.ScanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		res, err := ledger.ScanTransactions(c.Request.Context(), &req)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Verify an ambassador's BFT ledger (Admin)
// @Tags         Admin
// @Produce      json
// @Param        id path string true "Ambassador id"
// @Success      200  {object}  handlers.RespLedgerReport
// @Router       /api/v1/admin/ambassadors/{id}/ledger [get]
func ApiVerifyLedger(ledger *bft.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := ledger.VerifyLedger(c.Request.Context(), c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Mark referral bonus paid (Admin)
// @Tags         Admin
// @Produce      json
// @Param        id path string true "Referral bonus id"
// @Success      200  {object}  handlers.RespReferralBonus
// @Router       /api/v1/admin/referral-bonuses/{id}/paid [post]
func ApiMarkBonusPaid(ref *referral.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := ref.MarkBonusPaid(c.Request.Context(), c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Mark recurring override paid (Admin)
// @Tags         Admin
// @Produce      json
// @Param        id path string true "Recurring override id"
// @Success      200  {object}  handlers.RespRecurringOverride
// @Router       /api/v1/admin/recurring-overrides/{id}/paid [post]
func ApiMarkOverridePaid(ref *referral.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := ref.MarkOverridePaid(c.Request.Context(), c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Reconcile ledgers (Admin)
// @Description  Recomputes points totals and BFT balances from their logs and reports every mismatch.
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  handlers.RespReconcileReport
// @Router       /api/v1/admin/ledger/reconcile [get]
func ApiReconcile(svc *reconcile.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.Run(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Daily program statistics (Admin)
// @Description  Computes the requested daily series, bucketed by UTC day, over the last days (default 30).
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body statistics.StatisticRequest true "Statistic request"
// @Success      200  {object}  handlers.RespStatistic
// @Router       /api/v1/admin/statistics [post]
func ApiStatistics(svc *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.StatisticRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		res, err := svc.GetDailyStatistic(c.Request.Context(), &req)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

type AdminServices struct {
	Leads        *leadservice.Service
	Gamification *gamification.Service
	BFT          *bft.Service
	Referral     *referral.Service
	Reconcile    *reconcile.Service
	Statistics   *statistics.Service
}

func RegisterAdminRoutes(r gin.IRouter, s AdminServices) {
	r.POST("/providers", ApiCreateProvider(s.Leads))
	r.GET("/providers", ApiListProviders(s.Leads))
	r.POST("/listings", ApiCreateListing(s.Leads))
	r.GET("/listings", ApiListListings(s.Leads))
	r.POST("/points/adjust", ApiAdjustPoints(s.Gamification))
	r.POST("/bft/transactions", ApiPostBFTTransaction(s.BFT))
	r.POST("/bft/list_transactions", ApiScanBFTTransactions(s.BFT))
	r.GET("/ambassadors/:id/ledger", ApiVerifyLedger(s.BFT))
	r.POST("/referral-bonuses/:id/paid", ApiMarkBonusPaid(s.Referral))
	r.POST("/recurring-overrides/:id/paid", ApiMarkOverridePaid(s.Referral))
	r.GET("/ledger/reconcile", ApiReconcile(s.Reconcile))
	r.POST("/statistics", ApiStatistics(s.Statistics))
}
