package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bitforce/ambassador/internal/app/service/bft"
	"github.com/bitforce/ambassador/internal/app/service/referral"
	"github.com/bitforce/ambassador/pkg/response"
)

// @Summary      BFT balance
// @Description  Earned BFT balance of the caller and the sequence of its last ledger entry.
// @Tags         BFT
// @Produce      json
// @Success      200  {object}  handlers.RespBFTBalance
// @Router       /api/v1/ambassador/bft/balance [get]
func ApiBFTBalance(ref *referral.Service, ledger *bft.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		amb, err := currentAmbassador(c, ref)
		if err != nil {
			fail(c, err)
			return
		}
		res, err := ledger.GetBalance(c.Request.Context(), amb.ID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      BFT ledger
// @Tags         BFT
// @Produce      json
// @Param        from query int false "Offset" default(0)
// @Param        size query int false "Page size" default(20)
// @Success      200  {object}  handlers.RespBFTTransactions
// @Router       /api/v1/ambassador/bft/transactions [get]
func ApiBFTTransactions(ref *referral.Service, ledger *bft.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, err := queryInt(c, "from", 0)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		size, err := queryInt(c, "size", 20)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		amb, err := currentAmbassador(c, ref)
		if err != nil {
			fail(c, err)
			return
		}
		res, err := ledger.ListTransactions(c.Request.Context(), amb.ID, from, size)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Wallet balance
// @Description  Earned BFT plus the purchased balance held by the token platform. An unreachable platform reports purchased as 0 with a warning.
// @Tags         BFT
// @Produce      json
// @Success      200  {object}  handlers.RespWalletBalance
// @Router       /api/v1/ambassador/wallet-balance [get]
func ApiWalletBalance(ref *referral.Service, ledger *bft.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		amb, err := currentAmbassador(c, ref)
		if err != nil {
			fail(c, err)
			return
		}
		res, err := ledger.GetWalletBalance(c.Request.Context(), amb.Email)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterWalletRoutes(r gin.IRouter, ref *referral.Service, ledger *bft.Service) {
	r.GET("/bft/balance", ApiBFTBalance(ref, ledger))
	r.GET("/bft/transactions", ApiBFTTransactions(ref, ledger))
	r.GET("/wallet-balance", ApiWalletBalance(ref, ledger))
}
