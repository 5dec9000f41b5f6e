package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bitforce/ambassador/internal/app/service/billing"
	"github.com/bitforce/ambassador/pkg/response"
)

const maxWebhookBody = 1 << 20

// @Summary      Stripe webhook
// @Description  Receives Stripe events. Rejected signatures and malformed payloads answer 400, bodies over 1 MiB answer 413, and handling failures answer 500 so Stripe retries the delivery.
// @Tags         Billing
// @Accept       json
// @Produce      json
// @Param        Stripe-Signature header string true "Stripe signature header"
// @Success      200  {object}  handlers.RespWebhookOutcome
// @Router       /api/v1/webhooks/stripe [post]
func ApiStripeWebhook(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody+1))
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if len(payload) > maxWebhookBody {
			c.JSON(http.StatusRequestEntityTooLarge,
				response.ErrorT[any](response.APIResponseCodeBadRequest, "webhook payload exceeds 1 MiB"))
			return
		}
		res, err := svc.HandleStripeWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, billing.ErrInvalidSignature) || errors.Is(err, billing.ErrMalformedEvent) {
				status = http.StatusBadRequest
			}
			c.JSON(status, response.FromError(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterWebhookRoutes(r gin.IRouter, svc *billing.Service) {
	r.POST("/webhooks/stripe", ApiStripeWebhook(svc))
}
