package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/bitforce/ambassador/internal/app/api/middleware"
	"github.com/bitforce/ambassador/internal/app/service/leadservice"
	"github.com/bitforce/ambassador/pkg/response"
)

// @Summary      Create lead
// @Tags         Leads
// @Accept       json
// @Produce      json
// @Param        request body leadservice.CreateLeadInput true "Lead"
// @Success      200  {object}  handlers.RespLead
// @Router       /api/v1/leads [post]
func ApiCreateLead(svc *leadservice.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req leadservice.CreateLeadInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		res, err := svc.CreateLead(c.Request.Context(), mw.UserID(c), req)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      List own leads
// @Tags         Leads
// @Produce      json
// @Success      200  {object}  handlers.RespLeads
// @Router       /api/v1/leads [get]
func ApiListLeads(svc *leadservice.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.ListLeads(c.Request.Context(), mw.UserID(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Lead detail
// @Description  Returns the lead with its suggested services.
// @Tags         Leads
// @Produce      json
// @Param        id path string true "Lead id"
// @Success      200  {object}  handlers.RespLeadDetail
// @Router       /api/v1/leads/{id} [get]
func ApiGetLead(svc *leadservice.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.GetLead(c.Request.Context(), mw.UserID(c), c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Listing recommendations
// @Description  Ranks provider listings against the lead's interests, skipping listings already suggested.
// @Tags         Leads
// @Produce      json
// @Param        id    path  string true  "Lead id"
// @Param        limit query int    false "Max recommendations" default(5)
// @Success      200  {object}  handlers.RespRecommendations
// @Router       /api/v1/leads/{id}/recommendations [get]
func ApiRecommend(svc *leadservice.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := queryInt(c, "limit", 5)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		res, err := svc.Recommend(c.Request.Context(), mw.UserID(c), c.Param("id"), limit)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Suggest a service
// @Description  Attaches a service to the lead in status suggested and awards SUGGEST_SERVICE points.
// @Tags         Leads
// @Accept       json
// @Produce      json
// @Param        id      path string                             true "Lead id"
// @Param        request body leadservice.CreateLeadServiceInput true "Service"
// @Success      200  {object}  handlers.RespCreateLeadService
// @Router       /api/v1/leads/{id}/services [post]
func ApiCreateLeadService(svc *leadservice.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req leadservice.CreateLeadServiceInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		res, err := svc.CreateLeadService(c.Request.Context(), mw.UserID(c), c.Param("id"), req)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Move a lead service
// @Description  Applies a forward status transition (or declined) and awards the points of the new status. Setting the current status is a no-op.
// @Tags         Leads
// @Accept       json
// @Produce      json
// @Param        id      path string                        true "Lead service id"
// @Param        request body leadservice.UpdateStatusInput true "New status"
// @Success      200  {object}  handlers.RespUpdateStatus
// @Router       /api/v1/lead-services/{id}/status [patch]
func ApiUpdateLeadServiceStatus(svc *leadservice.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req leadservice.UpdateStatusInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		res, err := svc.UpdateStatus(c.Request.Context(), mw.UserID(c), c.Param("id"), req)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterLeadRoutes(r gin.IRouter, svc *leadservice.Service) {
	r.POST("/leads", ApiCreateLead(svc))
	r.GET("/leads", ApiListLeads(svc))
	r.GET("/leads/:id", ApiGetLead(svc))
	r.GET("/leads/:id/recommendations", ApiRecommend(svc))
	r.POST("/leads/:id/services", ApiCreateLeadService(svc))
	r.PATCH("/lead-services/:id/status", ApiUpdateLeadServiceStatus(svc))
}
