package handler

import (
	"net/http"

	"goldloan/internal/middleware"
	"goldloan/internal/service"
	"goldloan/pkg/pagination"
	"goldloan/pkg/response"

	"github.com/gin-gonic/gin"
)

type RenewalHandler struct {
	renewalService service.RenewalService
}

func NewRenewalHandler(renewalService service.RenewalService) *RenewalHandler {
	return &RenewalHandler{renewalService: renewalService}
}

func (h *RenewalHandler) RegisterRoutes(router *gin.RouterGroup) {
	renewals := router.Group("/api/renewals")
	{
		renewals.POST("", middleware.RequireRole("admin", "employee"), h.CreateRenewal)
		renewals.GET("", middleware.RequireRole("admin", "employee"), h.ListUserRenewals)
		renewals.GET("/all", middleware.RequireRole("admin"), h.ListAllRenewals)
		renewals.POST("/calculate-commission", middleware.RequireRole("admin", "employee"), h.CalculateCommission)
		renewals.DELETE("/:id", middleware.RequireRole("admin"), h.DeleteRenewal)
	}
}

// CreateRenewal records a loan renewal
// @Summary      Create renewal
// @Description  Records a loan renewal, allocates its number and posts the vault deduction
// @Tags         renewals
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateRenewalRequest  true  "Create Renewal Payload"
// @Success      201      {object}  response.Response{data=service.RenewalResponse}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/renewals [post]
func (h *RenewalHandler) CreateRenewal(c *gin.Context) {
	var req service.CreateRenewalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	renewal, err := h.renewalService.CreateRenewal(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, renewal))
}

// ListUserRenewals returns the caller's own renewals
// @Summary      List own renewals
// @Tags         renewals
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/renewals [get]
func (h *RenewalHandler) ListUserRenewals(c *gin.Context) {
	params := pagination.Parse(c)

	renewals, total, err := h.renewalService.ListUserRenewals(c.Request.Context(), c.GetString("userID"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"renewals": renewals,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// ListAllRenewals returns every renewal regardless of creator
// @Summary      List all renewals
// @Tags         renewals
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/renewals/all [get]
func (h *RenewalHandler) ListAllRenewals(c *gin.Context) {
	params := pagination.Parse(c)

	renewals, total, err := h.renewalService.ListAllRenewals(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"renewals": renewals,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// CalculateCommission computes the renewal commission
// @Summary      Calculate renewal commission
// @Tags         renewals
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RenewalCommissionRequest  true  "Commission Payload"
// @Success      200      {object}  response.Response{data=service.RenewalCommissionResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/renewals/calculate-commission [post]
func (h *RenewalHandler) CalculateCommission(c *gin.Context) {
	var req service.RenewalCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.renewalService.CalculateCommission(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// DeleteRenewal hard-deletes a renewal record
// @Summary      Delete renewal
// @Description  Hard delete. The renewal number stays consumed and the ledger is not reversed
// @Tags         renewals
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Renewal ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/renewals/{id} [delete]
func (h *RenewalHandler) DeleteRenewal(c *gin.Context) {
	if err := h.renewalService.DeleteRenewal(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "renewal deleted"}))
}
