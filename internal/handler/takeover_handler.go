package handler

import (
	"net/http"

	"goldloan/internal/middleware"
	"goldloan/internal/service"
	"goldloan/pkg/pagination"
	"goldloan/pkg/response"

	"github.com/gin-gonic/gin"
)

type TakeoverHandler struct {
	takeoverService service.TakeoverService
}

func NewTakeoverHandler(takeoverService service.TakeoverService) *TakeoverHandler {
	return &TakeoverHandler{takeoverService: takeoverService}
}

func (h *TakeoverHandler) RegisterRoutes(router *gin.RouterGroup) {
	takeovers := router.Group("/api/takeovers")
	{
		takeovers.POST("", middleware.RequireRole("admin", "employee"), h.CreateTakeover)
		takeovers.GET("", middleware.RequireRole("admin", "employee"), h.ListUserTakeovers)
		takeovers.GET("/all", middleware.RequireRole("admin"), h.ListAllTakeovers)
		takeovers.POST("/calculate-estimate", middleware.RequireRole("admin", "employee"), h.CalculateEstimate)
		takeovers.DELETE("/:id", middleware.RequireRole("admin"), h.DeleteTakeover)
	}
}

// CreateTakeover records a pledge takeover
// @Summary      Create takeover
// @Description  Records a pledge takeover, derives profit/loss and posts the vault deduction
// @Tags         takeovers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateTakeoverRequest  true  "Create Takeover Payload"
// @Success      201      {object}  response.Response{data=service.TakeoverResponse}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/takeovers [post]
func (h *TakeoverHandler) CreateTakeover(c *gin.Context) {
	var req service.CreateTakeoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	takeover, err := h.takeoverService.CreateTakeover(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, takeover))
}

// ListUserTakeovers returns the caller's own takeovers
// @Summary      List own takeovers
// @Tags         takeovers
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/takeovers [get]
func (h *TakeoverHandler) ListUserTakeovers(c *gin.Context) {
	params := pagination.Parse(c)

	takeovers, total, err := h.takeoverService.ListUserTakeovers(c.Request.Context(), c.GetString("userID"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"takeovers": takeovers,
		"total":     total,
		"page":      params.Page,
		"limit":     params.Limit,
	}))
}

// ListAllTakeovers returns every takeover regardless of creator
// @Summary      List all takeovers
// @Tags         takeovers
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/takeovers/all [get]
func (h *TakeoverHandler) ListAllTakeovers(c *gin.Context) {
	params := pagination.Parse(c)

	takeovers, total, err := h.takeoverService.ListAllTakeovers(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"takeovers": takeovers,
		"total":     total,
		"page":      params.Page,
		"limit":     params.Limit,
	}))
}

// CalculateEstimate computes the gold value estimate for a takeover
// @Summary      Calculate takeover estimate
// @Tags         takeovers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.EstimateRequest  true  "Estimate Payload"
// @Success      200      {object}  response.Response{data=service.EstimateResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/takeovers/calculate-estimate [post]
func (h *TakeoverHandler) CalculateEstimate(c *gin.Context) {
	var req service.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.takeoverService.CalculateEstimate(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// DeleteTakeover hard-deletes a takeover record
// @Summary      Delete takeover
// @Description  Hard delete. The takeover number stays consumed and the ledger is not reversed
// @Tags         takeovers
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Takeover ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/takeovers/{id} [delete]
func (h *TakeoverHandler) DeleteTakeover(c *gin.Context) {
	if err := h.takeoverService.DeleteTakeover(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "takeover deleted"}))
}
