package handler

import (
	"errors"
	"net/http"
	"time"

	"goldloan/internal/middleware"
	"goldloan/internal/service"
	"goldloan/pkg/pagination"
	"goldloan/pkg/response"

	"github.com/gin-gonic/gin"
)

type BillingHandler struct {
	billingService service.BillingService
}

func NewBillingHandler(billingService service.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

func (h *BillingHandler) RegisterRoutes(router *gin.RouterGroup) {
	billings := router.Group("/api/billings")
	{
		billings.POST("", middleware.RequireRole("admin", "employee"), h.CreateBilling)
		billings.GET("", middleware.RequireRole("admin", "employee"), h.ListUserBillings)
		billings.GET("/all", middleware.RequireRole("admin"), h.ListAllBillings)
		billings.GET("/daily-transactions", middleware.RequireRole("admin"), h.DailyTransactions)
		billings.POST("/calculate-commission", middleware.RequireRole("admin", "employee"), h.CalculateCommission)
		billings.PUT("/:id/photo", middleware.RequireRole("admin", "employee"), h.AttachPhoto)
		billings.DELETE("/reset-gold/admin", middleware.RequireRole("admin"), h.ResetGoldTransactions)
		billings.DELETE("/:id", middleware.RequireRole("admin"), h.DeleteBilling)
	}
}

// writeServiceError maps sentinel errors shared by the recorder services onto
// HTTP statuses. Exhaustion and duplicate races are server-side conditions,
// everything else is treated as a bad request.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	case errors.Is(err, service.ErrSequenceExhausted), errors.Is(err, service.ErrDuplicateNumber):
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
	default:
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	}
}

// CreateBilling records a gold purchase
// @Summary      Create billing
// @Description  Records a gold purchase, allocates its invoice number and posts the vault deduction
// @Tags         billings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateBillingRequest  true  "Create Billing Payload"
// @Success      201      {object}  response.Response{data=service.BillingResponse}
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /api/billings [post]
func (h *BillingHandler) CreateBilling(c *gin.Context) {
	var req service.CreateBillingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	billing, err := h.billingService.CreateBilling(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, billing))
}

// ListUserBillings returns the caller's own billings
// @Summary      List own billings
// @Tags         billings
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/billings [get]
func (h *BillingHandler) ListUserBillings(c *gin.Context) {
	params := pagination.Parse(c)

	billings, total, err := h.billingService.ListUserBillings(c.Request.Context(), c.GetString("userID"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"billings": billings,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// ListAllBillings returns every billing regardless of creator
// @Summary      List all billings
// @Tags         billings
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/billings/all [get]
func (h *BillingHandler) ListAllBillings(c *gin.Context) {
	params := pagination.Parse(c)

	billings, total, err := h.billingService.ListAllBillings(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"billings": billings,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// DailyTransactions summarizes billings recorded on one day
// @Summary      Daily transactions
// @Description  Returns the billings recorded on the given day with their payout total
// @Tags         billings
// @Security     BearerAuth
// @Produce      json
// @Param        date  query     string  false  "Day in YYYY-MM-DD format (default today)"
// @Success      200   {object}  response.Response{data=service.DailySummaryResponse}
// @Failure      400   {object}  response.Response
// @Router       /api/billings/daily-transactions [get]
func (h *BillingHandler) DailyTransactions(c *gin.Context) {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD"))
			return
		}
		day = parsed
	}

	summary, err := h.billingService.DailyTransactions(c.Request.Context(), day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// CalculateCommission computes commission for a given amount and percentage
// @Summary      Calculate commission
// @Tags         billings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CommissionRequest  true  "Commission Payload"
// @Success      200      {object}  response.Response{data=service.CommissionResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/billings/calculate-commission [post]
func (h *BillingHandler) CalculateCommission(c *gin.Context) {
	var req service.CommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.billingService.CalculateCommission(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// AttachPhoto stores the customer photo on a billing
// @Summary      Attach customer photo
// @Tags         billings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Billing ID"
// @Param        payload  body      service.AttachPhotoRequest  true  "Photo Payload"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/billings/{id}/photo [put]
func (h *BillingHandler) AttachPhoto(c *gin.Context) {
	var req service.AttachPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.billingService.AttachPhoto(c.Request.Context(), c.Param("id"), req); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "photo attached"}))
}

// DeleteBilling hard-deletes a billing record
// @Summary      Delete billing
// @Description  Hard delete. The invoice number stays consumed and the ledger is not reversed
// @Tags         billings
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Billing ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/billings/{id} [delete]
func (h *BillingHandler) DeleteBilling(c *gin.Context) {
	if err := h.billingService.DeleteBilling(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "billing deleted"}))
}

// ResetGoldTransactions wipes every billing record
// @Summary      Reset gold transactions
// @Description  Deletes all billings. Allocated numbers stay consumed
// @Tags         billings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/billings/reset-gold/admin [delete]
func (h *BillingHandler) ResetGoldTransactions(c *gin.Context) {
	if err := h.billingService.ResetGoldTransactions(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "gold transactions reset"}))
}
