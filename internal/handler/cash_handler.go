package handler

import (
	"net/http"

	"goldloan/internal/middleware"
	"goldloan/internal/model"
	"goldloan/internal/service"
	"goldloan/pkg/response"

	"github.com/gin-gonic/gin"
)

type CashHandler struct {
	cashService service.CashService
}

func NewCashHandler(cashService service.CashService) *CashHandler {
	return &CashHandler{cashService: cashService}
}

func (h *CashHandler) RegisterRoutes(router *gin.RouterGroup) {
	cash := router.Group("/api/cash")
	{
		cash.POST("/initial", middleware.RequireRole("admin", "employee"), h.AddInitial)
		cash.POST("/remaining", middleware.RequireRole("admin", "employee"), h.AddRemaining)
		cash.GET("", middleware.RequireRole("admin", "employee"), h.List)
		cash.GET("/margin", middleware.RequireRole("admin", "employee"), h.Margin)
		cash.GET("/check-initial", middleware.RequireRole("admin", "employee"), h.CheckInitial)
		cash.DELETE("/reset-initial", middleware.RequireRole("admin"), h.ResetInitial)
		cash.DELETE("/reset-all", middleware.RequireRole("admin"), h.ResetAll)
	}
}

// AddInitial posts an opening-cash ledger entry
// @Summary      Add initial cash
// @Tags         cash
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.AddCashRequest  true  "Amount Payload"
// @Success      201      {object}  response.Response{data=service.CashEntryResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/cash/initial [post]
func (h *CashHandler) AddInitial(c *gin.Context) {
	h.addEntry(c, model.CashKindInitial)
}

// AddRemaining posts a carry-forward ledger entry
// @Summary      Add remaining cash
// @Tags         cash
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.AddCashRequest  true  "Amount Payload"
// @Success      201      {object}  response.Response{data=service.CashEntryResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/cash/remaining [post]
func (h *CashHandler) AddRemaining(c *gin.Context) {
	h.addEntry(c, model.CashKindRemaining)
}

func (h *CashHandler) addEntry(c *gin.Context, kind string) {
	var req service.AddCashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	entry, err := h.cashService.AddEntry(c.Request.Context(), c.GetString("userID"), req, kind)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, entry))
}

// List returns ledger entries, scoped by role
// @Summary      List cash entries
// @Description  Admins see every entry, employees only their own
// @Tags         cash
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.CashEntryResponse}
// @Failure      500  {object}  response.Response
// @Router       /api/cash [get]
func (h *CashHandler) List(c *gin.Context) {
	entries, err := h.cashService.List(c.Request.Context(), c.GetString("userID"), c.GetString("userRole"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, entries))
}

// Margin returns the derived vault balance
// @Summary      Vault margin
// @Description  Returns sum(initial) - sum(billing). The margin may be negative
// @Tags         cash
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.MarginResponse}
// @Failure      500  {object}  response.Response
// @Router       /api/cash/margin [get]
func (h *CashHandler) Margin(c *gin.Context) {
	margin, err := h.cashService.Margin(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, margin))
}

// CheckInitial reports whether any opening cash has been posted
// @Summary      Check initial cash
// @Tags         cash
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /api/cash/check-initial [get]
func (h *CashHandler) CheckInitial(c *gin.Context) {
	has, err := h.cashService.HasInitial(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"has_initial": has}))
}

// ResetInitial deletes all initial entries
// @Summary      Reset initial cash
// @Description  Deletes every initial entry. Billing and remaining entries are untouched
// @Tags         cash
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/cash/reset-initial [delete]
func (h *CashHandler) ResetInitial(c *gin.Context) {
	if err := h.cashService.ResetByKinds(c.Request.Context(), []string{model.CashKindInitial}); err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "initial entries reset"}))
}

// ResetAll deletes every ledger entry of every kind
// @Summary      Reset all cash
// @Tags         cash
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/cash/reset-all [delete]
func (h *CashHandler) ResetAll(c *gin.Context) {
	kinds := []string{model.CashKindInitial, model.CashKindBilling, model.CashKindRemaining}
	if err := h.cashService.ResetByKinds(c.Request.Context(), kinds); err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "all cash entries reset"}))
}
