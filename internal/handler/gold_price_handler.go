package handler

import (
	"net/http"

	"goldloan/internal/middleware"
	"goldloan/internal/service"
	"goldloan/pkg/response"

	"github.com/gin-gonic/gin"
)

type GoldPriceHandler struct {
	goldPriceService service.GoldPriceService
}

func NewGoldPriceHandler(goldPriceService service.GoldPriceService) *GoldPriceHandler {
	return &GoldPriceHandler{goldPriceService: goldPriceService}
}

func (h *GoldPriceHandler) RegisterRoutes(router *gin.RouterGroup) {
	prices := router.Group("/api/gold-price")
	{
		prices.GET("", middleware.RequireRole("admin", "employee"), h.Get)
		prices.PUT("", middleware.RequireRole("admin"), h.Update)
	}
}

// Get returns the current per-karat rate board
// @Summary      Get gold price
// @Tags         gold-price
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.GoldPriceResponse}
// @Failure      500  {object}  response.Response
// @Router       /api/gold-price [get]
func (h *GoldPriceHandler) Get(c *gin.Context) {
	price, err := h.goldPriceService.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, price))
}

// Update sets per-karat rates and broadcasts the new board
// @Summary      Update gold price
// @Description  Updates any subset of the four karat rates and pushes the board to connected clients
// @Tags         gold-price
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.UpdateGoldPriceRequest  true  "Rates Payload"
// @Success      200      {object}  response.Response{data=service.GoldPriceResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/gold-price [put]
func (h *GoldPriceHandler) Update(c *gin.Context) {
	var req service.UpdateGoldPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	price, err := h.goldPriceService.Update(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, price))
}
