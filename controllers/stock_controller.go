package controllers

import (
	"StockDash/models"
	"StockDash/services"
	"StockDash/utils"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// StockController handles the market-data routes proxied to the
// prediction service.
type StockController struct {
	StockService *services.StockService
}

// NewStockController initializes StockController.
func NewStockController(stockService *services.StockService) *StockController {
	return &StockController{StockService: stockService}
}

func (h *StockController) GetHistory(ctx *gin.Context) {
	ticker := ctx.Query("ticker")
	if !utils.IsValidTicker(ticker) {
		utils.ErrorResponse(ctx, http.StatusBadRequest, "Invalid ticker symbol")
		return
	}

	from := ctx.Query("from")
	to := ctx.Query("to")
	if err := utils.ValidateDateRange(from, to); err != nil {
		utils.ErrorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}

	payload, err := h.StockService.FetchHistory(ctx.Request.Context(), ticker, from, to)
	if err != nil {
		ctx.Error(err)
		return
	}

	utils.SuccessResponse(ctx, http.StatusOK, "success fetch stock history", payload)
}

func (h *StockController) GetPrediction(ctx *gin.Context) {
	ticker := ctx.Query("ticker")
	if !utils.IsValidTicker(ticker) {
		utils.ErrorResponse(ctx, http.StatusBadRequest, "Invalid ticker symbol")
		return
	}

	days := 30
	if raw := ctx.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 90 {
			utils.ErrorResponse(ctx, http.StatusBadRequest, "days must be between 1 and 90")
			return
		}
		days = n
	}

	payload, err := h.StockService.FetchPrediction(ctx.Request.Context(), ticker, days)
	if err != nil {
		ctx.Error(err)
		return
	}

	utils.SuccessResponse(ctx, http.StatusOK, "success fetch prediction", payload)
}

func (h *StockController) BatchHistory(ctx *gin.Context) {
	var req models.BatchHistoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		if fields := utils.BindingErrorFields(err); fields != nil {
			utils.ValidationErrorResponse(ctx, fields)
			return
		}
		utils.ErrorResponse(ctx, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := utils.ValidateDateRange(req.From, req.To); err != nil {
		utils.ErrorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.StockService.FetchHistoryBatch(ctx.Request.Context(), req.Tickers, req.From, req.To)
	if err != nil {
		ctx.Error(err)
		return
	}

	utils.SuccessResponse(ctx, http.StatusOK, "success fetch batch history", result)
}

func (h *StockController) Health(ctx *gin.Context) {
	payload, err := h.StockService.Health(ctx.Request.Context())
	if err != nil {
		// A degraded upstream still answered; relay its status payload.
		if payload != nil {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"message": err.Error(),
				"data":    payload,
			})
			return
		}
		ctx.Error(err)
		return
	}

	utils.SuccessResponse(ctx, http.StatusOK, "prediction service reachable", payload)
}
