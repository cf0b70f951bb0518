package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aisenh037/MBC-sub002/model"
	"github.com/Aisenh037/MBC-sub002/service"
	"github.com/Aisenh037/MBC-sub002/util"
)

type AnalyticsController struct {
	analyticsService service.IAnalyticsService
}

func NewAnalyticsController(analyticsService service.IAnalyticsService) *AnalyticsController {
	return &AnalyticsController{analyticsService: analyticsService}
}

// StudentPerformance endpoint
func (ac *AnalyticsController) StudentPerformance(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	report, err := ac.analyticsService.StudentPerformance(c, scope, c.Param("userId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, report)
}

// DepartmentReport endpoint. Accepts an optional branchId filter.
func (ac *AnalyticsController) DepartmentReport(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	report, err := ac.analyticsService.DepartmentReport(c, scope, c.Query("branchId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, report)
}

// PredictTrend endpoint
func (ac *AnalyticsController) PredictTrend(c *gin.Context) {
	var req model.PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid prediction request", err)
		return
	}
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	prediction, err := ac.analyticsService.PredictTrend(c, scope, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, prediction)
}

// Dashboard endpoint
func (ac *AnalyticsController) Dashboard(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	counts, err := ac.analyticsService.Dashboard(c, scope)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, counts)
}
