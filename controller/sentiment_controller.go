package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Aisenh037/MBC-sub002/errors"
	"github.com/Aisenh037/MBC-sub002/model"
	"github.com/Aisenh037/MBC-sub002/service"
	"github.com/Aisenh037/MBC-sub002/util"
)

type SentimentController struct {
	sentimentService service.ISentimentService
}

func NewSentimentController(sentimentService service.ISentimentService) *SentimentController {
	return &SentimentController{sentimentService: sentimentService}
}

// AnalyzeFeedback endpoint. Scores the submitted comment and stores it for
// later reporting.
func (sc *SentimentController) AnalyzeFeedback(c *gin.Context) {
	var feedback model.Feedback
	if err := c.ShouldBindJSON(&feedback); err != nil {
		if details := util.FieldErrors(err); details != nil {
			util.RespondValidationError(c, details)
			return
		}
		util.RespondWithError(c, http.StatusBadRequest, "Invalid feedback data", apperrors.ErrInvalidFeedbackData)
		return
	}
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	analyzed, err := sc.sentimentService.AnalyzeFeedback(c, scope, feedback)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusCreated, analyzed)
}

// SentimentReport endpoint. Accepts optional "category", "from" and "to"
// query filters; dates are RFC3339 or plain YYYY-MM-DD.
func (sc *SentimentController) SentimentReport(c *gin.Context) {
	scope, ok := requestScope(c)
	if !ok {
		return
	}

	from, err := parseDateParam(c.Query("from"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid from date", err)
		return
	}
	to, err := parseDateParam(c.Query("to"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid to date", err)
		return
	}

	report, err := sc.sentimentService.Report(c, scope, c.Query("category"), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	util.RespondOK(c, http.StatusOK, report)
}

func parseDateParam(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
