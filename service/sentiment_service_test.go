package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aisenh037/MBC-sub002/auth"
	"github.com/Aisenh037/MBC-sub002/cache"
	apperrors "github.com/Aisenh037/MBC-sub002/errors"
	"github.com/Aisenh037/MBC-sub002/model"
	"github.com/Aisenh037/MBC-sub002/service"
	"github.com/Aisenh037/MBC-sub002/test/mock"
	"github.com/Aisenh037/MBC-sub002/util"
)

type fakeFeedbackRepo struct {
	stored    []model.Feedback
	listCalls int
}

func (f *fakeFeedbackRepo) CreateFeedback(ctx context.Context, feedback model.Feedback) (string, error) {
	f.stored = append(f.stored, feedback)
	return "fb-1", nil
}

func (f *fakeFeedbackRepo) ListFeedback(ctx context.Context, scope auth.ScopedQuery, category string, from, to time.Time) ([]*model.Feedback, error) {
	f.listCalls++
	out := make([]*model.Feedback, 0, len(f.stored))
	for i := range f.stored {
		fb := f.stored[i]
		if category != "" && fb.Category != category {
			continue
		}
		out = append(out, &fb)
	}
	return out, nil
}

func newSentiment(repo *fakeFeedbackRepo, store cache.Store) *service.SentimentService {
	c := cache.New(store, "mbc", cache.DefaultTTLs())
	return service.NewSentimentService(repo, util.NewValidationUtil(), c)
}

func feedbackAt(score float64, classification string, day time.Time) model.Feedback {
	return model.Feedback{
		Text:           "recorded earlier",
		Category:       "general",
		Score:          score,
		Classification: classification,
		CreatedAt:      day,
	}
}

func TestAnalyzeFeedbackPositive(t *testing.T) {
	repo := &fakeFeedbackRepo{}
	svc := newSentiment(repo, mock.NewStore())
	scope := auth.ScopedQuery{InstitutionID: "inst-1"}

	analyzed, err := svc.AnalyzeFeedback(context.Background(), scope,
		model.Feedback{Text: "The lectures were great and really helpful"})
	require.NoError(t, err)

	assert.Equal(t, "fb-1", analyzed.ID)
	assert.InDelta(t, 1.0, analyzed.Score, 0.001)
	assert.Equal(t, "positive", analyzed.Classification)
	assert.InDelta(t, 1.0, analyzed.Confidence, 0.001)
	// Unset source and category take their defaults, the institution comes
	// from the caller's scope.
	assert.Equal(t, "unknown", analyzed.Source)
	assert.Equal(t, "general", analyzed.Category)
	assert.Equal(t, "inst-1", analyzed.InstitutionID)
	require.Len(t, repo.stored, 1)
}

func TestAnalyzeFeedbackNegationFlipsPolarity(t *testing.T) {
	svc := newSentiment(&fakeFeedbackRepo{}, mock.NewStore())

	analyzed, err := svc.AnalyzeFeedback(context.Background(), auth.ScopedQuery{InstitutionID: "inst-1"},
		model.Feedback{Text: "The tutorials were not helpful"})
	require.NoError(t, err)
	assert.InDelta(t, -1.0, analyzed.Score, 0.001)
	assert.Equal(t, "negative", analyzed.Classification)
}

func TestAnalyzeFeedbackNeutralWithoutOpinionWords(t *testing.T) {
	svc := newSentiment(&fakeFeedbackRepo{}, mock.NewStore())

	analyzed, err := svc.AnalyzeFeedback(context.Background(), auth.ScopedQuery{InstitutionID: "inst-1"},
		model.Feedback{Text: "The exam covered chapters one through five"})
	require.NoError(t, err)
	assert.Zero(t, analyzed.Score)
	assert.Equal(t, "neutral", analyzed.Classification)
	assert.Zero(t, analyzed.Confidence)
}

func TestAnalyzeFeedbackValidation(t *testing.T) {
	repo := &fakeFeedbackRepo{}
	svc := newSentiment(repo, mock.NewStore())

	_, err := svc.AnalyzeFeedback(context.Background(), auth.ScopedQuery{InstitutionID: "inst-1"},
		model.Feedback{Source: "survey"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidFeedbackData)
	assert.Empty(t, repo.stored)
}

func TestSentimentReportAggregates(t *testing.T) {
	day1 := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 21, 10, 0, 0, 0, time.UTC)
	repo := &fakeFeedbackRepo{stored: []model.Feedback{
		feedbackAt(-1, "negative", day1),
		feedbackAt(1, "positive", day2),
		feedbackAt(0.5, "positive", day2),
	}}
	svc := newSentiment(repo, mock.NewStore())

	report, err := svc.Report(context.Background(), auth.ScopedQuery{InstitutionID: "inst-1"},
		"", time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalFeedback)
	assert.Equal(t, map[string]int{"negative": 1, "positive": 2}, report.Distribution)
	assert.InDelta(t, 0.1667, report.AverageScore, 0.001)
	assert.InDelta(t, 0.75, report.AveragePositive, 0.001)
	assert.InDelta(t, -1.0, report.AverageNegative, 0.001)
	assert.InDelta(t, -1.0, report.DailyAverage["2026-08-20"], 0.001)
	assert.InDelta(t, 0.75, report.DailyAverage["2026-08-21"], 0.001)
	assert.Equal(t, "improving", report.Trend)
	assert.True(t, report.Start.Equal(day1))
	assert.True(t, report.End.Equal(day2))
}

func TestSentimentReportEmpty(t *testing.T) {
	svc := newSentiment(&fakeFeedbackRepo{}, mock.NewStore())

	report, err := svc.Report(context.Background(), auth.ScopedQuery{InstitutionID: "inst-1"},
		"", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Zero(t, report.TotalFeedback)
	assert.Empty(t, report.Distribution)
	assert.Empty(t, report.Trend)
}

func TestSentimentReportIsCached(t *testing.T) {
	day := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	repo := &fakeFeedbackRepo{stored: []model.Feedback{feedbackAt(1, "positive", day)}}
	svc := newSentiment(repo, mock.NewStore())
	scope := auth.ScopedQuery{InstitutionID: "inst-1"}

	_, err := svc.Report(context.Background(), scope, "", time.Time{}, time.Time{})
	require.NoError(t, err)
	_, err = svc.Report(context.Background(), scope, "", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)
}

func TestAnalyzeFeedbackInvalidatesReports(t *testing.T) {
	day := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	repo := &fakeFeedbackRepo{stored: []model.Feedback{feedbackAt(1, "positive", day)}}
	store := mock.NewStore()
	svc := newSentiment(repo, store)
	scope := auth.ScopedQuery{InstitutionID: "inst-1"}

	_, err := svc.Report(context.Background(), scope, "", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	_, err = svc.AnalyzeFeedback(context.Background(), scope, model.Feedback{Text: "boring lecture"})
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
}
