package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/Aisenh037/MBC-sub002/auth"
	"github.com/Aisenh037/MBC-sub002/cache"
	apperrors "github.com/Aisenh037/MBC-sub002/errors"
	logger "github.com/Aisenh037/MBC-sub002/logging"
	"github.com/Aisenh037/MBC-sub002/model"
	"github.com/Aisenh037/MBC-sub002/util"
)

// FeedbackRepository is the persistence slice the sentiment flow needs.
type FeedbackRepository interface {
	CreateFeedback(ctx context.Context, feedback model.Feedback) (string, error)
	ListFeedback(ctx context.Context, scope auth.ScopedQuery, category string, from, to time.Time) ([]*model.Feedback, error)
}

type ISentimentService interface {
	AnalyzeFeedback(ctx context.Context, scope auth.ScopedQuery, feedback model.Feedback) (*model.Feedback, error)
	Report(ctx context.Context, scope auth.ScopedQuery, category string, from, to time.Time) (*model.SentimentReport, error)
}

// SentimentService scores free-text feedback with a word lexicon and
// aggregates the stored results into periodic reports.
type SentimentService struct {
	feedbackRepo   FeedbackRepository
	validationUtil *util.ValidationUtil
	cache          *cache.Cache
}

var _ ISentimentService = &SentimentService{}

func NewSentimentService(feedbackRepo FeedbackRepository, validationUtil *util.ValidationUtil, cacheSvc *cache.Cache) *SentimentService {
	return &SentimentService{
		feedbackRepo:   feedbackRepo,
		validationUtil: validationUtil,
		cache:          cacheSvc,
	}
}

// AnalyzeFeedback scores the comment, stores it under the caller's
// institution and returns the annotated record.
func (s *SentimentService) AnalyzeFeedback(ctx context.Context, scope auth.ScopedQuery, feedback model.Feedback) (*model.Feedback, error) {
	if details := s.validationUtil.ValidateStruct(feedback); details != nil {
		logger.Warn("Feedback rejected by validation", zap.Any("details", details))
		return nil, apperrors.ErrInvalidFeedbackData
	}

	if feedback.Source == "" {
		feedback.Source = "unknown"
	}
	if feedback.Category == "" {
		feedback.Category = "general"
	}
	if !scope.Global {
		feedback.InstitutionID = scope.InstitutionID
	}

	score := scoreSentiment(feedback.Text)
	feedback.Score = score
	feedback.Classification = classifySentiment(score)
	feedback.Confidence = math.Min(math.Abs(score)*2, 1)
	feedback.CreatedAt = time.Now()

	feedbackID, err := s.feedbackRepo.CreateFeedback(ctx, feedback)
	if err != nil {
		return nil, err
	}
	feedback.ID = feedbackID

	s.invalidate(ctx)
	return &feedback, nil
}

// Report aggregates the feedback in the window. An empty window covers
// everything stored for the caller's scope.
func (s *SentimentService) Report(ctx context.Context, scope auth.ScopedQuery, category string, from, to time.Time) (*model.SentimentReport, error) {
	var report model.SentimentReport
	key := cache.EntityKey("sentiment", "report", scopeKeyPart(scope), category,
		dayStamp(from), dayStamp(to))
	_, err := s.cache.GetOrSet(ctx, key, cache.TTLMedium, &report,
		func(ctx context.Context) (interface{}, error) {
			feedback, err := s.feedbackRepo.ListFeedback(ctx, scope, category, from, to)
			if err != nil {
				return nil, err
			}
			return buildSentimentReport(feedback), nil
		})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *SentimentService) invalidate(ctx context.Context) {
	for _, pattern := range []string{"sentiment:*"} {
		if _, err := s.cache.InvalidatePattern(ctx, pattern); err != nil {
			logger.Warn("Sentiment cache invalidation failed",
				zap.Error(err), zap.String("pattern", pattern))
		}
	}
}

func dayStamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

func buildSentimentReport(feedback []*model.Feedback) model.SentimentReport {
	report := model.SentimentReport{Distribution: map[string]int{}}
	if len(feedback) == 0 {
		return report
	}

	report.TotalFeedback = len(feedback)
	report.Start = feedback[0].CreatedAt
	report.End = feedback[0].CreatedAt

	sum := 0.0
	var posSum, negSum float64
	var posN, negN int
	daily := map[string][]float64{}

	for _, fb := range feedback {
		if fb.CreatedAt.Before(report.Start) {
			report.Start = fb.CreatedAt
		}
		if fb.CreatedAt.After(report.End) {
			report.End = fb.CreatedAt
		}

		report.Distribution[fb.Classification]++
		sum += fb.Score
		if fb.Score > positiveThreshold {
			posSum += fb.Score
			posN++
		}
		if fb.Score < negativeThreshold {
			negSum += fb.Score
			negN++
		}
		day := dayStamp(fb.CreatedAt)
		daily[day] = append(daily[day], fb.Score)
	}

	report.AverageScore = sum / float64(len(feedback))
	if posN > 0 {
		report.AveragePositive = posSum / float64(posN)
	}
	if negN > 0 {
		report.AverageNegative = negSum / float64(negN)
	}

	report.DailyAverage = make(map[string]float64, len(daily))
	days := make([]string, 0, len(daily))
	for day, scores := range daily {
		total := 0.0
		for _, v := range scores {
			total += v
		}
		report.DailyAverage[day] = total / float64(len(scores))
		days = append(days, day)
	}

	// Day stamps sort chronologically; the trend compares the last day's
	// average against the first's.
	sort.Strings(days)
	first := report.DailyAverage[days[0]]
	last := report.DailyAverage[days[len(days)-1]]
	switch {
	case last > first:
		report.Trend = "improving"
	case last < first:
		report.Trend = "declining"
	default:
		report.Trend = "stable"
	}
	return report
}

const (
	positiveThreshold = 0.1
	negativeThreshold = -0.1
)

// Compact opinion lexicon tuned to course and campus feedback.
var positiveWords = wordSet(
	"good", "great", "excellent", "amazing", "awesome", "helpful", "clear",
	"engaging", "interesting", "enjoyable", "love", "loved", "like", "liked",
	"best", "fantastic", "wonderful", "useful", "supportive", "friendly",
	"organized", "fair", "easy", "fun", "inspiring", "thorough", "patient",
)

var negativeWords = wordSet(
	"bad", "poor", "terrible", "awful", "horrible", "confusing", "boring",
	"useless", "unhelpful", "hate", "hated", "dislike", "disliked", "worst",
	"unfair", "disorganized", "rude", "slow", "hard", "difficult", "unclear",
	"frustrating", "stressful", "dull", "late", "broken",
)

// Negators flip the polarity of the word that follows them.
var negatorWords = wordSet(
	"not", "no", "never", "hardly", "cannot", "cant", "dont", "didnt",
	"doesnt", "isnt", "wasnt", "werent", "wont",
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// scoreSentiment rates text in [-1, 1]: each lexicon word contributes +1 or
// -1, a preceding negator flips it, and the sum is normalized by the number
// of opinion words found. Text without opinion words scores zero.
func scoreSentiment(text string) float64 {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})

	sum := 0.0
	matched := 0
	negated := false
	for _, token := range tokens {
		token = strings.ReplaceAll(token, "'", "")
		if _, ok := negatorWords[token]; ok {
			negated = true
			continue
		}

		polarity := 0.0
		if _, ok := positiveWords[token]; ok {
			polarity = 1
		} else if _, ok := negativeWords[token]; ok {
			polarity = -1
		}
		if polarity != 0 {
			if negated {
				polarity = -polarity
			}
			sum += polarity
			matched++
		}
		negated = false
	}

	if matched == 0 {
		return 0
	}
	return sum / float64(matched)
}

func classifySentiment(score float64) string {
	switch {
	case score > positiveThreshold:
		return "positive"
	case score < negativeThreshold:
		return "negative"
	}
	return "neutral"
}
