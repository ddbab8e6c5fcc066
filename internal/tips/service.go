package tips

import (
	"context"
	"sync"
	"time"

	"github.com/materna-cli/materna/internal/config"
	"github.com/materna-cli/materna/internal/errors"
	"github.com/materna-cli/materna/internal/logging"
	"github.com/materna-cli/materna/internal/model"
	"github.com/materna-cli/materna/internal/storage"
)

// Cache content type names, shared with the stored cache keys.
const (
	contentNutrition    = "nutrition"
	contentPosture      = "posture"
	contentStandUp      = "stand_up"
	contentRelaxation   = "relaxation"
	contentDailyTip     = "daily_tips"
	contentDietAnalysis = "diet_analysis"
)

// cacheRule says how content of one type is cached: grouped by pregnancy
// week or by date, with a TTL. A zero TTL means no caching.
type cacheRule struct {
	contentType string
	ttl         time.Duration
	byWeek      bool
}

// cacheRules sets the TTL and grouping per content kind. Weekly topics
// cache by pregnancy week, daily ones by date; relaxation is never cached.
var cacheRules = map[model.ReminderKind]cacheRule{
	model.KindNutrition:    {contentType: contentNutrition, ttl: 7 * 24 * time.Hour, byWeek: true},
	model.KindPosture:      {contentType: contentPosture, ttl: 7 * 24 * time.Hour, byWeek: true},
	model.KindPregnancyTip: {contentType: contentDailyTip, ttl: 24 * time.Hour},
	model.KindStandUp:      {contentType: contentStandUp, ttl: 24 * time.Hour},
	model.KindRelaxation:   {contentType: contentRelaxation},
}

// Service produces reminder content and diet analyses, caching generated
// results and falling back to static templates.
type Service struct {
	cache  *storage.TipCacheRepo
	diet   *storage.DietRepo
	client *Client

	mu        sync.Mutex
	callDay   string
	callCount int
}

// NewService creates a content service over the database.
func NewService(db *storage.DB) *Service {
	return &Service{
		cache:  storage.NewTipCacheRepo(db),
		diet:   storage.NewDietRepo(db),
		client: NewClient(),
	}
}

// HasProviders reports whether generated content is possible at all.
func (s *Service) HasProviders() bool {
	return s.client.HasProviders()
}

// ReminderContent returns the message body for a reminder of the given
// kind. Generated content is served from cache when fresh; any failure
// falls back to a static template, so this never blocks a notification.
func (s *Service) ReminderContent(ctx context.Context, kind model.ReminderKind, week int) (string, error) {
	rule, ok := cacheRules[kind]
	if !ok {
		return Fallback(kind, week), nil
	}

	key := s.cacheKey(rule, week)
	if key != "" {
		if entry, err := s.cache.Get(key, rule.ttl); err == nil {
			return entry.Content, nil
		}
	}

	if !s.client.HasProviders() || !s.takeCall() {
		return Fallback(kind, week), nil
	}

	content, provider, err := s.client.Chat(ctx, reminderPrompt(kind, week))
	if err != nil {
		logging.DebugLog("content generation failed",
			logging.KeyKind, string(kind),
			logging.KeyError, err)
		return Fallback(kind, week), nil
	}

	logging.DebugLog("content generated",
		logging.KeyKind, string(kind),
		logging.KeyProvider, provider)

	if key != "" {
		if err := s.cache.Set(key, content); err != nil {
			logging.Warn("failed to cache content", logging.KeyError, err)
		}
	}
	return content, nil
}

// AnalyzeDiet generates (or returns the cached) nutrition analysis for the
// meals logged on the given day. Unlike reminder content this is an
// explicit user action, so provider errors surface instead of falling back.
func (s *Service) AnalyzeDiet(ctx context.Context, day time.Time, week int) (string, error) {
	record, err := s.diet.GetDay(day)
	if err != nil {
		return "", err
	}

	foods := record.FoodSummary()
	if len(foods) == 0 {
		return "", errors.NewUserError(
			"no meals logged for this day",
			"Log a meal first with 'materna diet log'",
		)
	}

	key := model.TipCacheDateKey(contentDietAnalysis, day)
	if entry, err := s.cache.Get(key, 24*time.Hour); err == nil {
		return entry.Content, nil
	}

	if !s.client.HasProviders() {
		return "", errors.ErrNoProvider
	}

	analysis, provider, err := s.client.Chat(ctx, dietPrompt(foods, week))
	if err != nil {
		return "", err
	}

	logging.Info("diet analysis generated",
		logging.KeyProvider, provider,
		"foods", len(foods))

	if err := s.cache.Set(key, analysis); err != nil {
		logging.Warn("failed to cache analysis", logging.KeyError, err)
	}
	if err := s.diet.SetAnalysis(day, analysis); err != nil {
		return "", err
	}
	return analysis, nil
}

// PurgeCache drops all cached generated content.
func (s *Service) PurgeCache() error {
	return s.cache.Purge()
}

// cacheKey builds the storage key for a rule, or "" for uncached content.
func (s *Service) cacheKey(rule cacheRule, week int) string {
	if rule.ttl <= 0 {
		return ""
	}
	if rule.byWeek {
		return model.TipCacheWeekKey(rule.contentType, week)
	}
	return model.TipCacheDateKey(rule.contentType, time.Now())
}

// takeCall consumes one unit of the daily generation budget.
func (s *Service) takeCall() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := time.Now().Format("2006-01-02")
	if s.callDay != today {
		s.callDay = today
		s.callCount = 0
	}

	if s.callCount >= config.Global.Tips.MaxDailyCalls {
		return false
	}
	s.callCount++
	return true
}
