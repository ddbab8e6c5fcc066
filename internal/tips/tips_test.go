package tips

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/materna-cli/materna/internal/config"
	"github.com/materna-cli/materna/internal/errors"
	"github.com/materna-cli/materna/internal/model"
	"github.com/materna-cli/materna/internal/storage"
)

func setupTestDB(t *testing.T) *storage.DB {
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// withProvider points the global provider list at a test server and
// restores it afterwards. The server answers every chat completion with
// the given content.
func withProvider(t *testing.T, content string, calls *atomic.Int32) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%q}}]}`, content)
	}))
	t.Cleanup(server.Close)

	old := config.Global.Tips.Providers
	config.Global.Tips.Providers = []config.ProviderConfig{{
		Name:    "test",
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "test-model",
	}}
	t.Cleanup(func() { config.Global.Tips.Providers = old })
}

func withoutProviders(t *testing.T) {
	old := config.Global.Tips.Providers
	config.Global.Tips.Providers = nil
	t.Cleanup(func() { config.Global.Tips.Providers = old })
}

// =============================================================================
// Fallback Tests
// =============================================================================

func TestFallbackTemplates(t *testing.T) {
	for kind, want := range fallbackTemplates {
		assert.Equal(t, want, Fallback(kind, 0), "kind %s", kind)
	}
}

func TestFallbackUnknownKind(t *testing.T) {
	assert.Equal(t, "Time for a wellness break.", Fallback("mystery", 0))
}

func TestFallbackDailyTipByTrimester(t *testing.T) {
	got := Fallback(model.KindPregnancyTip, 30)
	assert.Contains(t, trimesterTips[3], got)

	// Same day picks the same tip
	assert.Equal(t, got, Fallback(model.KindPregnancyTip, 30))

	// Without a known week the generic template is used
	assert.Equal(t, fallbackTemplates[model.KindPregnancyTip], Fallback(model.KindPregnancyTip, 0))
}

// =============================================================================
// Service Tests
// =============================================================================

func TestReminderContentWithoutProviders(t *testing.T) {
	withoutProviders(t)
	svc := NewService(setupTestDB(t))

	content, err := svc.ReminderContent(context.Background(), model.KindNutrition, 20)
	require.NoError(t, err)
	assert.Equal(t, fallbackTemplates[model.KindNutrition], content)
}

func TestReminderContentUncachedKindFallsBack(t *testing.T) {
	withoutProviders(t)
	svc := NewService(setupTestDB(t))

	content, err := svc.ReminderContent(context.Background(), model.KindWater, 0)
	require.NoError(t, err)
	assert.Equal(t, fallbackTemplates[model.KindWater], content)
}

func TestReminderContentGeneratesAndCaches(t *testing.T) {
	var calls atomic.Int32
	withProvider(t, "Try a spinach salad with lentils today.", &calls)
	svc := NewService(setupTestDB(t))

	content, err := svc.ReminderContent(context.Background(), model.KindNutrition, 20)
	require.NoError(t, err)
	assert.Equal(t, "Try a spinach salad with lentils today.", content)
	assert.Equal(t, int32(1), calls.Load())

	// Second request for the same week is served from cache
	content, err = svc.ReminderContent(context.Background(), model.KindNutrition, 20)
	require.NoError(t, err)
	assert.Equal(t, "Try a spinach salad with lentils today.", content)
	assert.Equal(t, int32(1), calls.Load())
}

func TestReminderContentProviderFailureFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	old := config.Global.Tips.Providers
	config.Global.Tips.Providers = []config.ProviderConfig{{
		Name: "broken", BaseURL: server.URL, APIKey: "k", Model: "m",
	}}
	t.Cleanup(func() { config.Global.Tips.Providers = old })

	svc := NewService(setupTestDB(t))

	content, err := svc.ReminderContent(context.Background(), model.KindPosture, 12)
	require.NoError(t, err)
	assert.Equal(t, fallbackTemplates[model.KindPosture], content)
}

func TestReminderContentRespectsDailyBudget(t *testing.T) {
	var calls atomic.Int32
	withProvider(t, "generated", &calls)

	oldMax := config.Global.Tips.MaxDailyCalls
	config.Global.Tips.MaxDailyCalls = 0
	t.Cleanup(func() { config.Global.Tips.MaxDailyCalls = oldMax })

	svc := NewService(setupTestDB(t))

	content, err := svc.ReminderContent(context.Background(), model.KindNutrition, 20)
	require.NoError(t, err)
	assert.Equal(t, fallbackTemplates[model.KindNutrition], content)
	assert.Equal(t, int32(0), calls.Load())
}

func TestAnalyzeDietNoMeals(t *testing.T) {
	withoutProviders(t)
	svc := NewService(setupTestDB(t))

	_, err := svc.AnalyzeDiet(context.Background(), time.Now(), 20)
	require.Error(t, err)
	assert.True(t, errors.IsUserError(err))
}

func TestAnalyzeDietNoProvider(t *testing.T) {
	withoutProviders(t)
	db := setupTestDB(t)
	dietRepo := storage.NewDietRepo(db)

	day := time.Now()
	_, err := dietRepo.AddMeal(day, model.Meal{
		Type:  model.MealBreakfast,
		Time:  day,
		Foods: []string{"oatmeal", "banana"},
	})
	require.NoError(t, err)

	svc := NewService(db)
	_, err = svc.AnalyzeDiet(context.Background(), day, 20)
	assert.ErrorIs(t, err, errors.ErrNoProvider)
}

func TestAnalyzeDietGeneratesAndStores(t *testing.T) {
	var calls atomic.Int32
	withProvider(t, "Good protein intake. Add some leafy greens.", &calls)

	db := setupTestDB(t)
	dietRepo := storage.NewDietRepo(db)

	day := time.Now()
	_, err := dietRepo.AddMeal(day, model.Meal{
		Type:  model.MealLunch,
		Time:  day,
		Foods: []string{"chicken", "rice"},
	})
	require.NoError(t, err)

	svc := NewService(db)
	analysis, err := svc.AnalyzeDiet(context.Background(), day, 20)
	require.NoError(t, err)
	assert.Equal(t, "Good protein intake. Add some leafy greens.", analysis)

	// The analysis lands on the diet record
	record, err := dietRepo.GetDay(day)
	require.NoError(t, err)
	assert.Equal(t, analysis, record.Analysis)

	// Re-analyzing the same day is served from cache
	again, err := svc.AnalyzeDiet(context.Background(), day, 20)
	require.NoError(t, err)
	assert.Equal(t, analysis, again)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPurgeCache(t *testing.T) {
	var calls atomic.Int32
	withProvider(t, "generated tip", &calls)

	db := setupTestDB(t)
	svc := NewService(db)

	_, err := svc.ReminderContent(context.Background(), model.KindNutrition, 20)
	require.NoError(t, err)
	require.NoError(t, svc.PurgeCache())

	_, err = svc.ReminderContent(context.Background(), model.KindNutrition, 20)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientChatNoProviders(t *testing.T) {
	withoutProviders(t)
	client := NewClient()

	assert.False(t, client.HasProviders())
	_, _, err := client.Chat(context.Background(), "hello")
	assert.ErrorIs(t, err, errors.ErrNoProvider)
}

func TestClientChatTriesProvidersInOrder(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"down"}}`, http.StatusInternalServerError)
	}))
	t.Cleanup(broken.Close)

	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"from backup"}}]}`)
	}))
	t.Cleanup(working.Close)

	old := config.Global.Tips.Providers
	config.Global.Tips.Providers = []config.ProviderConfig{
		{Name: "primary", BaseURL: broken.URL, APIKey: "k", Model: "m"},
		{Name: "backup", BaseURL: working.URL, APIKey: "k", Model: "m"},
	}
	t.Cleanup(func() { config.Global.Tips.Providers = old })

	client := NewClient()
	content, provider, err := client.Chat(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "from backup", content)
	assert.Equal(t, "backup", provider)
}

func TestClientChatAllProvidersFail(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"down"}}`, http.StatusInternalServerError)
	}))
	t.Cleanup(broken.Close)

	old := config.Global.Tips.Providers
	config.Global.Tips.Providers = []config.ProviderConfig{
		{Name: "only", BaseURL: broken.URL, APIKey: "k", Model: "m"},
	}
	t.Cleanup(func() { config.Global.Tips.Providers = old })

	client := NewClient()
	_, _, err := client.Chat(context.Background(), "hello")
	assert.ErrorIs(t, err, errors.ErrProviderFailed)
}
