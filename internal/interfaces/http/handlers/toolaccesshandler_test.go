package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accessapp "luminara/internal/application/access"
	"luminara/internal/domain/access"
	"luminara/internal/domain/subscription"
	"luminara/internal/shared/biztime"
	"luminara/internal/shared/errors"
	"luminara/internal/shared/logger"
)

// nopLogger is a no-op logger for testing.
type nopLogger struct{}

func newNopLogger() logger.Interface { return &nopLogger{} }

func (l *nopLogger) Debug(msg string, args ...any)                   {}
func (l *nopLogger) Info(msg string, args ...any)                    {}
func (l *nopLogger) Warn(msg string, args ...any)                    {}
func (l *nopLogger) Error(msg string, args ...any)                   {}
func (l *nopLogger) With(args ...any) logger.Interface               { return l }
func (l *nopLogger) Named(name string) logger.Interface              { return l }
func (l *nopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (l *nopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (l *nopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (l *nopLogger) Errorw(msg string, keysAndValues ...interface{}) {}

type fixedTierResolver struct {
	tier subscription.Tier
	err  error
}

func (r *fixedTierResolver) Resolve(ctx context.Context, userID uint) (subscription.Tier, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.tier, nil
}

// fakeUsageRepo serves counts from in-memory maps keyed by tool name.
type fakeUsageRepo struct {
	toolCounts    map[string]int
	typeCounts    map[string]int
	conversations int
	err           error
}

func (f *fakeUsageRepo) CountByTool(ctx context.Context, userID uint, toolName string, start, end time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.toolCounts[toolName], nil
}

func (f *fakeUsageRepo) CountByType(ctx context.Context, userID uint, toolType string, start, end time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.typeCounts[toolType], nil
}

func (f *fakeUsageRepo) CountAllTools(ctx context.Context, userID uint, start, end time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	total := 0
	for _, count := range f.toolCounts {
		total += count
	}
	return total, nil
}

func (f *fakeUsageRepo) CountConversations(ctx context.Context, userID uint, start, end time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.conversations, nil
}

func newAccessTestHandler(resolver accessapp.TierResolver, usage *fakeUsageRepo) *ToolAccessHandler {
	log := newNopLogger()
	aggregator := accessapp.NewUsageAggregator(usage, log)
	service := accessapp.NewToolAccessService(
		access.DefaultTable(), access.DefaultCheckers(), resolver, aggregator, log)
	stats := accessapp.NewUsageStatsService(
		access.DefaultTable(), resolver, aggregator, log, biztime.NowUTC)
	return NewToolAccessHandler(service, stats, log)
}

func performAuthed(handler gin.HandlerFunc, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	c.Request = req
	c.Set("user_id", uint(1))
	c.Set("user_sid", "usr_test00000001")

	handler(c)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCheckAllowed(t *testing.T) {
	handler := newAccessTestHandler(&fixedTierResolver{tier: subscription.TierMaster}, &fakeUsageRepo{})

	w := performAuthed(handler.Check, http.MethodPost, "/api/tools/check",
		`{"tool":"tarot_reading","params":{"spread_type":"celtic_cross"}}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["allowed"])
	assert.Nil(t, data["prompt"])
}

func TestCheckDeniedByTier(t *testing.T) {
	handler := newAccessTestHandler(&fixedTierResolver{tier: subscription.TierFreeTrial}, &fakeUsageRepo{})

	w := performAuthed(handler.Check, http.MethodPost, "/api/tools/check",
		`{"tool":"dream_interpreter"}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, false, data["allowed"])
	assert.Equal(t, string(subscription.TierSeeker), data["upgrade_required"])
	assert.Contains(t, data["prompt"], subscription.TierSeeker.DisplayName())
}

func TestCheckPromptLocalized(t *testing.T) {
	handler := newAccessTestHandler(&fixedTierResolver{tier: subscription.TierFreeTrial}, &fakeUsageRepo{})

	t.Run("from Accept-Language", func(t *testing.T) {
		w := performAuthed(handler.Check, http.MethodPost, "/api/tools/check",
			`{"tool":"dream_interpreter"}`, map[string]string{"Accept-Language": "es-MX,es;q=0.9"})

		data := decodeBody(t, w)["data"].(map[string]any)
		prompt := data["prompt"].(string)
		assert.NotContains(t, prompt, "Upgrade to")
		assert.Contains(t, prompt, subscription.TierSeeker.DisplayName())
	})

	t.Run("user locale wins", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/tools/check",
			bytes.NewBufferString(`{"tool":"dream_interpreter"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Request.Header.Set("Accept-Language", "en")
		c.Set("user_id", uint(1))
		c.Set("user_locale", "pt")

		handler.Check(c)

		data := decodeBody(t, w)["data"].(map[string]any)
		assert.NotContains(t, data["prompt"], "Upgrade to")
	})
}

func TestCheckDeniedByQuota(t *testing.T) {
	handler := newAccessTestHandler(
		&fixedTierResolver{tier: subscription.TierSeeker},
		&fakeUsageRepo{toolCounts: map[string]int{access.ToolVoiceGeneration: 50}})

	w := performAuthed(handler.Check, http.MethodPost, "/api/tools/check",
		`{"tool":"voice_generation","params":{"voice_id":"aurora"}}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, false, data["allowed"])
	assert.Equal(t, float64(50), data["current_usage"])
	assert.Equal(t, float64(50), data["limit"])
	assert.NotEmpty(t, data["resets_at"])
	assert.NotEmpty(t, data["prompt"])
}

func TestCheckUnavailable(t *testing.T) {
	handler := newAccessTestHandler(
		&fixedTierResolver{tier: subscription.TierSeeker},
		&fakeUsageRepo{err: assertErr{}})

	w := performAuthed(handler.Check, http.MethodPost, "/api/tools/check",
		`{"tool":"voice_generation"}`, nil)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

type assertErr struct{}

func (assertErr) Error() string { return "store offline" }

func TestCheckResolverUnavailable(t *testing.T) {
	handler := newAccessTestHandler(
		&fixedTierResolver{err: errors.NewUnavailableError("subscription lookup failed")},
		&fakeUsageRepo{})

	w := performAuthed(handler.Check, http.MethodPost, "/api/tools/check",
		`{"tool":"tarot_reading"}`, nil)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCheckValidation(t *testing.T) {
	handler := newAccessTestHandler(&fixedTierResolver{tier: subscription.TierSeeker}, &fakeUsageRepo{})

	t.Run("missing tool", func(t *testing.T) {
		w := performAuthed(handler.Check, http.MethodPost, "/api/tools/check", `{}`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad body", func(t *testing.T) {
		w := performAuthed(handler.Check, http.MethodPost, "/api/tools/check", `{not json`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAccessActions(t *testing.T) {
	handler := newAccessTestHandler(&fixedTierResolver{tier: subscription.TierFreeTrial}, &fakeUsageRepo{})

	t.Run("available", func(t *testing.T) {
		w := performAuthed(handler.Access, http.MethodPost, "/api/tools/access", `{"action":"available"}`, nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeBody(t, w)["data"].(map[string]any)
		tools := data["tools"].([]any)
		assert.Len(t, tools, 7)
	})

	t.Run("info", func(t *testing.T) {
		w := performAuthed(handler.Access, http.MethodPost, "/api/tools/access",
			`{"action":"info","tool":"tarot_reading"}`, nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeBody(t, w)["data"].(map[string]any)
		assert.Equal(t, "tarot_reading", data["name"])
	})

	t.Run("info unknown tool", func(t *testing.T) {
		w := performAuthed(handler.Access, http.MethodPost, "/api/tools/access",
			`{"action":"info","tool":"crystal_ball"}`, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("default action is check", func(t *testing.T) {
		w := performAuthed(handler.Access, http.MethodPost, "/api/tools/access",
			`{"tool":"breathing_exercise"}`, nil)
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeBody(t, w)["data"].(map[string]any)
		assert.Equal(t, true, data["allowed"])
	})

	t.Run("unknown action", func(t *testing.T) {
		w := performAuthed(handler.Access, http.MethodPost, "/api/tools/access",
			`{"action":"destroy"}`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetUsageStats(t *testing.T) {
	handler := newAccessTestHandler(
		&fixedTierResolver{tier: subscription.TierFreeTrial},
		&fakeUsageRepo{
			toolCounts:    map[string]int{access.ToolTarotReading: 2},
			conversations: 1,
		})

	w := performAuthed(handler.GetUsageStats, http.MethodGet, "/api/usage/stats", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, string(subscription.TierFreeTrial), data["tier"])
	assert.NotEmpty(t, data["tools"])
	conversations := data["conversations"].(map[string]any)
	assert.Equal(t, float64(1), conversations["used"])
	assert.Equal(t, float64(3), conversations["limit"])

	limits := data["limits"].(map[string]any)
	assert.Equal(t, float64(10), limits["daily_tool_calls"])
	assert.Equal(t, float64(3), limits["voice_generations_per_day"])

	toolCalls := data["tool_calls"].(map[string]any)
	daily := toolCalls["daily"].(map[string]any)
	assert.Equal(t, float64(2), daily["used"])
	assert.Equal(t, float64(10), daily["limit"])
}
