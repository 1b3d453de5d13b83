package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/lumoapps/habitpulse-engine/internal/adapters/handler/http"
	"github.com/lumoapps/habitpulse-engine/internal/adapters/handler/http/middleware"
	"github.com/lumoapps/habitpulse-engine/internal/adapters/repository"
	"github.com/lumoapps/habitpulse-engine/internal/core/domain"
	"github.com/lumoapps/habitpulse-engine/internal/core/services"
	"github.com/lumoapps/habitpulse-engine/internal/core/workers"
)

// testNow keeps analytics assertions deterministic: Saturday, June 15 2024.
var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	habitRepo      *repository.InMemoryHabitRepository
	completionRepo *repository.InMemoryCompletionRepository
	stackRepo      *repository.InMemoryStackRepository
	userRepo       *repository.InMemoryUserRepository
	dismissals     *repository.InMemoryDismissalStore
}

// setupRouter wires the full handler surface over in-memory stores. Identity
// comes from a stand-in for the auth middleware keyed on X-User-ID, so tests
// don't need to mint JWTs for every request.
func setupRouter() (*gin.Engine, *testEnv) {
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		habitRepo:      repository.NewInMemoryHabitRepository(),
		completionRepo: repository.NewInMemoryCompletionRepository(),
		stackRepo:      repository.NewInMemoryStackRepository(),
		userRepo:       repository.NewInMemoryUserRepository(),
		dismissals:     repository.NewInMemoryDismissalStore(),
	}

	worker := workers.NewStreakWorker(env.habitRepo, env.completionRepo)

	habitSvc := services.NewHabitService(env.habitRepo)
	completionSvc := services.NewCompletionService(env.completionRepo, env.habitRepo, worker)
	stackSvc := services.NewStackService(env.stackRepo, env.habitRepo)
	analyticsSvc := services.NewAnalyticsService(env.habitRepo, env.completionRepo, env.stackRepo, env.dismissals)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}
		c.Set(middleware.ContextUserIDKey, userID)
		c.Next()
	})

	group := r.Group("/api/v1")
	adapterHTTP.NewHabitHandler(habitSvc).RegisterRoutes(group)
	adapterHTTP.NewCompletionHandler(completionSvc).RegisterRoutes(group)
	adapterHTTP.NewStackHandler(stackSvc).RegisterRoutes(group)
	adapterHTTP.NewAnalyticsHandler(analyticsSvc).RegisterRoutes(group)

	return r, env
}

func doRequest(r *gin.Engine, method, path, userID, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}

func seedHabit(t *testing.T, env *testEnv, userID, name string) *domain.Habit {
	t.Helper()

	habit, err := domain.NewHabit(userID, domain.HabitParams{Name: name})
	require.NoError(t, err)
	require.NoError(t, env.habitRepo.Create(context.Background(), habit))
	return habit
}

// seedCompletions records one completion per day offset, counted back from
// testNow.
func seedCompletions(t *testing.T, env *testEnv, habit *domain.Habit, offsets ...int) {
	t.Helper()

	for _, off := range offsets {
		c := domain.NewHabitCompletion(habit.ID, habit.UserID, testNow.AddDate(0, 0, -off), 1, false)
		require.NoError(t, env.completionRepo.Create(context.Background(), c))
	}
}
