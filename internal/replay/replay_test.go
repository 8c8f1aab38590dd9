package replay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ErenKizilay/parroton/internal/apperr"
	"github.com/ErenKizilay/parroton/internal/config"
	"github.com/ErenKizilay/parroton/internal/httpclient"
	"github.com/ErenKizilay/parroton/internal/model"
	"github.com/ErenKizilay/parroton/internal/store"
)

func newTestRepo(t *testing.T) *store.Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "replay.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, store.AutoMigrate(db))
	repo := store.New(db)
	t.Cleanup(repo.Close)
	return repo
}

func newTestClient() *httpclient.Client {
	return httpclient.New(&config.ClientConfig{RequestTimeout: 5, ConnectTimeout: 2})
}

func waitFinished(t *testing.T, repo *store.Repository, customerID, testCaseID, runID string) *model.Run {
	t.Helper()
	ctx := context.Background()
	require.Eventually(t, func() bool {
		run, err := repo.Runs().Get(ctx, customerID, testCaseID, runID)
		return err == nil && run.Status == model.RunFinished
	}, 5*time.Second, 20*time.Millisecond)
	run, err := repo.Runs().Get(ctx, customerID, testCaseID, runID)
	require.NoError(t, err)
	return run
}

type recordedRequest struct {
	path string
	auth string
	body map[string]any
}

func TestStart_UnknownTestCase(t *testing.T) {
	repo := newTestRepo(t)

	_, err := New(repo, newTestClient()).Start(context.Background(), "c1", "missing")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestReplay_ThreadsContextAcrossActions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var mu sync.Mutex
	var recorded []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}
		mu.Lock()
		recorded = append(recorded, recordedRequest{path: r.URL.Path, auth: r.Header.Get("Authorization"), body: body})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/login"):
			_, _ = w.Write([]byte(`{"token":"tok-999","account":{"id":"acc-55"}}`))
		case strings.Contains(r.URL.Path, "/accounts/"):
			_, _ = w.Write([]byte(`{"boards":[{"id":"b-77"}]}`))
		default:
			// echo the board id back so assertions can compare it
			data, _ := json.Marshal(map[string]any{"card": map[string]any{"id": "card-1"}, "board": body["boardId"]})
			_, _ = w.Write(data)
		}
	}))
	defer server.Close()

	testCase, err := repo.TestCases().Create(ctx, model.NewTestCase("c1", "board flow", ""))
	require.NoError(t, err)

	login := model.NewAction("c1", testCase.ID, 0, "login_0", server.URL+"/auth/login", "POST", "application/json")
	boards := model.NewAction("c1", testCase.ID, 1, "boards_1", server.URL+"/accounts/$.login_0.output.account.id/boards", "GET", "")
	card := model.NewAction("c1", testCase.ID, 2, "card_2", server.URL+"/cards", "POST", "application/json")
	require.NoError(t, repo.Actions().BatchCreate(ctx, []*model.Action{login, boards, card}))

	require.NoError(t, repo.Parameters().BatchCreate(ctx, []*model.Parameter{
		model.NewParameter(login, model.ParameterInput, model.LocationBody, "$.username", "ada", ""),
		model.NewParameter(boards, model.ParameterInput, model.LocationQuery, "expand", "Sprints", ""),
		model.NewParameter(card, model.ParameterInput, model.LocationBody, "$.boardId", "b-1", "$.boards_1.output.boards[0].id"),
		model.NewParameter(card, model.ParameterInput, model.LocationHeader, "x-request-source", "replayer", ""),
	}))

	_, err = repo.AuthProviders().Create(ctx, model.NewAuthenticationProvider("c1", "test env", server.URL,
		model.AuthHeaders{
			"Authorization": {Value: "Bearer xyz"},
			"x-stale":       {Value: "nope", Disabled: true},
		}, model.StringSet{testCase.ID}))
	require.NoError(t, err)

	_, err = repo.Assertions().Put(ctx, model.NewAssertion("c1", testCase.ID,
		model.ItemFromExpression("$.card_2.input.boardId"),
		model.ItemFromExpression("$.card_2.output.board"),
		model.EqualTo, false))
	require.NoError(t, err)

	run, err := New(repo, newTestClient()).Start(ctx, "c1", testCase.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunInProgress, run.Status)

	finished := waitFinished(t, repo, "c1", testCase.ID, run.ID)
	require.Len(t, finished.AssertionResults, 1)
	assert.True(t, finished.AssertionResults[0].Success, finished.AssertionResults[0].Message)
	assert.NotZero(t, finished.FinishedAt)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, recorded, 3)
	// the login response's server-assigned account id flows into the next URL
	assert.Equal(t, "/accounts/acc-55/boards", recorded[1].path)
	// the listed board id flows into the card request body
	assert.Equal(t, "b-77", recorded[2].body["boardId"])
	for _, req := range recorded {
		assert.Equal(t, "Bearer xyz", req.auth, req.path)
	}

	// execution records are written on detached goroutines
	assert.Eventually(t, func() bool {
		executions, err := repo.ActionExecutions().List(ctx, "c1", testCase.ID, run.ID)
		return err == nil && len(executions) == 3
	}, 5*time.Second, 20*time.Millisecond)

	executions, err := repo.ActionExecutions().List(ctx, "c1", testCase.ID, run.ID)
	require.NoError(t, err)
	for _, execution := range executions {
		assert.Equal(t, http.StatusOK, execution.StatusCode)
		assert.Empty(t, execution.Error)
	}
}

func TestReplay_ActionFailureDoesNotAbortRun(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/broken") {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":"upstream"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	testCase, err := repo.TestCases().Create(ctx, model.NewTestCase("c1", "resilient", ""))
	require.NoError(t, err)
	require.NoError(t, repo.Actions().BatchCreate(ctx, []*model.Action{
		model.NewAction("c1", testCase.ID, 0, "broken_0", server.URL+"/broken", "GET", ""),
		model.NewAction("c1", testCase.ID, 1, "healthy_1", server.URL+"/healthy", "GET", ""),
	}))

	run, err := New(repo, newTestClient()).Start(ctx, "c1", testCase.ID)
	require.NoError(t, err)
	waitFinished(t, repo, "c1", testCase.ID, run.ID)

	assert.Eventually(t, func() bool {
		executions, err := repo.ActionExecutions().List(ctx, "c1", testCase.ID, run.ID)
		return err == nil && len(executions) == 2
	}, 5*time.Second, 20*time.Millisecond)

	executions, err := repo.ActionExecutions().List(ctx, "c1", testCase.ID, run.ID)
	require.NoError(t, err)
	byAction := map[string]*model.ActionExecution{}
	for _, execution := range executions {
		byAction[execution.ActionID] = execution
	}
	actions, err := repo.Actions().List(ctx, "c1", testCase.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, byAction[actions[0].ID].StatusCode)
	assert.NotEmpty(t, byAction[actions[0].ID].Error)
	assert.Equal(t, http.StatusOK, byAction[actions[1].ID].StatusCode)
	assert.Empty(t, byAction[actions[1].ID].Error)
}

func TestReplay_FailedAssertionRecordsMessage(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"created"}`))
	}))
	defer server.Close()

	testCase, err := repo.TestCases().Create(ctx, model.NewTestCase("c1", "failing", ""))
	require.NoError(t, err)
	require.NoError(t, repo.Actions().BatchCreate(ctx, []*model.Action{
		model.NewAction("c1", testCase.ID, 0, "create_0", server.URL+"/things", "POST", "application/json"),
	}))
	_, err = repo.Assertions().Put(ctx, model.NewAssertion("c1", testCase.ID,
		model.ItemFromValue("expected"),
		model.ItemFromExpression("$.create_0.output.status"),
		model.EqualTo, false))
	require.NoError(t, err)

	run, err := New(repo, newTestClient()).Start(ctx, "c1", testCase.ID)
	require.NoError(t, err)

	finished := waitFinished(t, repo, "c1", testCase.ID, run.ID)
	require.Len(t, finished.AssertionResults, 1)
	assert.False(t, finished.AssertionResults[0].Success)
	assert.NotEmpty(t, finished.AssertionResults[0].Message)
}

func TestResolveURL(t *testing.T) {
	execCtx := map[string]any{
		"login_0": map[string]any{
			"output": map[string]any{"account": map[string]any{"id": "acc-55"}},
		},
	}

	got := resolveURL("https://api.example.com/accounts/$.login_0.output.account.id/boards", execCtx)
	assert.Equal(t, "https://api.example.com/accounts/acc-55/boards", got)

	// an expression that no longer resolves collapses to an empty segment
	got = resolveURL("https://api.example.com/accounts/$.gone_9.output.id/boards", execCtx)
	assert.Equal(t, "https://api.example.com/accounts//boards", got)
}
