package logic

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ErenKizilay/parroton/internal/config"
	"github.com/ErenKizilay/parroton/internal/httpclient"
	"github.com/ErenKizilay/parroton/internal/model"
	"github.com/ErenKizilay/parroton/internal/store"
	"github.com/ErenKizilay/parroton/internal/svc"
)

func newTestContext(t *testing.T) *store.Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "logic.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, store.AutoMigrate(db))
	repo := store.New(db)
	t.Cleanup(repo.Close)

	svc.Init(&config.Config{}, repo, httpclient.New(&config.ClientConfig{RequestTimeout: 5, ConnectTimeout: 2}))
	return repo
}

func TestAutoComplete_Strategies(t *testing.T) {
	repo := newTestContext(t)
	ctx := context.Background()

	testCase, err := repo.TestCases().Create(ctx, model.NewTestCase("c1", "flow", ""))
	require.NoError(t, err)

	login := model.NewAction("c1", testCase.ID, 0, "login_0", "https://api.example.com/login", "POST", "application/json")
	items := model.NewAction("c1", testCase.ID, 1, "items_1", "https://api.example.com/items", "GET", "")
	require.NoError(t, repo.Actions().BatchCreate(ctx, []*model.Action{login, items}))

	require.NoError(t, repo.Parameters().BatchCreate(ctx, []*model.Parameter{
		model.NewParameter(login, model.ParameterInput, model.LocationBody, "$.username", "ada", ""),
		model.NewParameter(login, model.ParameterOutput, model.LocationBody, "$.token", "tok-1", ""),
		model.NewParameter(login, model.ParameterOutput, model.LocationBody, "$.account.id", "acc-9", ""),
	}))

	l := NewAutoCompleteLogic(ctx)

	// nothing typed yet: nothing to suggest
	got, err := l.Suggest("c1", &AutoCompleteReq{TestCaseID: testCase.ID, LatestInput: ""})
	require.NoError(t, err)
	assert.Empty(t, got)

	// "$." completes to the actions before the source position
	order := 1
	got, err = l.Suggest("c1", &AutoCompleteReq{TestCaseID: testCase.ID, LatestInput: "$.", SourceActionOrder: &order})
	require.NoError(t, err)
	assert.Equal(t, []string{"$.login_0"}, got)

	// without a source position every action is fair game
	got, err = l.Suggest("c1", &AutoCompleteReq{TestCaseID: testCase.ID, LatestInput: "$."})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"$.login_0", "$.items_1"}, got)

	// "$.<action>." forks into input and output
	got, err = l.Suggest("c1", &AutoCompleteReq{TestCaseID: testCase.ID, LatestInput: "$.login_0."})
	require.NoError(t, err)
	assert.Equal(t, []string{"$.login_0.input", "$.login_0.output"}, got)

	// deeper input completes from the stored parameter paths
	got, err = l.Suggest("c1", &AutoCompleteReq{TestCaseID: testCase.ID, LatestInput: "$.login_0.output.a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"$.login_0.output.account.id"}, got)

	got, err = l.Suggest("c1", &AutoCompleteReq{TestCaseID: testCase.ID, LatestInput: "$.login_0.input.u"})
	require.NoError(t, err)
	assert.Equal(t, []string{"$.login_0.input.username"}, got)

	// referencing an unknown action surfaces not found
	_, err = l.Suggest("c1", &AutoCompleteReq{TestCaseID: testCase.ID, LatestInput: "$.missing_9.output.x"})
	require.Error(t, err)
}
