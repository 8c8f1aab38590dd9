package inference

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ErenKizilay/parroton/internal/flatten"
	"github.com/ErenKizilay/parroton/internal/har"
	"github.com/ErenKizilay/parroton/internal/model"
	"github.com/ErenKizilay/parroton/internal/store"
)

func newTestRepo(t *testing.T) *store.Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "inference.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, store.AutoMigrate(db))
	repo := store.New(db)
	t.Cleanup(repo.Close)
	return repo
}

func TestActionName(t *testing.T) {
	cases := []struct {
		url   string
		order int
		want  string
	}{
		{"https://layima.atlassian.net/jsw2/graphql?operation=BoardCardCreate", 1, "graphql_board_card_create_1"},
		{"https://api.example.com/auth/login", 0, "login_0"},
		{"https://api.example.com/issue-types", 0, "issue_types_0"},
		{"https://api.example.com/items?page=42", 3, "items_3"},
		{"https://api.example.com/search?q=", 2, "search_2"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ActionName(tc.url, tc.order), tc.url)
	}
}

func TestBaseURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://api.example.com/accounts/1", "https://api.example.com"},
		{"https://api.example.com?x=1", "https://api.example.com"},
		{"https://api.example.com#frag", "https://api.example.com"},
		{"https://api.example.com", "https://api.example.com"},
		{"not a url", "not a url"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, BaseURL(tc.url), tc.url)
	}
}

func TestAuthProviderName(t *testing.T) {
	assert.Equal(t, "layima app opsgenie", AuthProviderName("https://layima.app.opsgenie.com"))
	assert.Equal(t, "api layima example", AuthProviderName("https://api.layima.example.com"))
	assert.Equal(t, "", AuthProviderName("localhost"))
}

func TestTemplateURL(t *testing.T) {
	prior := []flatten.Index{{"$.login_0.output.account.id": "acc-9"}}

	got := templateURL("https://api.example.com/accounts/acc-9/boards?expand=all", prior)
	assert.Equal(t, "https://api.example.com/accounts/$.login_0.output.account.id/boards", got)

	got = templateURL("https://api.example.com/accounts/other/boards", prior)
	assert.Equal(t, "https://api.example.com/accounts/other/boards", got)
}

func TestResolveEarliest(t *testing.T) {
	indexes := []flatten.Index{
		{"$.first.input.id": "x-1"},
		{"$.second.input.ref": "x-1"},
	}
	path, ok := resolveEarliest("x-1", indexes)
	require.True(t, ok)
	assert.Equal(t, "$.first.input.id", path)
}

func captureLog() *har.Log {
	return &har.Log{
		Version: "1.2",
		Entries: []har.Entry{
			{
				Request: har.Request{
					Method: "POST",
					URL:    "https://api.layima.example.com/auth/login",
					Headers: []har.NameValue{
						{Name: "Authorization", Value: "Bearer seed"},
						{Name: "content-type", Value: "application/json"},
						{Name: "content-length", Value: "42"},
					},
					PostData: &har.PostData{
						MimeType: "application/json",
						Text:     `{"username":"ada","password":"pw"}`,
					},
				},
				Response: har.Response{
					Status: 200,
					Content: har.Content{
						MimeType: "application/json",
						Text:     `{"token":"tok-123","account":{"id":"acc-9"}}`,
					},
				},
			},
			{
				Request: har.Request{
					Method:      "GET",
					URL:         "https://api.layima.example.com/accounts/acc-9/boards?expand=Sprints",
					QueryString: []har.NameValue{{Name: "expand", Value: "Sprints"}},
				},
				Response: har.Response{
					Status: 200,
					Content: har.Content{
						MimeType: "application/json",
						Text:     `{"boards":[{"id":"b-1"}]}`,
					},
				},
			},
			{
				Request: har.Request{
					Method: "POST",
					URL:    "https://api.layima.example.com/graphql?operation=BoardCardCreate",
					PostData: &har.PostData{
						MimeType: "application/json",
						Text:     `{"boardId":"b-1","sender":"ada"}`,
					},
				},
				Response: har.Response{
					Status: 200,
					Content: har.Content{
						MimeType: "application/json",
						Text:     `{"echo":"ada","card":{"id":"card-7"}}`,
					},
				},
			},
		},
	}
}

func TestBuildTestCase_EndToEnd(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	testCase, err := New(repo).BuildTestCase(ctx, Capture{
		CustomerID:  "c1",
		Name:        "board flow",
		Description: "login, list boards, create card",
		Log:         captureLog(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, testCase.ID)

	actions, err := repo.Actions().List(ctx, "c1", testCase.ID)
	require.NoError(t, err)
	require.Len(t, actions, 3)
	assert.Equal(t, "login_0", actions[0].Name)
	assert.Equal(t, "boards_sprints_1", actions[1].Name)
	assert.Equal(t, "graphql_board_card_create_2", actions[2].Name)

	// the recorded account id is replaced with a reference to the login response
	assert.Equal(t, "https://api.layima.example.com/accounts/$.login_0.output.account.id/boards", actions[1].URL)
	assert.Equal(t, "https://api.layima.example.com/auth/login", actions[0].URL)

	loginInputs, err := repo.Parameters().ListAllInputs(ctx, "c1", testCase.ID, actions[0].ID)
	require.NoError(t, err)
	byPath := map[string]*model.Parameter{}
	for _, p := range loginInputs {
		byPath[p.LocationPath] = p
	}
	require.Contains(t, byPath, "$.username")
	assert.Equal(t, "ada", byPath["$.username"].Value.V)
	assert.Contains(t, byPath, "content-type")
	assert.NotContains(t, byPath, "Authorization", "credential headers belong to the provider")
	assert.NotContains(t, byPath, "content-length")

	loginOutputs, err := repo.Parameters().ListByAction(ctx, "c1", testCase.ID, actions[0].ID, model.ParameterOutput, "")
	require.NoError(t, err)
	outPaths := map[string]bool{}
	for _, p := range loginOutputs {
		outPaths[p.LocationPath] = true
	}
	assert.True(t, outPaths["$.token"])
	assert.True(t, outPaths["$.account.id"])

	cardInputs, err := repo.Parameters().ListAllInputs(ctx, "c1", testCase.ID, actions[2].ID)
	require.NoError(t, err)
	var boardID *model.Parameter
	for _, p := range cardInputs {
		if p.LocationPath == "$.boardId" {
			boardID = p
		}
	}
	require.NotNil(t, boardID)
	assert.Equal(t, "$.boards_sprints_1.output.boards[0].id", boardID.ValueExpression)

	assertions, err := repo.Assertions().List(ctx, "c1", testCase.ID)
	require.NoError(t, err)
	require.Len(t, assertions, 1)
	assert.Equal(t, "$.login_0.input.username", assertions[0].Left.ValueProvider.Expression)
	assert.Equal(t, "$.graphql_board_card_create_2.output.echo", assertions[0].Right.ValueProvider.Expression)
	assert.Equal(t, model.EqualTo, assertions[0].ComparisonType)

	providers, err := repo.AuthProviders().List(ctx, "c1", "", "")
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, "api layima example", providers[0].Name)
	assert.Equal(t, "https://api.layima.example.com", providers[0].BaseURL)
	assert.Equal(t, "Bearer seed", providers[0].HeadersByName["Authorization"].Value)
	assert.True(t, providers[0].LinkedTestCaseIDs.Contains(testCase.ID))
}

func TestBuildTestCase_LinksExistingProvider(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	existing, err := repo.AuthProviders().Create(ctx, model.NewAuthenticationProvider(
		"c1", "api layima example", "https://api.layima.example.com",
		model.AuthHeaders{"Authorization": {Value: "Bearer kept"}}, nil))
	require.NoError(t, err)

	testCase, err := New(repo).BuildTestCase(ctx, Capture{
		CustomerID:      "c1",
		Name:            "board flow",
		Log:             captureLog(),
		AuthProviderIDs: []string{existing.ID},
	})
	require.NoError(t, err)

	providers, err := repo.AuthProviders().List(ctx, "c1", "", "")
	require.NoError(t, err)
	require.Len(t, providers, 1, "no duplicate provider for a known base URL")
	assert.Equal(t, "Bearer kept", providers[0].HeadersByName["Authorization"].Value)
	assert.True(t, providers[0].LinkedTestCaseIDs.Contains(testCase.ID))
}

func TestBuildTestCase_UnsupportedVersion(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	log := captureLog()
	log.Version = "1.1"
	testCase, err := New(repo).BuildTestCase(ctx, Capture{CustomerID: "c1", Name: "empty", Log: log})
	require.NoError(t, err)

	actions, err := repo.Actions().List(ctx, "c1", testCase.ID)
	require.NoError(t, err)
	assert.Empty(t, actions)
}
