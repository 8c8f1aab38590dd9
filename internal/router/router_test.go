package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
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

func newTestApp(t *testing.T) (*fiber.App, *store.Repository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "api.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, store.AutoMigrate(db))
	repo := store.New(db)
	t.Cleanup(repo.Close)

	cfg := &config.Config{App: config.AppConfig{Name: "parroton-test"}}
	svc.Init(cfg, repo, httpclient.New(&config.ClientConfig{RequestTimeout: 5, ConnectTimeout: 2}))

	app := fiber.New()
	Setup(app)
	return app, repo
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (int, envelope) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(data, &env), string(data))
	return resp.StatusCode, env
}

func uploadRequest(t *testing.T, harData []byte, name string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("name", name))
	require.NoError(t, writer.WriteField("description", "uploaded by test"))
	part, err := writer.CreateFormFile("file", "capture.har")
	require.NoError(t, err)
	_, err = part.Write(harData)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/test-cases", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func captureData(t *testing.T, targetURL string) []byte {
	t.Helper()
	capture := map[string]any{
		"log": map[string]any{
			"version": "1.2",
			"entries": []any{
				map[string]any{
					"request": map[string]any{
						"method": "GET",
						"url":    targetURL + "/items",
					},
					"response": map[string]any{
						"status": 200,
						"content": map[string]any{
							"mimeType": "application/json",
							"text":     `{"items":[{"id":"i-1"}]}`,
						},
					},
				},
			},
		},
	}
	data, err := json.Marshal(capture)
	require.NoError(t, err)
	return data
}

func TestAPI_UploadListRun(t *testing.T) {
	app, _ := newTestApp(t)

	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":"i-9"}]}`))
	}))
	defer target.Close()

	status, env := doRequest(t, app, uploadRequest(t, captureData(t, target.URL), "catalog"))
	require.Equal(t, http.StatusOK, status, env.Message)
	var testCase model.TestCase
	require.NoError(t, json.Unmarshal(env.Data, &testCase))
	require.NotEmpty(t, testCase.ID)
	assert.Equal(t, "catalog", testCase.Name)

	status, env = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/test-cases", nil))
	require.Equal(t, http.StatusOK, status)
	var page store.Page[*model.TestCase]
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 1)

	status, env = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/test-cases/"+testCase.ID+"/actions", nil))
	require.Equal(t, http.StatusOK, status)
	var actions []*model.Action
	require.NoError(t, json.Unmarshal(env.Data, &actions))
	require.Len(t, actions, 1)
	assert.Equal(t, "items_0", actions[0].Name)

	status, env = doRequest(t, app, httptest.NewRequest(http.MethodPost, "/api/test-cases/"+testCase.ID+"/run", nil))
	require.Equal(t, http.StatusOK, status)
	var run model.Run
	require.NoError(t, json.Unmarshal(env.Data, &run))
	assert.Equal(t, model.RunInProgress, run.Status)

	require.Eventually(t, func() bool {
		_, env := doRequest(t, app, httptest.NewRequest(http.MethodGet,
			fmt.Sprintf("/api/test-cases/%s/runs/%s", testCase.ID, run.ID), nil))
		var got model.Run
		if err := json.Unmarshal(env.Data, &got); err != nil {
			return false
		}
		return got.Status == model.RunFinished
	}, 5*time.Second, 50*time.Millisecond)

	assert.Eventually(t, func() bool {
		_, env := doRequest(t, app, httptest.NewRequest(http.MethodGet,
			fmt.Sprintf("/api/test-cases/%s/runs/%s/action-executions", testCase.ID, run.ID), nil))
		var executions []*model.ActionExecution
		if err := json.Unmarshal(env.Data, &executions); err != nil {
			return false
		}
		return len(executions) == 1 && executions[0].StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)
}

func TestAPI_ErrorMapping(t *testing.T) {
	app, _ := newTestApp(t)

	status, env := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/test-cases/missing", nil))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, http.StatusNotFound, env.Code)
	assert.NotEmpty(t, env.Message)

	// uploading without a multipart form is a validation error
	req := httptest.NewRequest(http.MethodPost, "/api/test-cases", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	status, env = doRequest(t, app, req)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, http.StatusBadRequest, env.Code)

	// a name is mandatory even with a well-formed multipart body
	status, _ = doRequest(t, app, uploadRequest(t, []byte(`{"log":{"version":"1.2","entries":[]}}`), ""))
	assert.Equal(t, http.StatusBadRequest, status)

	// a run of an unknown test case is not found
	status, _ = doRequest(t, app, httptest.NewRequest(http.MethodPost, "/api/test-cases/missing/run", nil))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_Health(t *testing.T) {
	app, _ := newTestApp(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
