package har

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ErenKizilay/parroton/internal/apperr"
)

const sampleHAR = `{
  "log": {
    "version": "1.2",
    "entries": [
      {
        "request": {
          "method": "POST",
          "url": "https://api.example.com/boards",
          "headers": [{"name": "content-type", "value": "application/json"}],
          "queryString": [],
          "cookies": [],
          "postData": {"mimeType": "application/json", "text": "{\"name\":\"b\"}"}
        },
        "response": {
          "status": 200,
          "content": {"mimeType": "application/json", "text": "{\"id\":\"b-1\"}"}
        }
      },
      {
        "request": {
          "method": "GET",
          "url": "https://cdn.example.com/app.css",
          "headers": [],
          "queryString": [],
          "cookies": []
        },
        "response": {
          "status": 200,
          "content": {"mimeType": "text/css", "text": "body{}"}
        }
      }
    ]
  }
}`

func TestParse(t *testing.T) {
	file, err := Parse([]byte(sampleHAR))
	require.NoError(t, err)
	assert.Equal(t, "1.2", file.Log.Version)
	require.Len(t, file.Log.Entries, 2)
	assert.Equal(t, "POST", file.Log.Entries[0].Request.Method)
	require.NotNil(t, file.Log.Entries[0].Request.PostData)
	assert.Equal(t, `{"name":"b"}`, file.Log.Entries[0].Request.PostData.Text)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("not json"))
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestFilterEntries_DropsNonJSONResponses(t *testing.T) {
	file, err := Parse([]byte(sampleHAR))
	require.NoError(t, err)

	entries := FilterEntries(nil, &file.Log)

	require.Len(t, entries, 1)
	assert.Equal(t, "https://api.example.com/boards", entries[0].Request.URL)
}

func TestFilterEntries_ExcludedPathParts(t *testing.T) {
	file, err := Parse([]byte(sampleHAR))
	require.NoError(t, err)

	entries := FilterEntries([]string{" api.example.com "}, &file.Log)

	assert.Empty(t, entries)
}

func TestFilterEntries_RequestBodyMimeTypes(t *testing.T) {
	log := Log{Version: "1.2", Entries: []Entry{
		{Request: Request{URL: "https://a/x", PostData: &PostData{MimeType: "application/x-www-form-urlencoded"}}},
		{Request: Request{URL: "https://a/y", PostData: &PostData{MimeType: "multipart/form-data"}}},
		{Request: Request{URL: "https://a/z"}},
	}}

	entries := FilterEntries(nil, &log)

	require.Len(t, entries, 2)
	assert.Equal(t, "https://a/x", entries[0].Request.URL)
	assert.Equal(t, "https://a/z", entries[1].Request.URL)
}

func TestFilterEntries_UnsupportedVersion(t *testing.T) {
	log := Log{Version: "1.3", Entries: []Entry{{Request: Request{URL: "https://a/x"}}}}

	assert.Empty(t, FilterEntries(nil, &log))
}
