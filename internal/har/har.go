// Package har parses HTTP Archive (HAR) 1.2 captures and selects the
// entries a test case can be inferred from.
package har

import (
	"encoding/json"
	"strings"

	"github.com/ErenKizilay/parroton/internal/apperr"
)

// File is the top level HAR document.
type File struct {
	Log Log `json:"log"`
}

// Log holds the capture entries.
type Log struct {
	Version string  `json:"version"`
	Entries []Entry `json:"entries"`
}

// Entry is one recorded HTTP exchange.
type Entry struct {
	Request  Request  `json:"request"`
	Response Response `json:"response"`
}

// Request is the recorded request half of an entry.
type Request struct {
	Method      string      `json:"method"`
	URL         string      `json:"url"`
	Headers     []NameValue `json:"headers"`
	QueryString []NameValue `json:"queryString"`
	Cookies     []NameValue `json:"cookies"`
	PostData    *PostData   `json:"postData,omitempty"`
}

// Response is the recorded response half of an entry.
type Response struct {
	Status  int     `json:"status"`
	Content Content `json:"content"`
}

// NameValue is a HAR name/value pair (headers, cookies, query string).
type NameValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PostData is the recorded request body.
type PostData struct {
	MimeType string      `json:"mimeType"`
	Text     string      `json:"text,omitempty"`
	Params   []NameValue `json:"params,omitempty"`
}

// Content is the recorded response body.
type Content struct {
	MimeType string `json:"mimeType"`
	Text     string `json:"text,omitempty"`
}

// Parse decodes a HAR document.
func Parse(data []byte) (*File, error) {
	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, apperr.Validation("invalid HAR document: %v", err)
	}
	return &file, nil
}

// FilterEntries selects the entries worth turning into actions. Entries
// whose URL contains any of the excluded parts are dropped, as are request
// bodies that are neither JSON nor form encoded and responses whose body is
// not JSON. Only 1.2 captures carry entries this code understands.
func FilterEntries(excludedPathParts []string, log *Log) []Entry {
	if !strings.HasPrefix(log.Version, "1.2") {
		return nil
	}
	exclusions := make([]string, 0, len(excludedPathParts))
	for _, part := range excludedPathParts {
		exclusions = append(exclusions, strings.TrimSpace(part))
	}
	var filtered []Entry
	for _, entry := range log.Entries {
		if excludedByURL(entry.Request.URL, exclusions) {
			continue
		}
		if !requestBodySupported(entry.Request.PostData) {
			continue
		}
		if !responseBodySupported(entry.Response.Content) {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}

func excludedByURL(url string, exclusions []string) bool {
	for _, part := range exclusions {
		if part != "" && strings.Contains(url, part) {
			return true
		}
	}
	return false
}

func requestBodySupported(postData *PostData) bool {
	if postData == nil {
		return true
	}
	return strings.Contains(postData.MimeType, "json") ||
		strings.Contains(postData.MimeType, "form-urlencoded")
}

func responseBodySupported(content Content) bool {
	return content.MimeType == "" || strings.Contains(content.MimeType, "json")
}
