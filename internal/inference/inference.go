// Package inference turns a filtered HAR capture into a persisted test
// case: one ordered action per recorded exchange, input and output
// parameters with provenance expressions, equality assertions linking
// request values back to earlier responses, and authentication providers
// harvested from credential headers.
package inference

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/ErenKizilay/parroton/internal/flatten"
	"github.com/ErenKizilay/parroton/internal/har"
	"github.com/ErenKizilay/parroton/internal/logger"
	"github.com/ErenKizilay/parroton/internal/model"
	"github.com/ErenKizilay/parroton/internal/store"
)

// Capture is everything the engine needs to infer a test case.
type Capture struct {
	CustomerID        string
	Name              string
	Description       string
	ExcludedPathParts []string
	AuthProviderIDs   []string
	Log               *har.Log
}

// Engine infers test cases from traffic captures.
type Engine struct {
	repo *store.Repository
}

func New(repo *store.Repository) *Engine {
	return &Engine{repo: repo}
}

// BuildTestCase runs the full inference pipeline and returns the created
// test case. Entries are processed in capture order; a value seen in a
// request is attributed to the most recent earlier response that produced
// it, which is what turns recorded literals into replayable expressions.
func (e *Engine) BuildTestCase(ctx context.Context, capture Capture) (*model.TestCase, error) {
	entries := har.FilterEntries(capture.ExcludedPathParts, capture.Log)

	responseIndexes := make([]flatten.Index, len(entries))
	requestIndexes := make([]flatten.Index, len(entries))
	for i, entry := range entries {
		name := ActionName(entry.Request.URL, i)
		responseIndexes[i] = responseIndex(name, entry)
		requestIndexes[i] = requestIndex(name, entry)
	}

	testCase, err := e.repo.TestCases().Create(ctx, model.NewTestCase(capture.CustomerID, capture.Name, capture.Description))
	if err != nil {
		return nil, err
	}

	existing, err := e.repo.AuthProviders().BatchGet(ctx, capture.CustomerID, capture.AuthProviderIDs)
	if err != nil {
		return nil, err
	}

	actions := make([]*model.Action, 0, len(entries))
	pendingAuth := map[string]model.AuthHeaders{}
	for i, entry := range entries {
		action := buildAction(testCase, i, entry, responseIndexes[:i])

		parameters := buildInputParameters(action, entry, responseIndexes[:i])
		parameters = append(parameters, buildOutputParameters(action, entry)...)
		if err := e.repo.Parameters().BatchCreate(ctx, parameters); err != nil {
			return nil, err
		}

		assertions := buildAssertions(testCase, action, requestIndexes, responseIndexes)
		if err := e.repo.Assertions().BatchCreate(ctx, assertions); err != nil {
			return nil, err
		}

		if err := e.resolveAuth(ctx, testCase, entry, existing, pendingAuth); err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}

	for baseURL, headers := range pendingAuth {
		provider := model.NewAuthenticationProvider(capture.CustomerID, AuthProviderName(baseURL), baseURL,
			headers, model.StringSet{testCase.ID})
		if _, err := e.repo.AuthProviders().Create(ctx, provider); err != nil {
			return nil, err
		}
	}

	if err := e.repo.Actions().BatchCreate(ctx, actions); err != nil {
		return nil, err
	}
	return testCase, nil
}

// resolveAuth links the entry's base URL to an already known provider, or
// accumulates its credential headers so a new provider can be created for
// that base URL after all entries are processed. A base URL with no
// credential headers still gets a provider so the user has a place to add
// them later.
func (e *Engine) resolveAuth(ctx context.Context, testCase *model.TestCase, entry har.Entry,
	existing []*model.AuthenticationProvider, pending map[string]model.AuthHeaders) error {
	baseURL := BaseURL(entry.Request.URL)
	for _, provider := range existing {
		if provider.BaseURL == baseURL {
			return e.repo.AuthProviders().Link(ctx, testCase.CustomerID, provider.ID, testCase.ID)
		}
	}
	merged := pending[baseURL]
	if merged == nil {
		merged = model.AuthHeaders{}
	}
	for _, header := range entry.Request.Headers {
		if authRelated(header.Name) && !excludedHeader(header.Name) {
			merged[headerName(header.Name)] = model.AuthHeaderValue{Value: header.Value}
		}
	}
	for _, cookie := range entry.Request.Cookies {
		if authRelated(cookie.Name) {
			merged[cookie.Name] = model.AuthHeaderValue{Value: cookie.Value}
		}
	}
	pending[baseURL] = merged
	return nil
}

func buildAction(testCase *model.TestCase, order int, entry har.Entry, prior []flatten.Index) *model.Action {
	mimeType := ""
	if entry.Request.PostData != nil {
		mimeType = entry.Request.PostData.MimeType
	}
	return model.NewAction(testCase.CustomerID, testCase.ID, order,
		ActionName(entry.Request.URL, order),
		templateURL(entry.Request.URL, prior),
		entry.Request.Method, mimeType)
}

func buildInputParameters(action *model.Action, entry har.Entry, prior []flatten.Index) []*model.Parameter {
	var parameters []*model.Parameter
	for _, pair := range entry.Request.QueryString {
		expression, _ := flatten.Resolve(pair.Value, prior)
		parameters = append(parameters,
			model.NewParameter(action, model.ParameterInput, model.LocationQuery, pair.Name, pair.Value, expression))
	}
	parameters = append(parameters, buildBodyParameters(action, entry.Request.PostData, prior)...)
	for _, header := range entry.Request.Headers {
		if authRelated(header.Name) || excludedHeader(header.Name) {
			continue
		}
		expression, _ := flatten.Resolve(header.Value, prior)
		parameters = append(parameters,
			model.NewParameter(action, model.ParameterInput, model.LocationHeader, headerName(header.Name), header.Value, expression))
	}
	return parameters
}

func buildBodyParameters(action *model.Action, postData *har.PostData, prior []flatten.Index) []*model.Parameter {
	if postData == nil {
		return nil
	}
	var parameters []*model.Parameter
	if strings.Contains(postData.MimeType, "json") {
		body, ok := decodeJSON(postData.Text)
		if !ok {
			return nil
		}
		for path, value := range flatten.Flatten(action.Name, flatten.PrefixBare, body) {
			expression, _ := flatten.Resolve(value, prior)
			parameters = append(parameters,
				model.NewParameter(action, model.ParameterInput, model.LocationBody, path, value, expression))
		}
		return parameters
	}
	for _, param := range postData.Params {
		expression, _ := flatten.Resolve(param.Value, prior)
		parameters = append(parameters,
			model.NewParameter(action, model.ParameterInput, model.LocationBody, param.Name, param.Value, expression))
	}
	return parameters
}

func buildOutputParameters(action *model.Action, entry har.Entry) []*model.Parameter {
	body, ok := decodeJSON(entry.Response.Content.Text)
	if !ok {
		return nil
	}
	var parameters []*model.Parameter
	for path, value := range flatten.Flatten(action.Name, flatten.PrefixBare, body) {
		parameters = append(parameters,
			model.NewParameter(action, model.ParameterOutput, model.LocationBody, path, value, ""))
	}
	return parameters
}

// buildAssertions pairs each meaningful response value with the earliest
// request that carried the same value. Booleans, nulls, empty strings and
// empty arrays are too ambiguous to assert on.
func buildAssertions(testCase *model.TestCase, action *model.Action, requestIndexes, responseIndexes []flatten.Index) []*model.Assertion {
	prior := requestIndexes[:action.Order]
	var assertions []*model.Assertion
	for path, value := range responseIndexes[action.Order] {
		if !assertable(value) {
			continue
		}
		expression, ok := resolveEarliest(value, prior)
		if !ok {
			continue
		}
		assertions = append(assertions, model.NewAssertion(testCase.CustomerID, testCase.ID,
			model.ItemFromExpression(expression), model.ItemFromExpression(path), model.EqualTo, false))
	}
	return assertions
}

// resolveEarliest attributes a value to the first index that produced it,
// unlike flatten.Resolve which prefers the most recent one. Assertions
// reference the origin of a value, not its latest echo.
func resolveEarliest(value any, indexes []flatten.Index) (string, bool) {
	reversed := make([]flatten.Index, len(indexes))
	for i, index := range indexes {
		reversed[len(indexes)-1-i] = index
	}
	return flatten.Resolve(value, reversed)
}

func assertable(value any) bool {
	switch v := value.(type) {
	case bool, nil:
		return false
	case string:
		return v != ""
	case []any:
		return len(v) != 0
	}
	return true
}

func responseIndex(actionName string, entry har.Entry) flatten.Index {
	text := entry.Response.Content.Text
	if text == "" {
		return flatten.Index{}
	}
	var value any
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		logger.Warn("skipping malformed response body",
			zap.String("action", actionName), zap.Error(err))
		return flatten.Index{}
	}
	return flatten.Flatten(actionName, flatten.PrefixOutput, value)
}

func requestIndex(actionName string, entry har.Entry) flatten.Index {
	postData := entry.Request.PostData
	if postData == nil || !strings.Contains(postData.MimeType, "application/json") {
		return flatten.Index{}
	}
	body, ok := decodeJSON(postData.Text)
	if !ok {
		return flatten.Index{}
	}
	return flatten.Flatten(actionName, flatten.PrefixInput, body)
}

func decodeJSON(text string) (any, bool) {
	if text == "" {
		return nil, false
	}
	var value any
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return nil, false
	}
	return value, true
}

var (
	queryRe     = regexp.MustCompile(`\?.*$`)
	nameSplitRe = regexp.MustCompile(`[./]`)
)

// ActionName derives a readable action name from the request URL: the last
// path segment, with a snake_cased suffix taken from the final query
// parameter value when it carries a non-numeric operation name, and the
// entry order appended so repeated endpoints stay distinct.
func ActionName(rawURL string, order int) string {
	normalized := strings.ReplaceAll(rawURL, "-", "_")
	segment := normalized[strings.LastIndex(normalized, "/")+1:]
	suffix := ""
	if query := queryRe.FindString(segment); query != "" {
		value := query[strings.LastIndex(query, "=")+1:]
		if value != "" && !allDigits(value) {
			suffix = snakeCase(value)
		}
	}
	base := queryRe.ReplaceAllString(segment, "")
	return base + suffix + "_" + strconv.Itoa(order)
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func snakeCase(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsUpper(r) {
			b.WriteByte('_')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// templateURL rewrites path segments whose value was produced by an earlier
// response into reference expressions, so replay follows server-assigned
// identifiers instead of the recorded ones.
func templateURL(rawURL string, prior []flatten.Index) string {
	stripped := queryRe.ReplaceAllString(rawURL, "")
	baseURL := BaseURL(stripped)
	segments := strings.Split(strings.TrimPrefix(stripped, baseURL), "/")
	for i, segment := range segments {
		if segment == "" {
			continue
		}
		if expression, ok := flatten.Resolve(segment, prior); ok {
			segments[i] = expression
		}
	}
	return baseURL + strings.Join(segments, "/")
}

// BaseURL returns the scheme and host of a URL, or the input unchanged when
// no scheme is present.
func BaseURL(rawURL string) string {
	schemeEnd := strings.Index(rawURL, "://")
	if schemeEnd < 0 {
		return rawURL
	}
	hostStart := schemeEnd + 3
	if i := strings.IndexAny(rawURL[hostStart:], "/?#"); i >= 0 {
		return rawURL[:hostStart+i]
	}
	return rawURL
}

// AuthProviderName turns a base URL into a readable provider name by
// keeping the host labels between the scheme and the top level domain.
func AuthProviderName(baseURL string) string {
	parts := nameSplitRe.Split(baseURL, -1)
	if len(parts) < 3 {
		return ""
	}
	return strings.TrimSpace(strings.Join(parts[1:len(parts)-1], " "))
}

var authKeywords = []string{"authorization", "token", "session", "csrf", "user", "origin", "cookie", "auth"}

func authRelated(name string) bool {
	lower := strings.ToLower(name)
	for _, keyword := range authKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func excludedHeader(name string) bool {
	return strings.Contains(strings.ToLower(name), "content-length")
}

func headerName(name string) string {
	return strings.ReplaceAll(name, ":", "")
}
