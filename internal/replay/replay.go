// Package replay executes a test case against live endpoints. Actions run
// strictly in order; every request and response is threaded into a shared
// evaluation context so later actions and the final assertion pass can
// reference what earlier exchanges sent and received.
package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ErenKizilay/parroton/internal/assertion"
	"github.com/ErenKizilay/parroton/internal/flatten"
	"github.com/ErenKizilay/parroton/internal/httpclient"
	"github.com/ErenKizilay/parroton/internal/inference"
	"github.com/ErenKizilay/parroton/internal/jsonpath"
	"github.com/ErenKizilay/parroton/internal/logger"
	"github.com/ErenKizilay/parroton/internal/model"
	"github.com/ErenKizilay/parroton/internal/store"
)

// Engine replays test cases.
type Engine struct {
	repo   *store.Repository
	client *httpclient.Client
}

func New(repo *store.Repository, client *httpclient.Client) *Engine {
	return &Engine{repo: repo, client: client}
}

// Start creates an in-progress run and replays the test case in the
// background. The returned run can be polled until it is finished; a
// missing test case is the only reason Start itself fails.
func (e *Engine) Start(ctx context.Context, customerID, testCaseID string) (*model.Run, error) {
	if _, err := e.repo.TestCases().Get(ctx, customerID, testCaseID); err != nil {
		return nil, err
	}
	run, err := e.repo.Runs().Create(ctx, model.NewRun(customerID, testCaseID, time.Now().UnixMilli()))
	if err != nil {
		return nil, err
	}
	go e.replay(run)
	return run, nil
}

// replay is the run lifecycle: execute every action in order, evaluate the
// assertions once against the final context, then mark the run finished.
// Action failures do not abort the run; they surface as execution records
// and as assertion failures.
func (e *Engine) replay(run *model.Run) {
	ctx := context.Background()

	actions, err := e.repo.Actions().List(ctx, run.CustomerID, run.TestCaseID)
	if err != nil {
		logger.Error("listing actions for replay failed",
			zap.String("run_id", run.ID), zap.Error(err))
		e.finish(ctx, run, nil)
		return
	}
	providers, err := e.repo.AuthProviders().List(ctx, run.CustomerID, run.TestCaseID, "")
	if err != nil {
		logger.Error("listing auth providers for replay failed",
			zap.String("run_id", run.ID), zap.Error(err))
		e.finish(ctx, run, nil)
		return
	}

	execCtx := map[string]any{}
	for _, action := range actions {
		e.executeAction(ctx, run, action, providers, execCtx)
	}
	e.finish(ctx, run, e.evaluateAssertions(ctx, run, execCtx))
}

func (e *Engine) finish(ctx context.Context, run *model.Run, results model.AssertionResults) {
	if _, err := e.repo.Runs().Finish(ctx, run, time.Now().UnixMilli(), results); err != nil {
		logger.Error("finishing run failed", zap.String("run_id", run.ID), zap.Error(err))
	}
}

// executeAction resolves the action's parameters against the current
// context, performs the call and threads {input, output} for the action
// into the context. The execution record is persisted on a detached
// goroutine so bookkeeping never delays the next action.
func (e *Engine) executeAction(ctx context.Context, run *model.Run, action *model.Action,
	providers []*model.AuthenticationProvider, execCtx map[string]any) {
	entry := map[string]any{"input": nil, "output": nil}
	execCtx[action.Name] = entry

	parameters, err := e.repo.Parameters().ListAllInputs(ctx, run.CustomerID, run.TestCaseID, action.ID)
	if err != nil {
		logger.Error("listing parameters failed",
			zap.String("action", action.Name), zap.Error(err))
		return
	}

	req := e.buildRequest(action, parameters, providers, execCtx)

	execution := model.NewActionExecution(run, action.ID)
	execution.StartedAt = time.Now().UnixMilli()
	result, err := e.client.Execute(ctx, req)
	execution.FinishedAt = time.Now().UnixMilli()

	var output any
	if err != nil {
		execution.StatusCode = httpclient.StatusCodeOf(err)
		execution.Error = err.Error()
		logger.Warn("action execution failed",
			zap.String("action", action.Name), zap.Error(err))
	} else {
		execution.StatusCode = result.StatusCode
		output = result.Body
	}
	execution.RequestBody = model.JSON(req.Body)
	execution.ResponseBody = model.JSON(output)
	for _, param := range req.QueryParams {
		execution.QueryParams = append(execution.QueryParams, model.QueryParam{Key: param.Key, Value: param.Value})
	}
	go func() {
		if _, err := e.repo.ActionExecutions().Create(context.Background(), execution); err != nil {
			logger.Error("recording action execution failed",
				zap.String("action", action.Name), zap.Error(err))
		}
	}()

	entry["input"] = req.Body
	entry["output"] = output
}

// buildRequest evaluates every input parameter, drops the ones whose
// expression no longer yields a value, and assembles the outbound call.
// Credential headers of every provider linked to the test case for the
// action's base URL are merged in last.
func (e *Engine) buildRequest(action *model.Action, parameters []*model.Parameter,
	providers []*model.AuthenticationProvider, execCtx map[string]any) httpclient.Request {
	var query, headers []httpclient.Param
	var bodyPairs []flatten.PathValue
	formBody := map[string]any{}

	for _, p := range parameters {
		value, err := jsonpath.EvaluateValue(p, execCtx)
		if err != nil {
			logger.Debug("dropping unresolvable parameter",
				zap.String("action", action.Name),
				zap.String("path", p.LocationPath), zap.Error(err))
			continue
		}
		switch p.LocationKind {
		case model.LocationQuery:
			query = append(query, httpclient.Param{Key: p.LocationPath, Value: paramString(value)})
		case model.LocationHeader:
			headers = append(headers, httpclient.Param{Key: p.LocationPath, Value: paramString(value)})
		case model.LocationBody:
			if strings.Contains(action.MimeType, "json") {
				bodyPairs = append(bodyPairs, flatten.PathValue{Path: p.LocationPath, Value: value})
			} else {
				formBody[p.LocationPath] = value
			}
		}
	}

	var body any
	switch {
	case len(bodyPairs) > 0:
		body = flatten.Reconstruct(bodyPairs)
	case len(formBody) > 0:
		body = formBody
	}

	baseURL := inference.BaseURL(action.URL)
	for _, provider := range providers {
		if provider.BaseURL != baseURL {
			continue
		}
		for name, header := range provider.HeadersByName {
			if header.Disabled {
				continue
			}
			headers = append(headers, httpclient.Param{Key: name, Value: header.Value})
		}
	}

	return httpclient.Request{
		Method:      action.Method,
		URL:         resolveURL(action.URL, execCtx),
		QueryParams: query,
		Headers:     headers,
		Body:        body,
		ContentType: action.MimeType,
	}
}

// resolveURL substitutes reference-expression path segments with the value
// they evaluate to in the current context. A segment that no longer
// resolves becomes empty rather than leaking the expression to the wire.
func resolveURL(rawURL string, execCtx map[string]any) string {
	segments := strings.Split(rawURL, "/")
	for i, segment := range segments {
		if !strings.HasPrefix(segment, "$.") {
			continue
		}
		results, err := jsonpath.Evaluate(execCtx, segment)
		if err != nil || len(results) == 0 {
			segments[i] = ""
			continue
		}
		segments[i] = paramString(results[0])
	}
	return strings.Join(segments, "/")
}

func (e *Engine) evaluateAssertions(ctx context.Context, run *model.Run, execCtx map[string]any) model.AssertionResults {
	assertions, err := e.repo.Assertions().List(ctx, run.CustomerID, run.TestCaseID)
	if err != nil {
		logger.Error("listing assertions failed", zap.String("run_id", run.ID), zap.Error(err))
		return nil
	}
	results := make(model.AssertionResults, 0, len(assertions))
	for _, a := range assertions {
		results = append(results, assertion.Check(a, execCtx))
	}
	return results
}

// paramString renders a resolved value for a header or query slot: strings
// pass through, everything else is its JSON text without surrounding
// quotes.
func paramString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return strings.Trim(string(data), `"`)
}
