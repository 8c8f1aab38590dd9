package store

import (
	"go.uber.org/zap"

	"github.com/ErenKizilay/parroton/internal/logger"
	"github.com/ErenKizilay/parroton/internal/model"
)

// deleteEvent marks an entity removal whose children must be cleaned up.
type deleteEvent interface {
	deletedEntity() string
}

type testCaseDeleted struct{ testCase *model.TestCase }

func (e testCaseDeleted) deletedEntity() string { return e.testCase.ID }

type actionDeleted struct{ action *model.Action }

func (e actionDeleted) deletedEntity() string { return e.action.ID }

type runDeleted struct{ run *model.Run }

func (e runDeleted) deletedEntity() string { return e.run.ID }

// consumeDeleteEvents is the cascade consumer. Deleting a test case removes
// its actions, runs and assertions and unlinks it from every authentication
// provider; deleted actions and runs in turn queue cleanup of their
// parameters and executions. The cascade is asynchronous: callers observe
// the parent gone immediately and the children eventually.
func (r *Repository) consumeDeleteEvents() {
	defer close(r.done)
	for event := range r.events {
		logger.Debug("cascade delete", zap.String("entity", event.deletedEntity()))
		switch e := event.(type) {
		case testCaseDeleted:
			r.cascadeTestCase(e.testCase)
		case actionDeleted:
			r.cascadeAction(e.action)
		case runDeleted:
			r.cascadeRun(e.run)
		}
	}
}

func (r *Repository) cascadeTestCase(tc *model.TestCase) {
	ctx := r.background()
	childPK := model.CompositeKey(tc.CustomerID, tc.ID)

	err := deleteAll[model.Action](ctx, r.db, childPK, func(a *model.Action) {
		r.emit(actionDeleted{action: a})
	})
	if err != nil {
		logger.Error("cascade actions", zap.String("test_case", tc.ID), zap.Error(err))
	}

	err = deleteAll[model.Run](ctx, r.db, childPK, func(run *model.Run) {
		r.emit(runDeleted{run: run})
	})
	if err != nil {
		logger.Error("cascade runs", zap.String("test_case", tc.ID), zap.Error(err))
	}

	if err := deleteAll[model.Assertion](ctx, r.db, childPK, nil); err != nil {
		logger.Error("cascade assertions", zap.String("test_case", tc.ID), zap.Error(err))
	}

	if err := r.AuthProviders().UnlinkTestCase(ctx, tc.CustomerID, tc.ID); err != nil {
		logger.Error("cascade auth unlink", zap.String("test_case", tc.ID), zap.Error(err))
	}
}

func (r *Repository) cascadeAction(a *model.Action) {
	pk := model.CompositeKey(a.CustomerID, a.TestCaseID)
	err := deleteAll[model.Parameter](r.background(), r.db, pk, nil,
		sortKeyPrefix(a.ID+"#"))
	if err != nil {
		logger.Error("cascade parameters", zap.String("action", a.ID), zap.Error(err))
	}
}

func (r *Repository) cascadeRun(run *model.Run) {
	pk := model.CompositeKey(run.CustomerID, run.TestCaseID, run.ID)
	err := deleteAll[model.ActionExecution](r.background(), r.db, pk, nil)
	if err != nil {
		logger.Error("cascade executions", zap.String("run", run.ID), zap.Error(err))
	}
}
