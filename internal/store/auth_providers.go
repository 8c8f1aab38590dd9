package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/ErenKizilay/parroton/internal/apperr"
	"github.com/ErenKizilay/parroton/internal/model"
)

// AuthProviders stores credential bundles, partitioned by customer.
type AuthProviders struct {
	repo *Repository
}

// Create persists one provider.
func (s *AuthProviders) Create(ctx context.Context, provider *model.AuthenticationProvider) (*model.AuthenticationProvider, error) {
	return putItem[model.AuthenticationProvider](ctx, s.repo.db, provider)
}

// BatchCreate persists a set of providers.
func (s *AuthProviders) BatchCreate(ctx context.Context, providers []*model.AuthenticationProvider) error {
	return batchPut[model.AuthenticationProvider](ctx, s.repo.db, providers)
}

// Get fetches one provider.
func (s *AuthProviders) Get(ctx context.Context, customerID, id string) (*model.AuthenticationProvider, error) {
	return getItem[model.AuthenticationProvider](ctx, s.repo.db, customerID, id)
}

// BatchGet fetches providers by id, silently skipping absent ones.
func (s *AuthProviders) BatchGet(ctx context.Context, customerID string, ids []string) ([]*model.AuthenticationProvider, error) {
	keys := make([][2]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, [2]string{customerID, id})
	}
	return batchGet[model.AuthenticationProvider](ctx, s.repo.db, keys)
}

// List returns a customer's providers, optionally narrowed to one base URL
// and to providers linked to a test case.
func (s *AuthProviders) List(ctx context.Context, customerID, testCaseID, baseURL string) ([]*model.AuthenticationProvider, error) {
	var scopes []scope
	if baseURL != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("base_url = ?", baseURL)
		})
	}
	providers, err := listAll[model.AuthenticationProvider](ctx, s.repo.db, customerID, scopes...)
	if err != nil {
		return nil, err
	}
	if testCaseID == "" {
		return providers, nil
	}
	linked := providers[:0]
	for _, provider := range providers {
		if provider.LinkedTestCaseIDs.Contains(testCaseID) {
			linked = append(linked, provider)
		}
	}
	return linked, nil
}

// Link adds a test case to a provider's linked set.
func (s *AuthProviders) Link(ctx context.Context, customerID, id, testCaseID string) error {
	provider, err := s.Get(ctx, customerID, id)
	if err != nil {
		return err
	}
	provider.LinkedTestCaseIDs = provider.LinkedTestCaseIDs.Add(testCaseID)
	_, err = putItem[model.AuthenticationProvider](ctx, s.repo.db, provider)
	return err
}

// UnlinkTestCase removes the test case from every provider referencing it.
// Unlinking is idempotent; repeating it is a no-op.
func (s *AuthProviders) UnlinkTestCase(ctx context.Context, customerID, testCaseID string) error {
	providers, err := s.List(ctx, customerID, testCaseID, "")
	if err != nil {
		return err
	}
	for _, provider := range providers {
		provider.LinkedTestCaseIDs = provider.LinkedTestCaseIDs.Remove(testCaseID)
		if _, err := putItem[model.AuthenticationProvider](ctx, s.repo.db, provider); err != nil {
			return err
		}
	}
	return nil
}

// SetHeader replaces the value of one credential header.
func (s *AuthProviders) SetHeader(ctx context.Context, customerID, id, name, value string) (*model.AuthenticationProvider, error) {
	return s.updateHeader(ctx, customerID, id, name, func(h model.AuthHeaderValue) model.AuthHeaderValue {
		h.Value = value
		return h
	})
}

// SetHeaderEnablement toggles whether one credential header is sent.
func (s *AuthProviders) SetHeaderEnablement(ctx context.Context, customerID, id, name string, disabled bool) (*model.AuthenticationProvider, error) {
	return s.updateHeader(ctx, customerID, id, name, func(h model.AuthHeaderValue) model.AuthHeaderValue {
		h.Disabled = disabled
		return h
	})
}

func (s *AuthProviders) updateHeader(ctx context.Context, customerID, id, name string, apply func(model.AuthHeaderValue) model.AuthHeaderValue) (*model.AuthenticationProvider, error) {
	provider, err := s.Get(ctx, customerID, id)
	if err != nil {
		return nil, err
	}
	header, ok := provider.HeadersByName[name]
	if !ok {
		return nil, apperr.NotFound("header %q not found on provider %s", name, id)
	}
	provider.HeadersByName[name] = apply(header)
	return putItem[model.AuthenticationProvider](ctx, s.repo.db, provider)
}

// Delete removes a provider entirely.
func (s *AuthProviders) Delete(ctx context.Context, customerID, id string) error {
	_, err := deleteItem[model.AuthenticationProvider](ctx, s.repo.db, customerID, id)
	return err
}
