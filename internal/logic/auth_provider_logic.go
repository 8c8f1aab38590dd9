package logic

import (
	"context"

	"github.com/ErenKizilay/parroton/internal/apperr"
	"github.com/ErenKizilay/parroton/internal/model"
	"github.com/ErenKizilay/parroton/internal/svc"
)

// AuthProviderLogic manages captured credential bundles.
type AuthProviderLogic struct {
	ctx context.Context
}

func NewAuthProviderLogic(ctx context.Context) *AuthProviderLogic {
	return &AuthProviderLogic{ctx: ctx}
}

func (l *AuthProviderLogic) Get(customerID, id string) (*model.AuthenticationProvider, error) {
	return svc.Ctx.Repo.AuthProviders().Get(l.ctx, customerID, id)
}

// List filters providers by linked test case and base URL; both filters are
// optional.
func (l *AuthProviderLogic) List(customerID, testCaseID, baseURL string) ([]*model.AuthenticationProvider, error) {
	return svc.Ctx.Repo.AuthProviders().List(l.ctx, customerID, testCaseID, baseURL)
}

// SearchByURLs collects the providers matching any of the given base URLs.
func (l *AuthProviderLogic) SearchByURLs(customerID string, baseURLs []string) ([]*model.AuthenticationProvider, error) {
	var providers []*model.AuthenticationProvider
	for _, baseURL := range baseURLs {
		matched, err := svc.Ctx.Repo.AuthProviders().List(l.ctx, customerID, "", baseURL)
		if err != nil {
			return nil, err
		}
		providers = append(providers, matched...)
	}
	return providers, nil
}

// CreateAuthProviderReq is a manually created provider.
type CreateAuthProviderReq struct {
	Name    string            `json:"name"`
	BaseURL string            `json:"base_url"`
	Headers model.AuthHeaders `json:"headers"`
}

func (l *AuthProviderLogic) Create(customerID string, req *CreateAuthProviderReq) (*model.AuthenticationProvider, error) {
	if req.BaseURL == "" {
		return nil, apperr.Validation("base_url must not be empty")
	}
	headers := req.Headers
	if headers == nil {
		headers = model.AuthHeaders{}
	}
	return svc.Ctx.Repo.AuthProviders().Create(l.ctx,
		model.NewAuthenticationProvider(customerID, req.Name, req.BaseURL, headers, nil))
}

func (l *AuthProviderLogic) Delete(customerID, id string) error {
	return svc.Ctx.Repo.AuthProviders().Delete(l.ctx, customerID, id)
}

// SetHeader adds or overwrites one credential header.
func (l *AuthProviderLogic) SetHeader(customerID, id, name, value string) (*model.AuthenticationProvider, error) {
	if name == "" {
		return nil, apperr.Validation("header name must not be empty")
	}
	return svc.Ctx.Repo.AuthProviders().SetHeader(l.ctx, customerID, id, name, value)
}

// SetHeaderEnablement toggles whether a header is sent during replay.
func (l *AuthProviderLogic) SetHeaderEnablement(customerID, id, name string, disabled bool) (*model.AuthenticationProvider, error) {
	if name == "" {
		return nil, apperr.Validation("header name must not be empty")
	}
	return svc.Ctx.Repo.AuthProviders().SetHeaderEnablement(l.ctx, customerID, id, name, disabled)
}
