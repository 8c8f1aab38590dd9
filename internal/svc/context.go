package svc

import (
	"github.com/ErenKizilay/parroton/internal/config"
	"github.com/ErenKizilay/parroton/internal/httpclient"
	"github.com/ErenKizilay/parroton/internal/inference"
	"github.com/ErenKizilay/parroton/internal/replay"
	"github.com/ErenKizilay/parroton/internal/store"
)

// ServiceContext wires the shared collaborators every logic layer needs.
type ServiceContext struct {
	Config    *config.Config
	Repo      *store.Repository
	Client    *httpclient.Client
	Inference *inference.Engine
	Replay    *replay.Engine
}

var Ctx *ServiceContext

// Init builds the global service context.
func Init(cfg *config.Config, repo *store.Repository, client *httpclient.Client) {
	Ctx = &ServiceContext{
		Config:    cfg,
		Repo:      repo,
		Client:    client,
		Inference: inference.New(repo),
		Replay:    replay.New(repo, client),
	}
}
