package infra

import (
	"github.com/m-mizutani/cistudy/pkg/domain/interfaces"
)

type Clients struct {
	github    interfaces.GitHub
	coveralls interfaces.Coveralls
	bqClient  interfaces.BigQuery
	dataset   interfaces.Dataset
	artifacts interfaces.ArtifactStore
}

type Option func(*Clients)

func New(options ...Option) *Clients {
	client := &Clients{}

	for _, opt := range options {
		opt(client)
	}

	return client
}

func (x *Clients) GitHub() interfaces.GitHub {
	return x.github
}
func (x *Clients) Coveralls() interfaces.Coveralls {
	return x.coveralls
}
func (x *Clients) BigQuery() interfaces.BigQuery {
	return x.bqClient
}
func (x *Clients) Dataset() interfaces.Dataset {
	return x.dataset
}
func (x *Clients) Artifacts() interfaces.ArtifactStore {
	return x.artifacts
}

func WithGitHub(client interfaces.GitHub) Option {
	return func(x *Clients) {
		x.github = client
	}
}

func WithCoveralls(client interfaces.Coveralls) Option {
	return func(x *Clients) {
		x.coveralls = client
	}
}

func WithBigQuery(client interfaces.BigQuery) Option {
	return func(x *Clients) {
		x.bqClient = client
	}
}

func WithDataset(dataset interfaces.Dataset) Option {
	return func(x *Clients) {
		x.dataset = dataset
	}
}

func WithArtifacts(store interfaces.ArtifactStore) Option {
	return func(x *Clients) {
		x.artifacts = store
	}
}
