package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vinyl-scout/core/catalog"
)

// Client is a mock implementation of catalog.Client
type Client struct {
	mock.Mock
}

func (m *Client) Search(ctx context.Context, query string) (*catalog.SearchResults, error) {
	args := m.Called(ctx, query)
	if r, ok := args.Get(0).(*catalog.SearchResults); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) GetRelease(ctx context.Context, releaseID int64) (*catalog.Release, error) {
	args := m.Called(ctx, releaseID)
	if r, ok := args.Get(0).(*catalog.Release); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) GetPriceSuggestions(ctx context.Context, releaseID int64) (catalog.PriceSuggestions, error) {
	args := m.Called(ctx, releaseID)
	if r, ok := args.Get(0).(catalog.PriceSuggestions); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) GetCollectionStatus(ctx context.Context, username string, releaseID int64) (*catalog.CollectionStatus, error) {
	args := m.Called(ctx, username, releaseID)
	if r, ok := args.Get(0).(*catalog.CollectionStatus); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) AddToCollection(ctx context.Context, username string, releaseID int64) (int64, error) {
	args := m.Called(ctx, username, releaseID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Client) RemoveFromCollection(ctx context.Context, username string, releaseID, instanceID int64) error {
	args := m.Called(ctx, username, releaseID, instanceID)
	return args.Error(0)
}

func (m *Client) AddToWantlist(ctx context.Context, username string, releaseID int64) error {
	args := m.Called(ctx, username, releaseID)
	return args.Error(0)
}

func (m *Client) RemoveFromWantlist(ctx context.Context, username string, releaseID int64) error {
	args := m.Called(ctx, username, releaseID)
	return args.Error(0)
}

func (m *Client) GetCollectionPage(ctx context.Context, username string, page, perPage int) (*catalog.Page, error) {
	args := m.Called(ctx, username, page, perPage)
	if r, ok := args.Get(0).(*catalog.Page); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) GetWantlistPage(ctx context.Context, username string, page, perPage int) (*catalog.Page, error) {
	args := m.Called(ctx, username, page, perPage)
	if r, ok := args.Get(0).(*catalog.Page); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
