// Copyright (c) 2026 Mediashelf. All rights reserved.
// Author: dev@mediashelf.app

/*
Package search declares the boundary to the external catalog metadata
providers (movie, TV, book and game databases).

The persistence core only holds references to clients implementing this
interface; the provider integrations themselves live outside of it. A no-op
client keeps deployments without provider credentials functional.
*/
package search

import "context"

// Result is one external catalog entry, trimmed to the fields the catalog
// pre-fills when the user picks a search hit.
type Result struct {
	CatalogID   string `json:"catalog_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ReleaseYear int    `json:"release_year"`
	ImageURL    string `json:"image_url"`
}

// Client looks up external catalog metadata for one media type.
type Client interface {
	// SearchByTerm returns the provider's matches for a free-text term.
	SearchByTerm(ctx context.Context, term string) ([]Result, error)

	// GetByCatalogID returns the entry behind an external catalog id, or
	// nil when the provider does not know it.
	GetByCatalogID(ctx context.Context, catalogID string) (*Result, error)
}

// Noop is the Client used when no provider is configured: every search comes
// back empty.
type Noop struct{}

func (Noop) SearchByTerm(ctx context.Context, term string) ([]Result, error) {
	return nil, nil
}

func (Noop) GetByCatalogID(ctx context.Context, catalogID string) (*Result, error) {
	return nil, nil
}
