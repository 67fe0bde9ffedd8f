// Package searchidx mirrors catalog records into Algolia. Each entity type
// owns one index; the write pipeline keeps it in step with the document
// store and the periodic rebuild reconciles drift.
package searchidx

import (
	"context"
	"fmt"

	"github.com/algolia/algoliasearch-client-go/v3/algolia/opt"
	"github.com/algolia/algoliasearch-client-go/v3/algolia/search"
)

// Client wraps one Algolia application.
type Client struct {
	client *search.Client
}

// NewClient connects to the Algolia application.
func NewClient(appID, apiKey string) *Client {
	return &Client{client: search.NewClient(appID, apiKey)}
}

// Index returns the named index.
func (c *Client) Index(name string) *Index {
	return &Index{index: c.client.InitIndex(name), name: name}
}

// Index is one entity type's search index.
type Index struct {
	index *search.Index
	name  string
}

// Name returns the index name.
func (i *Index) Name() string { return i.name }

// Add saves a record whose objectID Algolia generates, and returns the
// assigned objectID for the caller to stamp back onto the stored document.
func (i *Index) Add(ctx context.Context, record any) (string, error) {
	res, err := i.index.SaveObject(record, ctx, opt.AutoGenerateObjectIDIfNotExist(true))
	if err != nil {
		return "", fmt.Errorf("adding object to %s: %w", i.name, err)
	}
	return res.ObjectID, nil
}

// Save overwrites the index entry of an already stamped record. The record
// must serialize with its objectID set.
func (i *Index) Save(ctx context.Context, record any) error {
	if _, err := i.index.SaveObject(record, ctx); err != nil {
		return fmt.Errorf("saving object to %s: %w", i.name, err)
	}
	return nil
}

// Delete removes one entry by objectID.
func (i *Index) Delete(ctx context.Context, objectID string) error {
	if _, err := i.index.DeleteObject(objectID, ctx); err != nil {
		return fmt.Errorf("deleting object %s from %s: %w", objectID, i.name, err)
	}
	return nil
}

// Clear removes every entry. Used by the periodic rebuild before re-adding
// the full record set.
func (i *Index) Clear(ctx context.Context) error {
	if _, err := i.index.ClearObjects(ctx); err != nil {
		return fmt.Errorf("clearing %s: %w", i.name, err)
	}
	return nil
}

// SaveBatch writes a full record set in one call.
func (i *Index) SaveBatch(ctx context.Context, records []any) error {
	if len(records) == 0 {
		return nil
	}
	if _, err := i.index.SaveObjects(records, ctx, opt.AutoGenerateObjectIDIfNotExist(true)); err != nil {
		return fmt.Errorf("batch saving to %s: %w", i.name, err)
	}
	return nil
}
