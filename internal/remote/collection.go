package remote

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
)

// Collection exposes one Firestore collection through the Reader/Writer
// surface. The zero value is not usable; construct with NewCollection.
type Collection struct {
	client *firestore.Client
	path   string
}

var _ ReadWriter = (*Collection)(nil)

// NewCollection returns a Collection handle for the slash-separated
// collection path, e.g. "habitTemplates" or "users/u1/habits".
func NewCollection(client *firestore.Client, path string) *Collection {
	return &Collection{client: client, path: path}
}

// Path returns the collection path the handle is bound to.
func (c *Collection) Path() string {
	return c.path
}

func (c *Collection) FetchAll(ctx context.Context) ([]Document, error) {
	iter := c.client.Collection(c.path).Documents(ctx)
	defer iter.Stop()

	docs, err := readAll(iter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", c.path, normalizeError(err))
	}
	return docs, nil
}

func (c *Collection) Observe(ctx context.Context) (<-chan []Document, <-chan error) {
	docs := make(chan []Document)
	errs := make(chan error, 1)

	go func() {
		defer close(docs)

		it := c.client.Collection(c.path).Snapshots(ctx)
		defer it.Stop()

		for {
			snap, err := it.Next()
			if err != nil {
				errs <- normalizeError(err)
				return
			}

			batch, err := readAll(snap.Documents)
			if err != nil {
				errs <- normalizeError(err)
				return
			}

			select {
			case docs <- batch:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}
	}()

	return docs, errs
}

func (c *Collection) Create(ctx context.Context, fields map[string]any) (string, error) {
	id := uuid.NewString()
	if _, err := c.client.Collection(c.path).Doc(id).Set(ctx, withoutNils(fields)); err != nil {
		return "", fmt.Errorf("failed to create document in %s: %w", c.path, normalizeError(err))
	}
	return id, nil
}

func (c *Collection) MergeSet(ctx context.Context, id string, fields map[string]any) error {
	_, err := c.client.Collection(c.path).Doc(id).Set(ctx, withDeleteSentinels(fields), firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to merge-write %s/%s: %w", c.path, id, normalizeError(err))
	}
	return nil
}

func (c *Collection) Delete(ctx context.Context, id string) error {
	if _, err := c.client.Collection(c.path).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", c.path, id, normalizeError(err))
	}
	return nil
}

func readAll(it *firestore.DocumentIterator) ([]Document, error) {
	var result []Document
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		data := doc.Data()
		if data == nil {
			data = map[string]any{}
		}
		result = append(result, Document{ID: doc.Ref.ID, Fields: data})
	}
	return result, nil
}

// withoutNils copies fields, dropping nil-valued keys. Used on create, where
// there is nothing to clear yet.
func withoutNils(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}

// withDeleteSentinels copies fields, replacing top-level nils with
// firestore.Delete so a merge-write clears those fields remotely.
func withDeleteSentinels(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if v == nil {
			out[k] = firestore.Delete
			continue
		}
		out[k] = v
	}
	return out
}
