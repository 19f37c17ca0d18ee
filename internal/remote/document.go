package remote

import "context"

// Document is one remote record: its collection-unique id and its raw field
// map. Fields is never nil; a document with an empty body carries an empty
// map.
type Document struct {
	ID     string
	Fields map[string]any
}

// Reader is the read side of a remote collection.
type Reader interface {
	// FetchAll returns the current contents of the collection.
	FetchAll(ctx context.Context) ([]Document, error)

	// Observe opens a change stream. The document channel carries the full
	// collection contents after every remote change, starting with the
	// current state. When the stream terminates the document channel is
	// closed and the terminal cause is available on the error channel.
	Observe(ctx context.Context) (<-chan []Document, <-chan error)
}

// Writer is the mutation side of a remote collection.
type Writer interface {
	// Create stores fields under a fresh id and returns it. Nil-valued
	// fields are stripped before writing.
	Create(ctx context.Context, fields map[string]any) (string, error)

	// MergeSet merge-writes fields into an existing document. Top-level nil
	// values clear the corresponding remote field.
	MergeSet(ctx context.Context, id string, fields map[string]any) error

	// Delete removes a document. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
}

// ReadWriter combines both sides of a collection.
type ReadWriter interface {
	Reader
	Writer
}
