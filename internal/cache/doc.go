// Package cache provides the local persistence layer for habits and habit
// templates.
//
// # Overview
//
// The package defines store interfaces for the two entity families plus a
// small key/value metadata store. SQLite-backed implementations persist data
// using a dbx.DBTX (either *sql.DB or *sql.Tx) and publish change
// notifications to observers, so the rest of the application can treat the
// cache as an observable source of truth while sync runs in the background.
//
// # Data Model
//
// Each habit and template occupies one row keyed by its remote document id.
// Slice-valued notification fields are stored as JSON text columns; instants
// are stored as integer epoch milliseconds. Habits list in insertion order,
// templates list by category and then name.
//
// # Observation
//
// Observe returns a channel that immediately carries the current row set and
// afterwards a fresh snapshot after every mutation. Channels are conflated:
// a slow reader only ever sees the latest state, never a backlog. The channel
// closes when the subscription context is cancelled.
//
// Key Types
//
//   - type HabitStore / TemplateStore — observable row stores
//   - type MetadataStore             — key/value store for sync bookkeeping
//   - type Stores                    — bundle produced by Open
//
// Typical Usage
//
//	stores, _ := cache.Open(ctx, "habits.db")
//	defer stores.Close()
//	ch, _ := stores.Habits.Observe(ctx)
//	for habits := range ch {
//		render(habits)
//	}
//
// See also: internal/models for the row structures.
package cache
