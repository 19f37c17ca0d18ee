// Package repo contains the per-family sync repositories that tie the three
// tiers together: remote collection, mapping boundary and local cache.
//
// # Overview
//
// A repository owns the mirror of one remote collection. Callers read from
// the local cache only (Observe/GetAll); the repository keeps that cache
// fresh through two paths: RefreshOnce, an explicit one-shot fetch whose
// failure the caller sees, and RunSync, a long-running loop that applies
// every remote snapshot and survives stream failures by restarting with
// backoff.
//
// # Error Handling
//
// The two paths treat errors differently on purpose. One-shot operations
// (RefreshOnce and the habit write path) propagate errors: they back
// explicit user actions and must be visibly reportable. RunSync contains
// errors at the subscription boundary: a dying stream is logged and the loop
// resubscribes, leaving callers on stale-but-usable local data. Malformed
// documents never fail either path; they are logged, counted (DroppedCount)
// and dropped.
//
// Key Types
//
//   - type TemplateRepository — read-only mirror of the template catalog
//   - type HabitRepository    — read-write mirror of the user's habits
//
// See also: internal/services for the orchestration layer on top.
package repo
