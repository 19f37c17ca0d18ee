// Package remote adapts a Cloud Firestore collection to the narrow surface
// the sync repositories need: a one-shot fetch, a snapshot change stream and
// three mutations (create, merge-write, delete).
//
// Documents cross this boundary as raw id + field-map pairs; interpreting the
// fields is the job of internal/convert. Errors coming back from Firestore
// are normalized onto the sentinels in internal/common where a category
// exists for them, so callers can branch with errors.Is instead of inspecting
// gRPC status codes.
package remote
