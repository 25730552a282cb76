// Package gen is the generation toolkit behind djinn: strict template
// rendering, validated filesystem operations, and the anchored mutation
// engine that edits previously generated files in place.
//
// Rendering is pure and deterministic. Every placeholder referenced by a
// template must be present in its context or rendering fails with a
// *RenderError; nothing is ever substituted silently.
//
// Mutations operate on append-only files through stable anchors. A missing
// or duplicated anchor is a *ConflictError and leaves the file untouched.
// A payload that is already present inside the anchor scope is a no-op,
// which makes repeated `djinn app` invocations idempotent. Every rewrite
// goes through a temporary file in the target directory followed by a
// rename, so an interrupted run never leaves a half-written file.
package gen
