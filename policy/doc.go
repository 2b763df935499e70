// Package policy provides an optional per-action approval layer attached to
// an advancement call via context. It is deliberately decoupled from the
// rest of the engine so that using it is entirely opt-in; callers that do
// not embed a Policy in their context keep the original "auto" behaviour.
package policy
