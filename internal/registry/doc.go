// Package registry implements the extension-scoped repository registry.
//
// One Registry exists per module extension evaluation. Every repository
// the extension declares passes through Declare, which enforces
// exactly-once naming, rewrites the user-chosen name to its externally
// unique prefixed form, and delegates attribute validation to the injected
// rule materializer. When evaluation completes, ExtractAll hands the
// accumulated specifications to the dependency-graph stage.
//
// The registry never fetches repository contents and never schedules
// work; it only proposes specifications. A failed Declare leaves the
// accumulated state exactly as it was before the call.
package registry
