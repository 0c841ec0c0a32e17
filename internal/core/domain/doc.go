// Package domain defines the core business entities for the failure case advisor.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: A (title, body) failure case extracted from a document
//   - Format: The closed set of document formats the parsers understand
//   - RankedResult: A record scored against a query
//   - Advice: A generated answer grounded in ranked records
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
