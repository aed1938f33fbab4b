// Package domain defines the core entities of mdf.
//
// This package is the innermost layer of the hexagon. It has NO external
// dependencies and defines the fundamental types:
//
//   - FileInfo: a markdown file discovered by the scanner
//   - Document: an indexed markdown file with its token sets
//   - Query: a parsed search query
//   - SearchResult: a ranked hit referring to a document by path
//   - Settings: user configuration
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
