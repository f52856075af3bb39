// Package analysis provides an HTTP client for the external recipe analysis
// engine. The engine retrieves recipes by tag and builds ingredient
// co-occurrence matrices; this package only calls it.
package analysis
