// Package idgen wraps UUID generation so that instance identifiers can be
// stubbed in tests. Callers must treat the returned identifiers as opaque
// globally-unique strings.
package idgen
