// Package generation defines the boundary between the dictionary service and
// the language model that produces meanings for a headword. Implementations
// live under internal/platform.
package generation
