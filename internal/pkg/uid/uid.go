// Package uid generates identifiers: numeric row ids, UUIDs for correlation
// and token ids, and lexically sortable ULIDs for object keys.
package uid

// NumberID generates int64 identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}
