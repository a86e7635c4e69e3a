package util

// Ptr returns a pointer to a copy of v.
func Ptr[V any](v V) *V {
	return &v
}
