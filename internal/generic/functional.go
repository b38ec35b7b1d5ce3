package generic

// Filter returns the elements of s for which f returns true.
func Filter[T any](s []T, f func(T) bool) []T {
	var res []T
	for _, v := range s {
		if f(v) {
			res = append(res, v)
		}
	}
	return res
}

// Any reports whether f returns true for at least one element.
func Any[T any](s []T, f func(T) bool) bool {
	for _, v := range s {
		if f(v) {
			return true
		}
	}
	return false
}

// Ptr returns a pointer to a copy of v. Handy for optional fields.
func Ptr[T any](v T) *T {
	return &v
}
