package utils

// Map converts each element of sli with mapper, keeping the order.
//
// Map of an empty (or nil) slice is an empty, non-nil slice, so it is marshalled as [] rather than null.
func Map[T any, R any](sli []T, mapper func(v T) R) []R {
	ret := make([]R, len(sli))
	for nth, v := range sli {
		ret[nth] = mapper(v)
	}
	return ret
}
