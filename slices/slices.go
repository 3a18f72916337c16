// Package slices provides the generic slice transformations the module uses
// for filtering and projecting collections.
package slices

// Filter returns the elements the predicate accepts, preserving order.
func Filter[T any](slice []T, predicate func(T) bool) []T {
	var result []T
	for _, item := range slice {
		if predicate(item) {
			result = append(result, item)
		}
	}
	return result
}

// Map projects every element through the mapper.
func Map[F any, T any](original []F, mapper func(F) T) []T {
	destination := make([]T, len(original))
	for i, item := range original {
		destination[i] = mapper(item)
	}
	return destination
}

// UnsafeMap projects every element through a mapper that can fail. The first
// error stops the projection and is returned as is.
func UnsafeMap[F any, T any](original []F, mapper func(F) (T, error)) ([]T, error) {
	destination := make([]T, len(original))
	for i, item := range original {
		var err error
		if destination[i], err = mapper(item); err != nil {
			return nil, err
		}
	}
	return destination, nil
}
