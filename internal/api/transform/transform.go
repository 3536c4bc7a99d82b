// Package transform maps domain records onto their API representation.
package transform

// ToList applies a single-record mapper to every element.
func ToList[T any, U any](items []*T, mapper func(*T) U) []U {
	values := make([]U, 0, len(items))

	for _, item := range items {
		values = append(values, mapper(item))
	}

	return values
}
