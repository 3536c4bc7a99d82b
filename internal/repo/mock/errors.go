package mock

import "errors"

var (
	ErrMustPointerToSlice = errors.New("result must be a pointer to a slice")
	ErrMustBeSlice        = errors.New("result must point to a slice")
	ErrItemNotAssignable  = errors.New("item is not assignable to result slice")
	ErrUnknownField       = errors.New("unknown query field for model")
	ErrIncomparableValues = errors.New("values cannot be compared")
	ErrSchemaNotMigrated  = errors.New("tenant schema not migrated")
)
