package comparer

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func IgnoreFieldsFor[T any](fields ...string) cmp.Option {
	var t T
	return cmpopts.IgnoreFields(t, fields...)
}

// IgnoreAuditFor ignores the store-assigned identity and audit columns.
func IgnoreAuditFor[T any]() cmp.Option {
	return IgnoreFieldsFor[T]("ID", "BaseTime")
}
