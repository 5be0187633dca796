package log

import (
	"github.com/apache/arrow/go/v17/arrow"
	"go.uber.org/zap"
)

const (
	FieldNameModule    = "module"
	FieldNameComponent = "component"
	FieldNameFunction  = "function"
	FieldNameDataType  = "dataType"
)

// FieldModule returns a zap field with the module name.
func FieldModule(module string) zap.Field {
	return zap.String(FieldNameModule, module)
}

// FieldComponent returns a zap field with the component name.
func FieldComponent(component string) zap.Field {
	return zap.String(FieldNameComponent, component)
}

// FieldFunction returns a zap field with the function name.
func FieldFunction(name string) zap.Field {
	return zap.String(FieldNameFunction, name)
}

// FieldDataType returns a zap field with the arrow data type, nil prints as "<nil>".
func FieldDataType(dt arrow.DataType) zap.Field {
	if dt == nil {
		return zap.String(FieldNameDataType, "<nil>")
	}
	return zap.Stringer(FieldNameDataType, dt)
}
