package shapes

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrModuleNotFound  = errors.New("shapes: module not found")
	ErrShapeNotFound   = errors.New("shapes: shape class not found")
	ErrExampleNotFound = errors.New("shapes: example not found")
	ErrPartNotFound    = errors.New("shapes: part not found")
)

// NotFoundError reports a shape class missing from a module together with
// the classes the module does provide.
type NotFoundError struct {
	Module    string
	Shape     string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Shape class %s not found in module %s. Available classes: [%s]",
		e.Shape, e.Module, strings.Join(e.Available, ", "))
}

func (e *NotFoundError) Unwrap() error {
	return ErrShapeNotFound
}
