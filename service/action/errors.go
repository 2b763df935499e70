package action

import "fmt"

// NewArityError reports a call with the wrong number of arguments.
func NewArityError(name string, want, got int) error {
	return fmt.Errorf("%v expects %v argument(s), got %v", name, want, got)
}

// NewInvalidArgumentError reports an argument the handler cannot use.
func NewInvalidArgumentError(name string, pos int, detail string) error {
	return fmt.Errorf("%v argument %v: %v", name, pos, detail)
}

// NewUnknownTargetError reports a call addressing a feature the instance
// does not have.
func NewUnknownTargetError(name, target string) error {
	return fmt.Errorf("%v target %v not found", name, target)
}
