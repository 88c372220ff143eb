package errors

import (
	"fmt"
)

// OperationError describes a failed file operation together with the path it ran against.
type OperationError struct {
	Op   string
	Path string
	Err  error
}

func (e *OperationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("aio: %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("aio: %s '%s' failed: %v", e.Op, e.Path, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func newError(err error, format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if err != nil {
		return fmt.Errorf("aio: %s: %w", text, err)
	}

	return fmt.Errorf("aio: %s", text)
}

// OperationFailed wraps err with the operation name and path. A nil err stays nil.
func OperationFailed(err error, op, path string) error {
	if err == nil {
		return nil
	}
	return &OperationError{Op: op, Path: path, Err: err}
}

// EngineUnsupported reports that the engine cannot execute op. err is usually data.ErrUnsupported.
func EngineUnsupported(err error, engine, op string) error {
	return newError(err, "engine '%s' does not support '%s'", engine, op)
}

// DescriptorMismatch reports a descriptor that was not created by the named engine.
func DescriptorMismatch(err error, engine string, fd any) error {
	return newError(err, "descriptor %T does not belong to engine '%s'", fd, engine)
}
