package fs

import (
	"errors"
	"fmt"
	"io/fs"

	srvErrors "github.com/kubev2v/async-worker/pkg/errors"
)

// Error codes carried in Params.ErrCode.
const (
	CodeFailure     int32 = -1
	CodeNotFound    int32 = -2
	CodeBadHandle   int32 = -9
	CodePermission  int32 = -13
	CodeExist       int32 = -17
	CodeNotDir      int32 = -20
	CodeIsDir       int32 = -21
	CodeInvalid     int32 = -22
	CodeTooMany     int32 = -24
	CodeUnsupported int32 = -95
)

var (
	errBadHandle   = errors.New("invalid handle")
	errNotDir      = errors.New("not a directory")
	errIsDir       = errors.New("is a directory")
	errTooMany     = errors.New("too many open handles")
	errUnsupported = errors.New("operation not supported by the filesystem")
	errInvalidMode = errors.New("invalid open mode")
)

func codeOf(err error) int32 {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return CodeNotFound
	case errors.Is(err, fs.ErrPermission):
		return CodePermission
	case errors.Is(err, fs.ErrExist):
		return CodeExist
	case errors.Is(err, errBadHandle), errors.Is(err, fs.ErrClosed):
		return CodeBadHandle
	case errors.Is(err, errNotDir):
		return CodeNotDir
	case errors.Is(err, errIsDir):
		return CodeIsDir
	case errors.Is(err, errTooMany):
		return CodeTooMany
	case errors.Is(err, errUnsupported):
		return CodeUnsupported
	case errors.Is(err, errInvalidMode), errors.Is(err, fs.ErrInvalid):
		return CodeInvalid
	}
	return CodeFailure
}

// toError turns the outcome of a job into the caller's error. Failures
// reported by an action become an *errors.IOError, anything else (engine
// closed, panic) is returned as is.
func toError(p *Params, err error) error {
	if err == nil {
		return nil
	}
	if p.ErrCode != 0 {
		return srvErrors.NewIOError(p.ErrCode, p.ErrMessage)
	}
	return err
}

func errNotFound(path string) error {
	return srvErrors.NewIOError(CodeNotFound, fmt.Sprintf("%s: %s", path, fs.ErrNotExist))
}

// IsNotFound reports whether err is an IOError for a missing file.
func IsNotFound(err error) bool {
	var e *srvErrors.IOError
	return errors.As(err, &e) && e.Code == CodeNotFound
}

func IsBadHandle(err error) bool {
	var e *srvErrors.IOError
	return errors.As(err, &e) && e.Code == CodeBadHandle
}
