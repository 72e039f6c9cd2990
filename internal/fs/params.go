package fs

import (
	"bytes"
	"strings"

	srvErrors "github.com/kubev2v/async-worker/pkg/errors"
)

const (
	// PathLength is the size of the path buffers, terminating zero included.
	PathLength = 256
	// IOBufferSize bounds the bytes moved by a single read or write job.
	IOBufferSize = 2048

	// EOF is stored in Params.Result when a read reaches the end of a file
	// or a directory has no more entries.
	EOF = -1
)

type OpKind uint8

const (
	OpExist OpKind = iota + 1
	OpIsFile
	OpIsDirectory
	OpIsHidden
	OpCreate
	OpMakeDirectory
	OpDelete
	OpRename
	OpLength
	OpLastModified
	OpSetLastModified
	OpSetReadOnly
	OpIsAccessible
	OpSetPermission
	OpSpaceSize
	OpOpenDirectory
	OpReadDirectory
	OpCloseDirectory
	OpOpen
	OpRead
	OpWrite
	OpReadByte
	OpWriteByte
	OpSkip
	OpAvailable
	OpFlush
	OpClose
)

var opNames = map[OpKind]string{
	OpExist:           "exist",
	OpIsFile:          "is_file",
	OpIsDirectory:     "is_directory",
	OpIsHidden:        "is_hidden",
	OpCreate:          "create",
	OpMakeDirectory:   "make_directory",
	OpDelete:          "delete",
	OpRename:          "rename",
	OpLength:          "length",
	OpLastModified:    "last_modified",
	OpSetLastModified: "set_last_modified",
	OpSetReadOnly:     "set_read_only",
	OpIsAccessible:    "is_accessible",
	OpSetPermission:   "set_permission",
	OpSpaceSize:       "space_size",
	OpOpenDirectory:   "open_directory",
	OpReadDirectory:   "read_directory",
	OpCloseDirectory:  "close_directory",
	OpOpen:            "open",
	OpRead:            "read",
	OpWrite:           "write",
	OpReadByte:        "read_byte",
	OpWriteByte:       "write_byte",
	OpSkip:            "skip",
	OpAvailable:       "available",
	OpFlush:           "flush",
	OpClose:           "close",
}

func (k OpKind) String() string {
	if n, ok := opNames[k]; ok {
		return n
	}
	return "unknown"
}

// Mode is the opening mode of a file.
type Mode byte

const (
	ModeRead      Mode = 'R'
	ModeWrite     Mode = 'W'
	ModeAppend    Mode = 'A'
	ModeReadWrite Mode = 'B'
)

func ParseMode(s string) (Mode, bool) {
	switch s {
	case "r", "R", "read":
		return ModeRead, true
	case "w", "W", "write":
		return ModeWrite, true
	case "a", "A", "append":
		return ModeAppend, true
	case "rw", "RW", "read-write":
		return ModeReadWrite, true
	}
	return 0, false
}

type Access uint8

const (
	AccessRead Access = 1 << iota
	AccessWrite
	AccessExecute
)

type SpaceKind uint8

const (
	SpaceTotal SpaceKind = iota
	SpaceFree
	SpaceUsable
)

// Params is the fixed-size parameter block shared by every filesystem job.
// Kind tells which fields are meaningful.
type Params struct {
	Kind OpKind

	Path    [PathLength]byte
	NewPath [PathLength]byte

	// ID is a file or a directory handle.
	ID        int32
	Mode      Mode
	Access    Access
	Enable    bool
	OwnerOnly bool
	Space     SpaceKind
	// Modified is a unix time in milliseconds.
	Modified int64
	// N is the byte count requested by skip, read and write.
	N int64

	Result     int64
	ErrCode    int32
	ErrMessage string

	Buffer [IOBufferSize]byte
}

// SetPath copies path into the path buffer. A path that does not fit or
// holds a zero byte is rejected before any job is queued.
func (p *Params) SetPath(path string) error {
	return setPath(p.Path[:], path)
}

func (p *Params) SetNewPath(path string) error {
	return setPath(p.NewPath[:], path)
}

func (p *Params) PathString() string { return cString(p.Path[:]) }

func (p *Params) NewPathString() string { return cString(p.NewPath[:]) }

// SetBuffer copies data into the IO buffer and returns how many bytes fit.
func (p *Params) SetBuffer(data []byte) int {
	n := copy(p.Buffer[:], data)
	p.N = int64(n)
	return n
}

func (p *Params) fail(code int32, err error) error {
	p.ErrCode = code
	p.ErrMessage = err.Error()
	return err
}

func setPath(dst []byte, path string) error {
	// one byte is kept for the terminating zero
	if len(path) >= len(dst) {
		return srvErrors.NewPathTooLongError(len(path), len(dst)-1)
	}
	// the worker reads the path up to the first zero
	if strings.IndexByte(path, 0) >= 0 {
		return srvErrors.NewInvalidPathError("contains a NUL byte")
	}
	n := copy(dst, path)
	clear(dst[n:])
	return nil
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
