package fs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"
	"go.uber.org/zap"
)

const defaultMaxHandles = 32

// SpaceFunc returns the total, free or usable size in bytes of the
// filesystem holding root.
type SpaceFunc func(root string, kind SpaceKind) (int64, error)

type handle struct {
	file billy.File
	name string
	mode Mode
}

type cursor struct {
	dir   string
	names []string
	next  int
}

// Backend executes filesystem jobs against a billy filesystem. Its handle
// tables are only touched by Execute, which runs on the worker goroutine.
type Backend struct {
	fs         billy.Filesystem
	space      SpaceFunc
	maxHandles int

	files  map[int32]*handle
	dirs   map[int32]*cursor
	nextID int32

	// handles opened for callers that stopped waiting, closed by the
	// worker before its next operation
	orphanMu sync.Mutex
	orphans  []orphan

	log *zap.SugaredLogger
}

func NewBackend(fsys billy.Filesystem, space SpaceFunc) *Backend {
	if space == nil {
		space = statfsSpace
	}
	return &Backend{
		fs:         fsys,
		space:      space,
		maxHandles: defaultMaxHandles,
		files:      make(map[int32]*handle),
		dirs:       make(map[int32]*cursor),
		log:        zap.S().Named("fs_worker"),
	}
}

type orphan struct {
	kind OpKind
	id   int32
}

// release schedules the handle returned by an open operation of the given
// kind for closing. It is safe to call from any goroutine.
func (b *Backend) release(kind OpKind, id int32) {
	b.orphanMu.Lock()
	b.orphans = append(b.orphans, orphan{kind: kind, id: id})
	b.orphanMu.Unlock()
}

func (b *Backend) reap() {
	b.orphanMu.Lock()
	orphans := b.orphans
	b.orphans = nil
	b.orphanMu.Unlock()

	for _, o := range orphans {
		switch o.kind {
		case OpOpen:
			if h, ok := b.files[o.id]; ok {
				delete(b.files, o.id)
				if err := h.file.Close(); err != nil {
					b.log.Warnw("failed to close orphaned file", "id", o.id, "name", h.name, "error", err)
				}
			}
		case OpOpenDirectory:
			delete(b.dirs, o.id)
		}
		b.log.Debugw("orphaned handle closed", "op", o.kind, "id", o.id)
	}
}

// Execute runs the operation selected by p.Kind. On failure the error code
// and message are stored in p as well.
func (b *Backend) Execute(p *Params) error {
	b.reap()
	if err := b.execute(p); err != nil {
		if name := p.PathString(); name != "" {
			err = fmt.Errorf("%s %s: %w", p.Kind, name, err)
		}
		b.log.Debugw("operation failed", "op", p.Kind, "path", p.PathString(), "id", p.ID, "error", err)
		return p.fail(codeOf(err), err)
	}
	return nil
}

func (b *Backend) execute(p *Params) error {
	switch p.Kind {
	case OpExist:
		_, err := b.stat(p)
		return b.boolResult(p, err == nil)
	case OpIsFile:
		fi, err := b.stat(p)
		return b.boolResult(p, err == nil && fi.Mode().IsRegular())
	case OpIsDirectory:
		fi, err := b.stat(p)
		return b.boolResult(p, err == nil && fi.IsDir())
	case OpIsHidden:
		name := path.Base(p.PathString())
		return b.boolResult(p, strings.HasPrefix(name, ".") && name != "." && name != "..")
	case OpCreate:
		return b.create(p)
	case OpMakeDirectory:
		return b.makeDirectory(p)
	case OpDelete:
		return b.fs.Remove(p.PathString())
	case OpRename:
		return b.fs.Rename(p.PathString(), p.NewPathString())
	case OpLength:
		fi, err := b.stat(p)
		if err != nil {
			return err
		}
		p.Result = fi.Size()
		return nil
	case OpLastModified:
		fi, err := b.stat(p)
		if err != nil {
			return err
		}
		p.Result = fi.ModTime().UnixMilli()
		return nil
	case OpSetLastModified:
		c, err := b.change()
		if err != nil {
			return err
		}
		t := time.UnixMilli(p.Modified)
		return c.Chtimes(p.PathString(), t, t)
	case OpSetReadOnly:
		return b.chmod(p, func(m os.FileMode) os.FileMode { return m &^ 0o222 })
	case OpIsAccessible:
		fi, err := b.stat(p)
		if err != nil {
			return b.boolResult(p, false)
		}
		bits := permissionBits(p.Access, true)
		return b.boolResult(p, fi.Mode().Perm()&bits == bits)
	case OpSetPermission:
		bits := permissionBits(p.Access, p.OwnerOnly)
		return b.chmod(p, func(m os.FileMode) os.FileMode {
			if p.Enable {
				return m | bits
			}
			return m &^ bits
		})
	case OpSpaceSize:
		size, err := b.space(b.fs.Root(), p.Space)
		if err != nil {
			return err
		}
		p.Result = size
		return nil
	case OpOpenDirectory:
		return b.openDirectory(p)
	case OpReadDirectory:
		return b.readDirectory(p)
	case OpCloseDirectory:
		if _, ok := b.dirs[p.ID]; !ok {
			return errBadHandle
		}
		delete(b.dirs, p.ID)
		return nil
	case OpOpen:
		return b.open(p)
	case OpRead:
		return b.read(p)
	case OpWrite:
		return b.write(p)
	case OpReadByte:
		p.N = 1
		if err := b.read(p); err != nil {
			return err
		}
		if p.Result != EOF {
			p.Result = int64(p.Buffer[0])
		}
		return nil
	case OpWriteByte:
		p.N = 1
		return b.write(p)
	case OpSkip:
		return b.skip(p)
	case OpAvailable:
		return b.available(p)
	case OpFlush:
		return b.flush(p)
	case OpClose:
		return b.close(p)
	}
	return fmt.Errorf("%w: operation %d", errUnsupported, p.Kind)
}

func (b *Backend) stat(p *Params) (os.FileInfo, error) {
	return b.fs.Stat(p.PathString())
}

func (b *Backend) boolResult(p *Params, v bool) error {
	p.Result = 0
	if v {
		p.Result = 1
	}
	return nil
}

func (b *Backend) change() (billy.Change, error) {
	c, ok := b.fs.(billy.Change)
	if !ok {
		return nil, errUnsupported
	}
	return c, nil
}

func (b *Backend) chmod(p *Params, fn func(os.FileMode) os.FileMode) error {
	c, err := b.change()
	if err != nil {
		return err
	}
	fi, err := b.stat(p)
	if err != nil {
		return err
	}
	return c.Chmod(p.PathString(), fn(fi.Mode().Perm()))
}

func permissionBits(access Access, ownerOnly bool) os.FileMode {
	var bits os.FileMode
	if access&AccessRead != 0 {
		bits |= 0o444
	}
	if access&AccessWrite != 0 {
		bits |= 0o222
	}
	if access&AccessExecute != 0 {
		bits |= 0o111
	}
	if ownerOnly {
		bits &= 0o700
	}
	return bits
}

// create reports 1 when the file was created and 0 when it already existed.
func (b *Backend) create(p *Params) error {
	f, err := b.fs.OpenFile(p.PathString(), os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o666)
	if errors.Is(err, os.ErrExist) {
		return b.boolResult(p, false)
	}
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return b.boolResult(p, true)
}

func (b *Backend) makeDirectory(p *Params) error {
	name := p.PathString()
	if _, err := b.fs.Stat(name); err == nil {
		return os.ErrExist
	}
	if parent := path.Dir(name); parent != "." && parent != "/" {
		fi, err := b.fs.Stat(parent)
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			return errNotDir
		}
	}
	return b.fs.MkdirAll(name, 0o755)
}

func (b *Backend) allocID() (int32, error) {
	if len(b.files)+len(b.dirs) >= b.maxHandles {
		return 0, errTooMany
	}
	b.nextID++
	return b.nextID, nil
}

func (b *Backend) openDirectory(p *Params) error {
	entries, err := b.fs.ReadDir(p.PathString())
	if err != nil {
		return err
	}
	id, err := b.allocID()
	if err != nil {
		return err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	b.dirs[id] = &cursor{dir: p.PathString(), names: names}
	p.ID = id
	p.Result = int64(id)
	return nil
}

// readDirectory stores the next entry name in p.NewPath, or EOF in
// p.Result. p.Path is set to the directory.
func (b *Backend) readDirectory(p *Params) error {
	c, ok := b.dirs[p.ID]
	if !ok {
		return errBadHandle
	}
	if err := p.SetPath(c.dir); err != nil {
		return err
	}
	if c.next >= len(c.names) {
		p.Result = EOF
		return nil
	}
	name := c.names[c.next]
	c.next++
	if err := p.SetNewPath(name); err != nil {
		return err
	}
	p.Result = int64(len(name))
	return nil
}

func (b *Backend) open(p *Params) error {
	var flag int
	switch p.Mode {
	case ModeRead:
		flag = os.O_RDONLY
	case ModeWrite:
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case ModeAppend:
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	case ModeReadWrite:
		flag = os.O_RDWR | os.O_CREATE
	default:
		return errInvalidMode
	}

	name := p.PathString()
	if fi, err := b.fs.Stat(name); err == nil && fi.IsDir() {
		return errIsDir
	}

	id, err := b.allocID()
	if err != nil {
		return err
	}
	f, err := b.fs.OpenFile(name, flag, 0o666)
	if err != nil {
		return err
	}
	b.files[id] = &handle{file: f, name: name, mode: p.Mode}
	p.ID = id
	p.Result = int64(id)
	return nil
}

func (b *Backend) lookup(p *Params) (*handle, error) {
	h, ok := b.files[p.ID]
	if !ok {
		return nil, errBadHandle
	}
	return h, nil
}

// read fills p.Buffer with at most p.N bytes. p.Result is the count read
// or EOF.
func (b *Backend) read(p *Params) error {
	h, err := b.lookup(p)
	if err != nil {
		return err
	}
	n := min(int(p.N), IOBufferSize)
	if n <= 0 {
		p.Result = 0
		return nil
	}
	read, err := h.file.Read(p.Buffer[:n])
	if read == 0 && errors.Is(err, io.EOF) {
		p.Result = EOF
		return nil
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	p.Result = int64(read)
	return nil
}

// write writes the first p.N bytes of p.Buffer. p.Result is the count written.
func (b *Backend) write(p *Params) error {
	h, err := b.lookup(p)
	if err != nil {
		return err
	}
	n := min(int(p.N), IOBufferSize)
	written, err := h.file.Write(p.Buffer[:max(n, 0)])
	p.Result = int64(written)
	return err
}

func (b *Backend) skip(p *Params) error {
	h, err := b.lookup(p)
	if err != nil {
		return err
	}
	pos, err := h.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	size, err := b.size(h)
	if err != nil {
		return err
	}
	n := max(min(p.N, size-pos), 0)
	if _, err := h.file.Seek(pos+n, io.SeekStart); err != nil {
		return err
	}
	p.Result = n
	return nil
}

func (b *Backend) available(p *Params) error {
	h, err := b.lookup(p)
	if err != nil {
		return err
	}
	pos, err := h.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	size, err := b.size(h)
	if err != nil {
		return err
	}
	p.Result = max(size-pos, 0)
	return nil
}

func (b *Backend) size(h *handle) (int64, error) {
	fi, err := b.fs.Stat(h.name)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

type syncer interface {
	Sync() error
}

func (b *Backend) flush(p *Params) error {
	h, err := b.lookup(p)
	if err != nil {
		return err
	}
	if s, ok := h.file.(syncer); ok {
		return s.Sync()
	}
	return nil
}

func (b *Backend) close(p *Params) error {
	h, err := b.lookup(p)
	if err != nil {
		return err
	}
	delete(b.files, p.ID)
	return h.file.Close()
}

// closeAll closes every handle left open. It must run on the worker
// goroutine or after the worker stopped.
func (b *Backend) closeAll() {
	for id, h := range b.files {
		if err := h.file.Close(); err != nil {
			b.log.Warnw("failed to close file", "id", id, "error", err)
		}
	}
	clear(b.files)
	clear(b.dirs)

	b.orphanMu.Lock()
	b.orphans = nil
	b.orphanMu.Unlock()
}
