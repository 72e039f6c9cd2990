package fs

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"
	"go.uber.org/zap"

	"github.com/kubev2v/async-worker/pkg/asyncworker"
)

const EngineName = "fs"

type Option func(s *Service)

// WithSpaceFunc replaces the statfs based space lookup.
func WithSpaceFunc(fn SpaceFunc) Option {
	return func(s *Service) {
		s.space = fn
	}
}

// WithObserver is called on the worker goroutine after every operation.
func WithObserver(fn func(asyncworker.Record[Params])) Option {
	return func(s *Service) {
		s.observer = fn
	}
}

func WithCallOptions(opts ...asyncworker.CallOption) Option {
	return func(s *Service) {
		s.callOpts = append(s.callOpts, opts...)
	}
}

func WithMaxHandles(n int) Option {
	return func(s *Service) {
		s.maxHandles = n
	}
}

// Service offloads filesystem operations to a dedicated worker. Every method
// blocks the calling goroutine until its job has completed or ctx is done.
type Service struct {
	engine  *asyncworker.Engine[Params]
	rt      *asyncworker.ChannelRuntime
	backend *Backend

	space      SpaceFunc
	observer   func(asyncworker.Record[Params])
	callOpts   []asyncworker.CallOption
	maxHandles int

	log *zap.SugaredLogger
}

func NewService(fsys billy.Filesystem, cfg asyncworker.Config, opts ...Option) (*Service, error) {
	s := &Service{
		rt:  asyncworker.NewChannelRuntime(),
		log: zap.S().Named("fs_service"),
	}
	for _, o := range opts {
		o(s)
	}

	s.backend = NewBackend(fsys, s.space)
	if s.maxHandles > 0 {
		s.backend.maxHandles = s.maxHandles
	}

	var engineOpts []asyncworker.Option[Params]
	if s.observer != nil {
		engineOpts = append(engineOpts, asyncworker.WithObserver(s.observer))
	}

	engine, err := asyncworker.New[Params](EngineName, cfg, s.rt, engineOpts...)
	if err != nil {
		return nil, err
	}
	s.engine = engine

	s.log.Infow("filesystem service started", "root", fsys.Root(), "jobs", cfg.JobCount, "waiting_list", cfg.WaitingListSize)
	return s, nil
}

// Engine exposes the underlying engine for stats and metrics.
func (s *Service) Engine() *asyncworker.Engine[Params] { return s.engine }

func (s *Service) Root() string { return s.backend.fs.Root() }

// Close stops the worker and closes every handle still open.
func (s *Service) Close() {
	s.engine.Close()
	s.backend.closeAll()
}

// call runs one operation. prepare fills the parameters, done reads the
// results when the operation succeeded.
func (s *Service) call(ctx context.Context, kind OpKind, prepare func(p *Params) error, done func(p *Params)) error {
	return asyncworker.Call(ctx, s.engine, s.rt, asyncworker.Request[Params]{
		Prepare: func(p *Params) error {
			p.Kind = kind
			if prepare == nil {
				return nil
			}
			return prepare(p)
		},
		Action: s.backend,
		Completion: asyncworker.CompletionFunc[Params](func(p *Params, err error) error {
			if err != nil {
				return toError(p, err)
			}
			if done != nil {
				done(p)
			}
			return nil
		}),
	}, s.callOpts...)
}

func (s *Service) pathCall(ctx context.Context, kind OpKind, path string, done func(p *Params)) error {
	return s.call(ctx, kind, func(p *Params) error { return p.SetPath(path) }, done)
}

func (s *Service) boolCall(ctx context.Context, kind OpKind, path string) (bool, error) {
	var v bool
	err := s.pathCall(ctx, kind, path, func(p *Params) { v = p.Result == 1 })
	return v, err
}

func (s *Service) int64Call(ctx context.Context, kind OpKind, path string) (int64, error) {
	var v int64
	err := s.pathCall(ctx, kind, path, func(p *Params) { v = p.Result })
	return v, err
}

func (s *Service) Exist(ctx context.Context, path string) (bool, error) {
	return s.boolCall(ctx, OpExist, path)
}

func (s *Service) IsFile(ctx context.Context, path string) (bool, error) {
	return s.boolCall(ctx, OpIsFile, path)
}

func (s *Service) IsDirectory(ctx context.Context, path string) (bool, error) {
	return s.boolCall(ctx, OpIsDirectory, path)
}

func (s *Service) IsHidden(ctx context.Context, path string) (bool, error) {
	return s.boolCall(ctx, OpIsHidden, path)
}

// Create creates an empty file. It returns false when the file already exists.
func (s *Service) Create(ctx context.Context, path string) (bool, error) {
	return s.boolCall(ctx, OpCreate, path)
}

// MakeDirectory creates a single directory whose parent must exist.
func (s *Service) MakeDirectory(ctx context.Context, path string) error {
	return s.pathCall(ctx, OpMakeDirectory, path, nil)
}

func (s *Service) Delete(ctx context.Context, path string) error {
	return s.pathCall(ctx, OpDelete, path, nil)
}

func (s *Service) Rename(ctx context.Context, from, to string) error {
	return s.call(ctx, OpRename, func(p *Params) error {
		if err := p.SetPath(from); err != nil {
			return err
		}
		return p.SetNewPath(to)
	}, nil)
}

func (s *Service) Length(ctx context.Context, path string) (int64, error) {
	return s.int64Call(ctx, OpLength, path)
}

func (s *Service) LastModified(ctx context.Context, path string) (time.Time, error) {
	ms, err := s.int64Call(ctx, OpLastModified, path)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}

func (s *Service) SetLastModified(ctx context.Context, path string, t time.Time) error {
	return s.call(ctx, OpSetLastModified, func(p *Params) error {
		p.Modified = t.UnixMilli()
		return p.SetPath(path)
	}, nil)
}

func (s *Service) SetReadOnly(ctx context.Context, path string) error {
	return s.pathCall(ctx, OpSetReadOnly, path, nil)
}

// IsAccessible reports whether the owner has every access in access.
func (s *Service) IsAccessible(ctx context.Context, path string, access Access) (bool, error) {
	var v bool
	err := s.call(ctx, OpIsAccessible, func(p *Params) error {
		p.Access = access
		return p.SetPath(path)
	}, func(p *Params) { v = p.Result == 1 })
	return v, err
}

func (s *Service) SetPermission(ctx context.Context, path string, access Access, enable, ownerOnly bool) error {
	return s.call(ctx, OpSetPermission, func(p *Params) error {
		p.Access = access
		p.Enable = enable
		p.OwnerOnly = ownerOnly
		return p.SetPath(path)
	}, nil)
}

func (s *Service) SpaceSize(ctx context.Context, kind SpaceKind) (int64, error) {
	var v int64
	err := s.call(ctx, OpSpaceSize, func(p *Params) error {
		p.Space = kind
		return nil
	}, func(p *Params) { v = p.Result })
	return v, err
}

func (s *Service) OpenDirectory(ctx context.Context, path string) (int32, error) {
	return s.openCall(ctx, OpOpenDirectory, func(p *Params) error { return p.SetPath(path) })
}

// openCall runs an operation returning a handle. When the caller stops
// waiting before the handle reaches it, the handle is released on the worker.
func (s *Service) openCall(ctx context.Context, kind OpKind, prepare func(p *Params) error) (int32, error) {
	var (
		mu     sync.Mutex
		id     int32
		opened bool
		gone   bool
	)
	err := s.call(ctx, kind, prepare, func(p *Params) {
		mu.Lock()
		defer mu.Unlock()
		if gone {
			s.backend.release(kind, p.ID)
			return
		}
		id, opened = p.ID, true
	})
	if err == nil {
		return id, nil
	}

	mu.Lock()
	defer mu.Unlock()
	gone = true
	if opened {
		s.backend.release(kind, id)
	}
	return 0, err
}

// ReadDirectory returns the next entry name of the directory, or io.EOF.
func (s *Service) ReadDirectory(ctx context.Context, id int32) (string, error) {
	var (
		name string
		eof  bool
	)
	err := s.call(ctx, OpReadDirectory, func(p *Params) error {
		p.ID = id
		return nil
	}, func(p *Params) {
		if p.Result == EOF {
			eof = true
			return
		}
		name = p.NewPathString()
	})
	if err != nil {
		return "", err
	}
	if eof {
		return "", io.EOF
	}
	return name, nil
}

func (s *Service) CloseDirectory(ctx context.Context, id int32) error {
	return s.idCall(ctx, OpCloseDirectory, id, nil)
}

// List returns the entry names of a directory in lexical order.
func (s *Service) List(ctx context.Context, path string) ([]string, error) {
	id, err := s.OpenDirectory(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := s.CloseDirectory(context.WithoutCancel(ctx), id); cerr != nil {
			s.log.Warnw("failed to close directory", "path", path, "id", id, "error", cerr)
		}
	}()

	var names []string
	for {
		name, err := s.ReadDirectory(ctx, id)
		if err == io.EOF {
			return names, nil
		}
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
}

func (s *Service) idCall(ctx context.Context, kind OpKind, id int32, done func(p *Params)) error {
	return s.call(ctx, kind, func(p *Params) error {
		p.ID = id
		return nil
	}, done)
}

func (s *Service) Open(ctx context.Context, path string, mode Mode) (int32, error) {
	return s.openCall(ctx, OpOpen, func(p *Params) error {
		p.Mode = mode
		return p.SetPath(path)
	})
}

// Read fills buf from the file and returns the number of bytes read, or
// io.EOF at the end of the file. Requests larger than the IO buffer are
// split across several jobs.
func (s *Service) Read(ctx context.Context, id int32, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		var (
			n   int
			eof bool
		)
		want := min(len(buf)-total, IOBufferSize)
		err := s.call(ctx, OpRead, func(p *Params) error {
			p.ID = id
			p.N = int64(want)
			return nil
		}, func(p *Params) {
			if p.Result == EOF {
				eof = true
				return
			}
			n = copy(buf[total:], p.Buffer[:p.Result])
		})
		if err != nil {
			return total, err
		}
		if eof {
			if total == 0 {
				return 0, io.EOF
			}
			return total, nil
		}
		total += n
		if n < want {
			break
		}
	}
	return total, nil
}

// Write writes data to the file through as many jobs as needed.
func (s *Service) Write(ctx context.Context, id int32, data []byte) (int, error) {
	total := 0
	for total < len(data) {
		var n int
		err := s.call(ctx, OpWrite, func(p *Params) error {
			p.ID = id
			p.SetBuffer(data[total:])
			return nil
		}, func(p *Params) { n = int(p.Result) })
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
	}
	return total, nil
}

// ReadByte returns the next byte of the file, or io.EOF.
func (s *Service) ReadByte(ctx context.Context, id int32) (byte, error) {
	var (
		v   int64
		eof bool
	)
	err := s.idCall(ctx, OpReadByte, id, func(p *Params) {
		v = p.Result
		eof = p.Result == EOF
	})
	if err != nil {
		return 0, err
	}
	if eof {
		return 0, io.EOF
	}
	return byte(v), nil
}

func (s *Service) WriteByte(ctx context.Context, id int32, c byte) error {
	return s.call(ctx, OpWriteByte, func(p *Params) error {
		p.ID = id
		p.Buffer[0] = c
		return nil
	}, nil)
}

// Skip moves the read position forward by at most n bytes and returns the
// number of bytes skipped.
func (s *Service) Skip(ctx context.Context, id int32, n int64) (int64, error) {
	var skipped int64
	err := s.call(ctx, OpSkip, func(p *Params) error {
		p.ID = id
		p.N = n
		return nil
	}, func(p *Params) { skipped = p.Result })
	return skipped, err
}

// Available returns the number of bytes left before the end of the file.
func (s *Service) Available(ctx context.Context, id int32) (int64, error) {
	var v int64
	err := s.idCall(ctx, OpAvailable, id, func(p *Params) { v = p.Result })
	return v, err
}

func (s *Service) Flush(ctx context.Context, id int32) error {
	return s.idCall(ctx, OpFlush, id, nil)
}

func (s *Service) CloseFile(ctx context.Context, id int32) error {
	return s.idCall(ctx, OpClose, id, nil)
}

// ReadFile reads a whole file.
func (s *Service) ReadFile(ctx context.Context, path string) ([]byte, error) {
	id, err := s.Open(ctx, path, ModeRead)
	if err != nil {
		return nil, err
	}
	defer s.closeQuietly(ctx, id)

	var out []byte
	buf := make([]byte, IOBufferSize)
	for {
		n, err := s.Read(ctx, id, buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// WriteFile creates or truncates a file and writes data to it.
func (s *Service) WriteFile(ctx context.Context, path string, data []byte) error {
	id, err := s.Open(ctx, path, ModeWrite)
	if err != nil {
		return err
	}
	if _, err := s.Write(ctx, id, data); err != nil {
		s.closeQuietly(ctx, id)
		return err
	}
	if err := s.Flush(ctx, id); err != nil {
		s.closeQuietly(ctx, id)
		return err
	}
	return s.CloseFile(ctx, id)
}

func (s *Service) closeQuietly(ctx context.Context, id int32) {
	if err := s.CloseFile(context.WithoutCancel(ctx), id); err != nil {
		s.log.Warnw("failed to close file", "id", id, "error", err)
	}
}

// Stat gathers the attributes of a path in a few jobs.
func (s *Service) Stat(ctx context.Context, path string) (FileInfo, error) {
	info := FileInfo{Path: path}

	exist, err := s.Exist(ctx, path)
	if err != nil {
		return info, err
	}
	if !exist {
		return info, errNotFound(path)
	}
	if info.IsDir, err = s.IsDirectory(ctx, path); err != nil {
		return info, err
	}
	if info.Hidden, err = s.IsHidden(ctx, path); err != nil {
		return info, err
	}
	if !info.IsDir {
		if info.Size, err = s.Length(ctx, path); err != nil {
			return info, err
		}
	}
	if info.Modified, err = s.LastModified(ctx, path); err != nil {
		return info, err
	}
	if info.Readable, err = s.IsAccessible(ctx, path, AccessRead); err != nil {
		return info, err
	}
	if info.Writable, err = s.IsAccessible(ctx, path, AccessWrite); err != nil {
		return info, err
	}
	return info, nil
}

type FileInfo struct {
	Path     string
	IsDir    bool
	Hidden   bool
	Size     int64
	Modified time.Time
	Readable bool
	Writable bool
}
