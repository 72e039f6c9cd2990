package fs_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/async-worker/internal/fs"
	"github.com/kubev2v/async-worker/pkg/asyncworker"
	srvErrors "github.com/kubev2v/async-worker/pkg/errors"
)

var defaultConfig = asyncworker.Config{JobCount: 4, WaitingListSize: 16}

var _ = Describe("Service", func() {
	var (
		ctx     context.Context
		backing billy.Filesystem
		svc     *fs.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		backing = memfs.New()
	})

	AfterEach(func() {
		if svc != nil {
			svc.Close()
			svc = nil
		}
	})

	start := func(opts ...fs.Option) {
		var err error
		svc, err = fs.NewService(backing, defaultConfig, opts...)
		Expect(err).NotTo(HaveOccurred())
	}

	writeFixture := func(name, content string) {
		f, err := backing.Create(name)
		Expect(err).NotTo(HaveOccurred())
		_, err = f.Write([]byte(content))
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Close()).To(Succeed())
	}

	Context("path operations", func() {
		BeforeEach(func() {
			Expect(backing.MkdirAll("docs", 0o755)).To(Succeed())
			writeFixture("docs/readme.txt", "hello")
			writeFixture("docs/.hidden", "")
			start()
		})

		It("should report existence and kind of a path", func() {
			exist, err := svc.Exist(ctx, "docs/readme.txt")
			Expect(err).NotTo(HaveOccurred())
			Expect(exist).To(BeTrue())

			exist, err = svc.Exist(ctx, "docs/missing.txt")
			Expect(err).NotTo(HaveOccurred())
			Expect(exist).To(BeFalse())

			isFile, err := svc.IsFile(ctx, "docs/readme.txt")
			Expect(err).NotTo(HaveOccurred())
			Expect(isFile).To(BeTrue())

			isDir, err := svc.IsDirectory(ctx, "docs")
			Expect(err).NotTo(HaveOccurred())
			Expect(isDir).To(BeTrue())

			hidden, err := svc.IsHidden(ctx, "docs/.hidden")
			Expect(err).NotTo(HaveOccurred())
			Expect(hidden).To(BeTrue())
		})

		It("should return the length of a file", func() {
			length, err := svc.Length(ctx, "docs/readme.txt")
			Expect(err).NotTo(HaveOccurred())
			Expect(length).To(Equal(int64(5)))
		})

		It("should create a file only once", func() {
			created, err := svc.Create(ctx, "docs/new.txt")
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeTrue())

			created, err = svc.Create(ctx, "docs/new.txt")
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeFalse())
		})

		It("should make a directory whose parent exists", func() {
			Expect(svc.MakeDirectory(ctx, "docs/sub")).To(Succeed())

			isDir, err := svc.IsDirectory(ctx, "docs/sub")
			Expect(err).NotTo(HaveOccurred())
			Expect(isDir).To(BeTrue())

			err = svc.MakeDirectory(ctx, "docs/sub")
			Expect(srvErrors.IsIOError(err)).To(BeTrue())
		})

		It("should rename and delete a file", func() {
			Expect(svc.Rename(ctx, "docs/readme.txt", "docs/README.md")).To(Succeed())

			exist, err := svc.Exist(ctx, "docs/README.md")
			Expect(err).NotTo(HaveOccurred())
			Expect(exist).To(BeTrue())

			Expect(svc.Delete(ctx, "docs/README.md")).To(Succeed())
			exist, err = svc.Exist(ctx, "docs/README.md")
			Expect(err).NotTo(HaveOccurred())
			Expect(exist).To(BeFalse())
		})

		// Given a path that does not exist
		// When its length is requested
		// Then the action failure code reaches the caller
		It("should carry the action failure code to the caller", func() {
			_, err := svc.Length(ctx, "docs/missing.txt")
			Expect(fs.IsNotFound(err)).To(BeTrue())

			var ioErr *srvErrors.IOError
			Expect(err).To(BeAssignableToTypeOf(ioErr))
			Expect(err.Error()).To(ContainSubstring("missing.txt"))
		})

		It("should reject a path that does not fit the path buffer", func() {
			long := strings.Repeat("a", fs.PathLength)

			_, err := svc.Exist(ctx, long)
			Expect(srvErrors.IsParamsTooLargeError(err)).To(BeTrue())
			Expect(svc.Engine().Stats().Submitted).To(Equal(int64(0)))
			Expect(svc.Engine().Stats().Busy).To(Equal(0))
		})

		// Given a path holding a zero byte after an existing file name
		// When it is deleted
		// Then nothing is queued and the existing file is left alone
		It("should reject a path holding a NUL byte", func() {
			err := svc.Delete(ctx, "docs/readme.txt\x00.bak")
			Expect(srvErrors.IsInvalidParamsError(err)).To(BeTrue())
			Expect(svc.Engine().Stats().Submitted).To(Equal(int64(0)))

			err = svc.Rename(ctx, "docs/readme.txt", "docs/\x00")
			Expect(srvErrors.IsInvalidParamsError(err)).To(BeTrue())

			_, err = backing.Stat("docs/readme.txt")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should list a directory in lexical order", func() {
			names, err := svc.List(ctx, "docs")
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(Equal([]string{".hidden", "readme.txt"}))
		})

		It("should stat a file", func() {
			info, err := svc.Stat(ctx, "docs/readme.txt")
			Expect(err).NotTo(HaveOccurred())
			Expect(info.IsDir).To(BeFalse())
			Expect(info.Size).To(Equal(int64(5)))
		})

		It("should fail to stat a missing path", func() {
			_, err := svc.Stat(ctx, "nope")
			Expect(fs.IsNotFound(err)).To(BeTrue())
		})
	})

	Context("directory handles", func() {
		BeforeEach(func() {
			Expect(backing.MkdirAll("d", 0o755)).To(Succeed())
			writeFixture("d/b", "")
			writeFixture("d/a", "")
			start()
		})

		It("should read entries until EOF", func() {
			id, err := svc.OpenDirectory(ctx, "d")
			Expect(err).NotTo(HaveOccurred())

			name, err := svc.ReadDirectory(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("a"))
			name, err = svc.ReadDirectory(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("b"))
			_, err = svc.ReadDirectory(ctx, id)
			Expect(err).To(Equal(io.EOF))

			Expect(svc.CloseDirectory(ctx, id)).To(Succeed())
			_, err = svc.ReadDirectory(ctx, id)
			Expect(fs.IsBadHandle(err)).To(BeTrue())
		})
	})

	Context("file handles", func() {
		BeforeEach(func() {
			start()
		})

		// Given data larger than the IO buffer
		// When it is written and read back
		// Then it goes through several jobs and comes back intact
		It("should move data larger than the IO buffer in chunks", func() {
			data := bytes.Repeat([]byte("0123456789"), fs.IOBufferSize/2)

			Expect(svc.WriteFile(ctx, "big.bin", data)).To(Succeed())

			length, err := svc.Length(ctx, "big.bin")
			Expect(err).NotTo(HaveOccurred())
			Expect(length).To(Equal(int64(len(data))))

			got, err := svc.ReadFile(ctx, "big.bin")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(data))
			Expect(svc.Engine().Stats().Submitted).To(BeNumerically(">", int64(len(data)/fs.IOBufferSize)))
		})

		It("should read and write single bytes", func() {
			id, err := svc.Open(ctx, "byte.bin", fs.ModeWrite)
			Expect(err).NotTo(HaveOccurred())
			Expect(svc.WriteByte(ctx, id, 'x')).To(Succeed())
			Expect(svc.WriteByte(ctx, id, 'y')).To(Succeed())
			Expect(svc.CloseFile(ctx, id)).To(Succeed())

			id, err = svc.Open(ctx, "byte.bin", fs.ModeRead)
			Expect(err).NotTo(HaveOccurred())
			defer func() { Expect(svc.CloseFile(ctx, id)).To(Succeed()) }()

			c, err := svc.ReadByte(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(c).To(Equal(byte('x')))
			c, err = svc.ReadByte(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(c).To(Equal(byte('y')))
			_, err = svc.ReadByte(ctx, id)
			Expect(err).To(Equal(io.EOF))
		})

		It("should skip bytes and report what is left", func() {
			Expect(svc.WriteFile(ctx, "skip.txt", []byte("abcdefghij"))).To(Succeed())

			id, err := svc.Open(ctx, "skip.txt", fs.ModeRead)
			Expect(err).NotTo(HaveOccurred())
			defer func() { Expect(svc.CloseFile(ctx, id)).To(Succeed()) }()

			skipped, err := svc.Skip(ctx, id, 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(skipped).To(Equal(int64(4)))

			left, err := svc.Available(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(left).To(Equal(int64(6)))

			skipped, err = svc.Skip(ctx, id, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(skipped).To(Equal(int64(6)))
		})

		It("should append to an existing file", func() {
			Expect(svc.WriteFile(ctx, "log.txt", []byte("one\n"))).To(Succeed())

			id, err := svc.Open(ctx, "log.txt", fs.ModeAppend)
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.Write(ctx, id, []byte("two\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(svc.Flush(ctx, id)).To(Succeed())
			Expect(svc.CloseFile(ctx, id)).To(Succeed())

			got, err := svc.ReadFile(ctx, "log.txt")
			Expect(err).NotTo(HaveOccurred())
			Expect(string(got)).To(Equal("one\ntwo\n"))
		})

		It("should refuse to open a missing file for reading", func() {
			_, err := svc.Open(ctx, "missing", fs.ModeRead)
			Expect(fs.IsNotFound(err)).To(BeTrue())
		})

		It("should refuse an unknown handle", func() {
			_, err := svc.Available(ctx, 999)
			Expect(fs.IsBadHandle(err)).To(BeTrue())
		})

		It("should limit the number of open handles", func() {
			svc.Close()
			var err error
			svc, err = fs.NewService(backing, defaultConfig, fs.WithMaxHandles(1))
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.Open(ctx, "one", fs.ModeWrite)
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.Open(ctx, "two", fs.ModeWrite)
			var ioErr *srvErrors.IOError
			Expect(err).To(BeAssignableToTypeOf(ioErr))
			Expect(err.(*srvErrors.IOError).Code).To(Equal(fs.CodeTooMany))
		})
	})

	Context("callers that stop waiting", func() {
		var release func()

		// the observer runs on the worker after each action, holding it
		// until release is called
		BeforeEach(func() {
			Expect(backing.MkdirAll("d", 0o755)).To(Succeed())
			writeFixture("a.txt", "a")

			gate := make(chan struct{})
			release = sync.OnceFunc(func() { close(gate) })
			start(fs.WithMaxHandles(1), fs.WithObserver(func(asyncworker.Record[fs.Params]) {
				<-gate
			}))
		})

		AfterEach(func() {
			release()
		})

		// Given a single handle slot and a held worker
		// When the caller of an open gives up before the handle reaches it
		// Then the handle is closed and a later open gets the slot
		It("should close a file opened for a caller that gave up", func() {
			timeout, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
			defer cancel()
			_, err := svc.Open(timeout, "a.txt", fs.ModeRead)
			Expect(err).To(MatchError(context.DeadlineExceeded))

			release()

			id, err := svc.Open(ctx, "a.txt", fs.ModeRead)
			Expect(err).NotTo(HaveOccurred())
			Expect(svc.CloseFile(ctx, id)).To(Succeed())
		})

		It("should close a directory opened for a caller that gave up", func() {
			timeout, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
			defer cancel()
			_, err := svc.List(timeout, "d")
			Expect(err).To(MatchError(context.DeadlineExceeded))

			release()

			names, err := svc.List(ctx, "d")
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(BeEmpty())
			Expect(svc.Engine().Stats().Busy).To(Equal(0))
		})
	})

	Context("concurrent callers", func() {
		BeforeEach(func() {
			Expect(backing.MkdirAll("out", 0o755)).To(Succeed())
			start()
		})

		// Given more callers than job slots and waiting positions
		// When they all write their own file
		// Then every write succeeds and every slot is back in the free set
		It("should serve every caller", func() {
			const callers = 32
			var wg sync.WaitGroup
			errs := make(chan error, callers)
			for i := 0; i < callers; i++ {
				wg.Add(1)
				go func(i int) {
					defer GinkgoRecover()
					defer wg.Done()
					name := strings.Repeat("f", i+1)
					errs <- svc.WriteFile(ctx, "out/"+name, []byte(name))
				}(i)
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				Expect(err).NotTo(HaveOccurred())
			}
			names, err := svc.List(ctx, "out")
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(HaveLen(callers))
			Expect(svc.Engine().Stats().Busy).To(Equal(0))
		})
	})

	Context("space", func() {
		It("should ask the space function for the requested kind", func() {
			start(fs.WithSpaceFunc(func(root string, kind fs.SpaceKind) (int64, error) {
				return int64(kind+1) * 1024, nil
			}))

			free, err := svc.SpaceSize(ctx, fs.SpaceFree)
			Expect(err).NotTo(HaveOccurred())
			Expect(free).To(Equal(int64(2048)))
		})
	})

	Context("observer", func() {
		It("should report each operation with its kind", func() {
			kinds := make(chan fs.OpKind, 8)
			start(fs.WithObserver(func(r asyncworker.Record[fs.Params]) {
				kinds <- r.Params.Kind
			}))

			_, err := svc.Exist(ctx, "x")
			Expect(err).NotTo(HaveOccurred())
			Eventually(kinds).Should(Receive(Equal(fs.OpExist)))
		})

		It("should report the directory as the path of a directory read", func() {
			Expect(backing.MkdirAll("d", 0o755)).To(Succeed())
			writeFixture("d/entry", "")

			paths := make(chan string, 8)
			start(fs.WithObserver(func(r asyncworker.Record[fs.Params]) {
				if r.Params.Kind == fs.OpReadDirectory {
					paths <- r.Params.PathString()
				}
			}))

			names, err := svc.List(ctx, "d")
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(Equal([]string{"entry"}))

			// one entry, then the end of the directory
			Eventually(paths).Should(Receive(Equal("d")))
			Eventually(paths).Should(Receive(Equal("d")))
		})
	})

	Context("on the host filesystem", func() {
		BeforeEach(func() {
			backing = osfs.New(GinkgoT().TempDir(), osfs.WithBoundOS())
			writeFixture("data.txt", "payload")
			start()
		})

		It("should change permissions", func() {
			writable, err := svc.IsAccessible(ctx, "data.txt", fs.AccessWrite)
			Expect(err).NotTo(HaveOccurred())
			Expect(writable).To(BeTrue())

			Expect(svc.SetReadOnly(ctx, "data.txt")).To(Succeed())
			writable, err = svc.IsAccessible(ctx, "data.txt", fs.AccessWrite)
			Expect(err).NotTo(HaveOccurred())
			Expect(writable).To(BeFalse())

			Expect(svc.SetPermission(ctx, "data.txt", fs.AccessWrite, true, true)).To(Succeed())
			writable, err = svc.IsAccessible(ctx, "data.txt", fs.AccessWrite)
			Expect(err).NotTo(HaveOccurred())
			Expect(writable).To(BeTrue())
		})

		It("should set the last modification date", func() {
			when := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
			Expect(svc.SetLastModified(ctx, "data.txt", when)).To(Succeed())

			got, err := svc.LastModified(ctx, "data.txt")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Equal(when)).To(BeTrue())
		})

		It("should report the size of the host filesystem", func() {
			total, err := svc.SpaceSize(ctx, fs.SpaceTotal)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(BeNumerically(">", 0))
		})
	})

	Context("closed service", func() {
		It("should refuse new operations", func() {
			start()
			svc.Close()

			_, err := svc.Exist(ctx, "x")
			Expect(srvErrors.IsEngineClosedError(err)).To(BeTrue())
			svc = nil
		})
	})
})
