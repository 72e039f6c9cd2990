package services_test

import (
	"bytes"
	"context"
	"database/sql"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/kubev2v/async-worker/internal/fs"
	"github.com/kubev2v/async-worker/internal/models"
	"github.com/kubev2v/async-worker/internal/services"
	"github.com/kubev2v/async-worker/internal/store"
	"github.com/kubev2v/async-worker/internal/store/migrations"
	"github.com/kubev2v/async-worker/pkg/asyncworker"
	srvErrors "github.com/kubev2v/async-worker/pkg/errors"
)

var _ = Describe("Journal", func() {
	var (
		ctx     context.Context
		db      *sql.DB
		st      *store.Store
		journal *services.Journal
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(migrations.Run(ctx, db)).To(Succeed())
		st = store.NewStore(db)

		journal, err = services.NewJournal(st, asyncworker.Config{JobCount: 8})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		journal.Close()
		db.Close()
	})

	count := func() int {
		n, err := st.Operation().Count(ctx)
		Expect(err).NotTo(HaveOccurred())
		return n
	}

	It("should write a recorded operation", func() {
		accepted := journal.Record(models.Operation{Engine: "fs", Kind: "exist", StartedAt: time.Now()})
		Expect(accepted).To(BeTrue())

		Eventually(count).Should(Equal(1))
		Eventually(func() int { return journal.Engine().Stats().Busy }).Should(Equal(0))
	})

	// Given a filesystem service observed by the journal
	// When operations run on the filesystem worker
	// Then each of them ends up in the operations table
	It("should journal filesystem operations", func() {
		svc, err := fs.NewService(memfs.New(), asyncworker.Config{JobCount: 4, WaitingListSize: 16},
			fs.WithObserver(journal.ObserveFs))
		Expect(err).NotTo(HaveOccurred())
		defer svc.Close()

		Expect(svc.WriteFile(ctx, "a.txt", []byte("abc"))).To(Succeed())
		_, err = svc.Length(ctx, "missing.txt")
		Expect(err).To(HaveOccurred())

		// open, write, flush, close, length
		Eventually(count).Should(Equal(5))

		failed, err := st.Operation().List(ctx, store.ByFailed(true))
		Expect(err).NotTo(HaveOccurred())
		Expect(failed).To(HaveLen(1))
		Expect(failed[0].Kind).To(Equal("length"))
		Expect(failed[0].Path).To(Equal("missing.txt"))
	})

	It("should drop records once closed", func() {
		journal.Close()

		Expect(journal.Record(models.Operation{Engine: "fs", Kind: "exist"})).To(BeFalse())
		Expect(journal.Dropped()).To(Equal(int64(1)))
	})
})

var _ = Describe("OperationService", func() {
	var (
		ctx context.Context
		db  *sql.DB
		st  *store.Store
		svc *services.OperationService
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(migrations.Run(ctx, db)).To(Succeed())
		st = store.NewStore(db)
		svc = services.NewOperationService(st)

		now := time.Now()
		for i, kind := range []string{"open", "read", "read", "close"} {
			op := models.Operation{Engine: "fs", Kind: kind, StartedAt: now.Add(time.Duration(i) * time.Second)}
			Expect(st.Operation().Insert(ctx, &op)).To(Succeed())
		}
	})

	AfterEach(func() {
		db.Close()
	})

	It("should return a page and the total", func() {
		result, err := svc.List(ctx, services.OperationListParams{
			Filter: models.OperationFilter{Kinds: []string{"read"}},
			Limit:  1,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Operations).To(HaveLen(1))
		Expect(result.Total).To(Equal(2))
	})

	It("should export the operations as a workbook", func() {
		data, err := svc.Export(ctx, services.OperationListParams{})
		Expect(err).NotTo(HaveOccurred())

		f, err := excelize.OpenReader(bytes.NewReader(data))
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		rows, err := f.GetRows("operations")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(5))
		Expect(rows[0][1]).To(Equal("Engine"))
		Expect(rows[1][2]).To(Equal("close"))
	})

	It("should prune old operations", func() {
		deleted, err := svc.Prune(ctx, -time.Hour)
		Expect(err).NotTo(HaveOccurred())
		Expect(deleted).To(Equal(int64(4)))
	})

	It("should prune periodically until cancelled", func() {
		runCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			svc.RunRetention(runCtx, 10*time.Millisecond, -time.Hour)
		}()

		Eventually(func() int {
			n, err := st.Operation().Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			return n
		}).Should(BeZero())

		cancel()
		Eventually(done).Should(BeClosed())
	})
})

var _ = Describe("ResolveRoot", func() {
	var (
		ctx context.Context
		db  *sql.DB
		st  *store.Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(migrations.Run(ctx, db)).To(Succeed())
		st = store.NewStore(db)
	})

	AfterEach(func() {
		db.Close()
	})

	It("should persist the configured root and restore it later", func() {
		root, err := services.ResolveRoot(ctx, st, "/srv/data")
		Expect(err).NotTo(HaveOccurred())
		Expect(root).To(Equal("/srv/data"))

		root, err = services.ResolveRoot(ctx, st, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(root).To(Equal("/srv/data"))
	})

	It("should fail without any root", func() {
		_, err := services.ResolveRoot(ctx, st, "")
		Expect(srvErrors.IsInvalidConfigurationError(err)).To(BeTrue())
	})
})

var _ = Describe("EngineRegistry", func() {
	It("should report engines by name", func() {
		rt := asyncworker.NewChannelRuntime()
		a, err := asyncworker.New[int]("b-engine", asyncworker.Config{JobCount: 2}, rt)
		Expect(err).NotTo(HaveOccurred())
		defer a.Close()
		b, err := asyncworker.New[int]("a-engine", asyncworker.Config{JobCount: 1, WaitingListSize: 3}, rt)
		Expect(err).NotTo(HaveOccurred())
		defer b.Close()

		registry := services.NewEngineRegistry(a, b)

		list := registry.List()
		Expect(list).To(HaveLen(2))
		Expect(list[0].Name).To(Equal("a-engine"))
		Expect(list[0].WaitingCapacity).To(Equal(3))
		Expect(list[1].Worker).To(Equal(models.WorkerStatusIdle))

		_, err = registry.Get("nope")
		Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
	})
})
