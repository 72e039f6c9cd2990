package store_test

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/async-worker/internal/models"
	"github.com/kubev2v/async-worker/internal/store"
	"github.com/kubev2v/async-worker/internal/store/migrations"
)

var _ = Describe("OperationStore", func() {
	var (
		ctx  context.Context
		s    *store.Store
		db   *sql.DB
		base time.Time
	)

	insert := func(engine, kind, path, errMsg string, offset time.Duration) models.Operation {
		op := models.Operation{
			Engine:    engine,
			Kind:      kind,
			Path:      path,
			Result:    1,
			Error:     errMsg,
			StartedAt: base.Add(offset),
			Duration:  1500 * time.Microsecond,
		}
		Expect(s.Operation().Insert(ctx, &op)).To(Succeed())
		return op
	}

	BeforeEach(func() {
		ctx = context.Background()
		base = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(migrations.Run(ctx, db)).To(Succeed())

		s = store.NewStore(db)

		insert("fs", "exist", "docs/a.txt", "", 0)
		insert("fs", "read", "", "", time.Second)
		insert("fs", "length", "docs/missing.txt", "file does not exist", 2*time.Second)
		insert("journal", "insert", "", "", 3*time.Second)
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Context("Insert", func() {
		It("should assign an id when none is set", func() {
			op := insert("fs", "exist", "x", "", 4*time.Second)
			Expect(op.ID).NotTo(Equal(uuid.Nil))
		})

		It("should keep every field", func() {
			ops, err := s.Operation().List(ctx, store.ByKind("length"))
			Expect(err).NotTo(HaveOccurred())
			Expect(ops).To(HaveLen(1))

			op := ops[0]
			Expect(op.Engine).To(Equal("fs"))
			Expect(op.Path).To(Equal("docs/missing.txt"))
			Expect(op.Error).To(Equal("file does not exist"))
			Expect(op.Failed()).To(BeTrue())
			Expect(op.Duration).To(Equal(1500 * time.Microsecond))
			Expect(op.StartedAt.Equal(base.Add(2 * time.Second))).To(BeTrue())
		})
	})

	Context("List", func() {
		// Given operations from two engines
		// When we list with the default sort
		// Then the most recent comes first
		It("should list the most recent first", func() {
			ops, err := s.Operation().List(ctx, store.WithDefaultSort())
			Expect(err).NotTo(HaveOccurred())
			Expect(ops).To(HaveLen(4))
			Expect(ops[0].Engine).To(Equal("journal"))
			Expect(ops[3].Kind).To(Equal("exist"))
		})

		It("should filter by engine and failure", func() {
			ops, err := s.Operation().List(ctx, store.ByEngine("fs"), store.ByFailed(false))
			Expect(err).NotTo(HaveOccurred())
			Expect(ops).To(HaveLen(2))

			ops, err = s.Operation().List(ctx, store.ByFailed(true))
			Expect(err).NotTo(HaveOccurred())
			Expect(ops).To(HaveLen(1))
		})

		It("should filter by path prefix", func() {
			ops, err := s.Operation().List(ctx, store.ByPathPrefix("docs/"))
			Expect(err).NotTo(HaveOccurred())
			Expect(ops).To(HaveLen(2))
		})

		It("should apply a filter model", func() {
			failed := false
			since := base.Add(time.Second)
			ops, err := s.Operation().List(ctx, store.WithFilter(models.OperationFilter{
				Engine: "fs",
				Failed: &failed,
				Since:  &since,
			}))
			Expect(err).NotTo(HaveOccurred())
			Expect(ops).To(HaveLen(1))
			Expect(ops[0].Kind).To(Equal("read"))
		})

		It("should paginate", func() {
			ops, err := s.Operation().List(ctx,
				store.WithSort([]store.SortParam{{Field: "startedAt"}}),
				store.WithLimit(2),
				store.WithOffset(1),
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(ops).To(HaveLen(2))
			Expect(ops[0].Kind).To(Equal("read"))
			Expect(ops[1].Kind).To(Equal("length"))
		})
	})

	Context("Count", func() {
		It("should count the matching operations", func() {
			count, err := s.Operation().Count(ctx, store.ByEngine("fs"))
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(3))
		})
	})

	Context("Prune", func() {
		It("should delete operations older than the given time", func() {
			deleted, err := s.Operation().Prune(ctx, base.Add(2*time.Second))
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(Equal(int64(2)))

			count, err := s.Operation().Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(2))
		})
	})
})
