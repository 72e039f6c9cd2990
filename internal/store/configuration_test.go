package store_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/async-worker/internal/models"
	"github.com/kubev2v/async-worker/internal/store"
	"github.com/kubev2v/async-worker/internal/store/migrations"
	srvErrors "github.com/kubev2v/async-worker/pkg/errors"
)

var _ = Describe("ConfigurationStore", func() {
	var (
		ctx context.Context
		s   *store.Store
		db  *sql.DB
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())

		err = migrations.Run(ctx, db)
		Expect(err).NotTo(HaveOccurred())

		s = store.NewStore(db)
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Context("Get", func() {
		// Given an empty configuration store
		// When we try to get the configuration
		// Then it should return ConfigurationNotFoundError
		It("should return ConfigurationNotFoundError when no configuration exists", func() {
			// Act
			_, err := s.Configuration().Get(ctx)

			// Assert
			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})

		// Given a saved configuration in the store
		// When we retrieve the configuration
		// Then it should return the saved filesystem root
		It("should return saved configuration", func() {
			// Arrange
			cfg := &models.Configuration{FsRoot: "/srv/data"}
			err := s.Configuration().Save(ctx, cfg)
			Expect(err).NotTo(HaveOccurred())

			// Act
			retrieved, err := s.Configuration().Get(ctx)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(retrieved.FsRoot).To(Equal("/srv/data"))
			Expect(retrieved.UpdatedAt).NotTo(BeZero())
		})
	})

	Context("Save", func() {
		// Given existing configuration in the store
		// When we save a new configuration
		// Then it should update the existing record (upsert)
		It("should upsert existing configuration", func() {
			// Arrange
			err := s.Configuration().Save(ctx, &models.Configuration{FsRoot: "/first"})
			Expect(err).NotTo(HaveOccurred())

			// Act
			err = s.Configuration().Save(ctx, &models.Configuration{FsRoot: "/second"})
			Expect(err).NotTo(HaveOccurred())

			// Assert
			retrieved, err := s.Configuration().Get(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(retrieved.FsRoot).To(Equal("/second"))

			var rows int
			Expect(db.QueryRowContext(ctx, `SELECT COUNT(*) FROM configuration`).Scan(&rows)).To(Succeed())
			Expect(rows).To(Equal(1))
		})
	})

	Context("Concurrent writes", func() {
		// Given multiple goroutines writing to the same configuration
		// When all goroutines attempt to save configuration simultaneously
		// Then all writes should succeed and the final value should be one of the written values
		It("should handle concurrent writes from multiple goroutines", func() {
			const numGoroutines = 20
			var wg sync.WaitGroup
			errs := make(chan error, numGoroutines)
			written := make([]string, numGoroutines)

			for i := 0; i < numGoroutines; i++ {
				written[i] = fmt.Sprintf("/root-%d", i)
				wg.Add(1)
				go func(idx int) {
					defer wg.Done()
					if err := s.Configuration().Save(ctx, &models.Configuration{FsRoot: written[idx]}); err != nil {
						errs <- fmt.Errorf("goroutine %d: %w", idx, err)
					}
				}(i)
			}

			wg.Wait()
			close(errs)

			var all []error
			for err := range errs {
				all = append(all, err)
			}
			Expect(all).To(BeEmpty(), "Expected no errors from concurrent writes, got: %v", all)

			retrieved, err := s.Configuration().Get(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(written).To(ContainElement(retrieved.FsRoot))
		})
	})
})
