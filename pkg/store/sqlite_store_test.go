//go:build !windows && cgo

package store_test

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/store"
)

var _ = Describe("SQLiteStore", func() {
	var (
		sqlStore *store.SQLiteStore
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		sqlStore, err = store.NewSQLiteStore(store.SQLiteStoreConfig{
			Path: filepath.Join(GinkgoT().TempDir(), "advice.db"),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if sqlStore != nil {
			sqlStore.Close()
		}
	})

	It("should require a path", func() {
		_, err := store.NewSQLiteStore(store.SQLiteStoreConfig{})
		Expect(err).To(HaveOccurred())
	})

	It("should round-trip an entry including subcategories and metadata", func() {
		id, err := sqlStore.Insert(ctx, newEntry("Money & Finance", "save before you spend"))
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(BeNumerically(">", 0))

		entry, err := sqlStore.GetByID(ctx, id)
		Expect(err).NotTo(HaveOccurred())
		Expect(entry.Category).To(Equal("Money & Finance"))
		Expect(entry.Subcategories).To(Equal([]string{"Financial Stress"}))
		Expect(entry.ProcessingMetadata).To(Equal(`{"methods_used":["keyword"]}`))
		Expect(entry.AdminConfirmed).To(BeTrue())
		Expect(entry.CreatedAt).NotTo(BeZero())
	})

	It("should store empty subcategory lists as an empty string", func() {
		entry := newEntry("Emotional Support", "hold on")
		entry.Subcategories = nil
		id, err := sqlStore.Insert(ctx, entry)
		Expect(err).NotTo(HaveOccurred())

		got, err := sqlStore.GetByID(ctx, id)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Subcategories).To(BeEmpty())
	})

	It("should return ErrNotFound for missing IDs", func() {
		_, err := sqlStore.GetByID(ctx, 1234)
		Expect(err).To(Equal(store.ErrNotFound))
		Expect(sqlStore.Delete(ctx, 1234)).To(Equal(store.ErrNotFound))
	})

	It("should list with filters and pagination", func() {
		for i := 0; i < 3; i++ {
			_, err := sqlStore.Insert(ctx, newEntry("Money & Finance", "money advice"))
			Expect(err).NotTo(HaveOccurred())
		}
		unconfirmed := newEntry("Emotional Support", "you are not alone")
		unconfirmed.AdminConfirmed = false
		_, err := sqlStore.Insert(ctx, unconfirmed)
		Expect(err).NotTo(HaveOccurred())

		result, err := sqlStore.List(ctx, store.ListOptions{Limit: 2})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Entries).To(HaveLen(2))
		Expect(result.HasMore).To(BeTrue())
		Expect(result.Total).To(Equal(int64(4)))

		confirmed, err := sqlStore.List(ctx, store.ListOptions{ConfirmedOnly: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(confirmed.Entries).To(HaveLen(3))

		byCategory, err := sqlStore.List(ctx, store.ListOptions{Category: "Emotional Support"})
		Expect(err).NotTo(HaveOccurred())
		Expect(byCategory.Entries).To(HaveLen(1))
	})

	It("should search case-insensitively and escape wildcards", func() {
		_, err := sqlStore.Insert(ctx, newEntry("Money & Finance", "budget 100% of income"))
		Expect(err).NotTo(HaveOccurred())
		_, err = sqlStore.Insert(ctx, newEntry("Career & Studies", "study daily"))
		Expect(err).NotTo(HaveOccurred())

		results, err := sqlStore.Search(ctx, "BUDGET")
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(1))

		// A literal % must not act as a wildcard.
		results, err = sqlStore.Search(ctx, "100% of")
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(1))

		results, err = sqlStore.Search(ctx, "0%x")
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(BeEmpty())
	})

	It("should apply partial updates", func() {
		id, err := sqlStore.Insert(ctx, newEntry("Money & Finance", "save money"))
		Expect(err).NotTo(HaveOccurred())

		confirmed := false
		score := 0.95
		Expect(sqlStore.Update(ctx, id, store.EntryPatch{
			AdminConfirmed:  &confirmed,
			ConfidenceScore: &score,
			Subcategories:   []string{"Saving & Budgeting"},
		})).To(Succeed())

		entry, err := sqlStore.GetByID(ctx, id)
		Expect(err).NotTo(HaveOccurred())
		Expect(entry.AdminConfirmed).To(BeFalse())
		Expect(entry.ConfidenceScore).To(Equal(0.95))
		Expect(entry.Subcategories).To(Equal([]string{"Saving & Budgeting"}))
		Expect(entry.Information).To(Equal("save money"))

		Expect(sqlStore.Update(ctx, id, store.EntryPatch{})).To(Equal(store.ErrEmptyPatch))
	})

	It("should tally statistics", func() {
		_, err := sqlStore.Insert(ctx, newEntry("Money & Finance", "a"))
		Expect(err).NotTo(HaveOccurred())
		unconfirmed := newEntry("Emotional Support", "b")
		unconfirmed.AdminConfirmed = false
		_, err = sqlStore.Insert(ctx, unconfirmed)
		Expect(err).NotTo(HaveOccurred())

		stats, err := sqlStore.Statistics(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Total).To(Equal(int64(2)))
		Expect(stats.Confirmed).To(Equal(int64(1)))
		Expect(stats.PerCategory["Money & Finance"]).To(Equal(int64(1)))
	})
})
