package store_test

import (
	"context"
	"fmt"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Mayankojhaa/AI-BABA-PROJECT/pkg/store"
)

func TestStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Advice Store Suite")
}

func newEntry(category, information string) *store.AdviceEntry {
	return &store.AdviceEntry{
		Category:           category,
		Subcategories:      []string{"Financial Stress"},
		Information:        information,
		OriginalText:       information,
		ConfidenceScore:    0.8,
		ProcessingMetadata: `{"methods_used":["keyword"]}`,
		AdminConfirmed:     true,
	}
}

var _ = Describe("MemoryStore", func() {
	var (
		memStore *store.MemoryStore
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		memStore = store.NewMemoryStore()
	})

	AfterEach(func() {
		if memStore != nil {
			memStore.Close()
		}
	})

	Describe("Insert", func() {
		It("should assign sequential IDs and set timestamps", func() {
			id1, err := memStore.Insert(ctx, newEntry("Money & Finance", "save before you spend"))
			Expect(err).NotTo(HaveOccurred())
			id2, err := memStore.Insert(ctx, newEntry("Money & Finance", "avoid debt"))
			Expect(err).NotTo(HaveOccurred())
			Expect(id2).To(Equal(id1 + 1))

			entry, err := memStore.GetByID(ctx, id1)
			Expect(err).NotTo(HaveOccurred())
			Expect(entry.CreatedAt).NotTo(BeZero())
			Expect(entry.UpdatedAt).To(Equal(entry.CreatedAt))
		})

		It("should reject nil entries", func() {
			_, err := memStore.Insert(ctx, nil)
			Expect(err).To(Equal(store.ErrInvalidInput))
		})

		It("should reject entries without category or information", func() {
			_, err := memStore.Insert(ctx, &store.AdviceEntry{Information: "text"})
			Expect(err).To(Equal(store.ErrInvalidInput))

			_, err = memStore.Insert(ctx, &store.AdviceEntry{Category: "Money & Finance"})
			Expect(err).To(Equal(store.ErrInvalidInput))
		})

		It("should store a copy, not the caller's pointer", func() {
			entry := newEntry("Money & Finance", "original text")
			id, err := memStore.Insert(ctx, entry)
			Expect(err).NotTo(HaveOccurred())

			entry.Information = "mutated after insert"
			entry.Subcategories[0] = "mutated"

			stored, err := memStore.GetByID(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Information).To(Equal("original text"))
			Expect(stored.Subcategories).To(Equal([]string{"Financial Stress"}))
		})
	})

	Describe("GetByID", func() {
		It("should return ErrNotFound for missing IDs", func() {
			_, err := memStore.GetByID(ctx, 42)
			Expect(err).To(Equal(store.ErrNotFound))
		})

		It("should return ErrInvalidID for non-positive IDs", func() {
			_, err := memStore.GetByID(ctx, 0)
			Expect(err).To(Equal(store.ErrInvalidID))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			for i := 0; i < 5; i++ {
				entry := newEntry("Money & Finance", fmt.Sprintf("money advice %d", i))
				_, err := memStore.Insert(ctx, entry)
				Expect(err).NotTo(HaveOccurred())
			}
			unconfirmed := newEntry("Emotional Support", "it gets better")
			unconfirmed.AdminConfirmed = false
			_, err := memStore.Insert(ctx, unconfirmed)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return newest entries first", func() {
			result, err := memStore.List(ctx, store.ListOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Entries).To(HaveLen(6))
			Expect(result.Entries[0].Information).To(Equal("it gets better"))
			Expect(result.Total).To(Equal(int64(6)))
		})

		It("should filter by category", func() {
			result, err := memStore.List(ctx, store.ListOptions{Category: "Emotional Support"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Entries).To(HaveLen(1))
		})

		It("should filter to confirmed entries", func() {
			result, err := memStore.List(ctx, store.ListOptions{ConfirmedOnly: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Entries).To(HaveLen(5))
		})

		It("should paginate with limit and offset", func() {
			page1, err := memStore.List(ctx, store.ListOptions{Limit: 4})
			Expect(err).NotTo(HaveOccurred())
			Expect(page1.Entries).To(HaveLen(4))
			Expect(page1.HasMore).To(BeTrue())

			page2, err := memStore.List(ctx, store.ListOptions{Limit: 4, Offset: 4})
			Expect(err).NotTo(HaveOccurred())
			Expect(page2.Entries).To(HaveLen(2))
			Expect(page2.HasMore).To(BeFalse())
		})
	})

	Describe("Search", func() {
		BeforeEach(func() {
			_, err := memStore.Insert(ctx, newEntry("Money & Finance", "Track every rupee you spend"))
			Expect(err).NotTo(HaveOccurred())
			_, err = memStore.Insert(ctx, newEntry("Emotional Support", "Talk to someone you trust"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should match case-insensitively against the text", func() {
			results, err := memStore.Search(ctx, "RUPEE")
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Category).To(Equal("Money & Finance"))
		})

		It("should match against the category name", func() {
			results, err := memStore.Search(ctx, "emotional")
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
		})

		It("should reject blank terms", func() {
			_, err := memStore.Search(ctx, "   ")
			Expect(err).To(Equal(store.ErrInvalidInput))
		})
	})

	Describe("Update", func() {
		var id int64

		BeforeEach(func() {
			var err error
			id, err = memStore.Insert(ctx, newEntry("Money & Finance", "save money"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should apply a partial patch and leave the rest untouched", func() {
			confirmed := false
			category := "Emotional Support"
			err := memStore.Update(ctx, id, store.EntryPatch{
				Category:       &category,
				AdminConfirmed: &confirmed,
			})
			Expect(err).NotTo(HaveOccurred())

			entry, err := memStore.GetByID(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(entry.Category).To(Equal("Emotional Support"))
			Expect(entry.AdminConfirmed).To(BeFalse())
			Expect(entry.Information).To(Equal("save money"))
			Expect(entry.UpdatedAt).To(BeTemporally(">=", entry.CreatedAt))
		})

		It("should replace the subcategory list when given", func() {
			err := memStore.Update(ctx, id, store.EntryPatch{
				Subcategories: []string{"Saving & Budgeting", "Financial Stress"},
			})
			Expect(err).NotTo(HaveOccurred())

			entry, err := memStore.GetByID(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(entry.Subcategories).To(Equal([]string{"Saving & Budgeting", "Financial Stress"}))
		})

		It("should reject an empty patch", func() {
			err := memStore.Update(ctx, id, store.EntryPatch{})
			Expect(err).To(Equal(store.ErrEmptyPatch))
		})

		It("should return ErrNotFound for missing IDs", func() {
			info := "x"
			err := memStore.Update(ctx, 999, store.EntryPatch{Information: &info})
			Expect(err).To(Equal(store.ErrNotFound))
		})
	})

	Describe("Delete", func() {
		It("should remove the entry", func() {
			id, err := memStore.Insert(ctx, newEntry("Money & Finance", "save money"))
			Expect(err).NotTo(HaveOccurred())

			Expect(memStore.Delete(ctx, id)).To(Succeed())
			_, err = memStore.GetByID(ctx, id)
			Expect(err).To(Equal(store.ErrNotFound))
			Expect(memStore.EntryCount()).To(Equal(0))
		})

		It("should return ErrNotFound for missing IDs", func() {
			Expect(memStore.Delete(ctx, 7)).To(Equal(store.ErrNotFound))
		})
	})

	Describe("Statistics", func() {
		It("should tally totals, confirmed and per-category counts", func() {
			_, err := memStore.Insert(ctx, newEntry("Money & Finance", "a"))
			Expect(err).NotTo(HaveOccurred())
			_, err = memStore.Insert(ctx, newEntry("Money & Finance", "b"))
			Expect(err).NotTo(HaveOccurred())
			unconfirmed := newEntry("Emotional Support", "c")
			unconfirmed.AdminConfirmed = false
			_, err = memStore.Insert(ctx, unconfirmed)
			Expect(err).NotTo(HaveOccurred())

			stats, err := memStore.Statistics(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.Total).To(Equal(int64(3)))
			Expect(stats.Confirmed).To(Equal(int64(2)))
			Expect(stats.PerCategory).To(Equal(map[string]int64{
				"Money & Finance":   2,
				"Emotional Support": 1,
			}))
		})
	})
})

var _ = Describe("Factory", func() {
	It("should default to the memory backend", func() {
		s, err := store.NewStore(store.Config{})
		Expect(err).NotTo(HaveOccurred())
		defer s.Close()
		Expect(s.TestConnection(context.Background())).To(Succeed())
	})

	It("should reject unknown backends", func() {
		_, err := store.NewStore(store.Config{Backend: "cassandra"})
		Expect(err).To(HaveOccurred())
	})

	Describe("ValidateConfig", func() {
		It("should accept an empty config", func() {
			Expect(store.ValidateConfig(store.Config{})).To(Succeed())
		})

		It("should require a path for sqlite", func() {
			Expect(store.ValidateConfig(store.Config{Backend: store.SQLiteBackend})).NotTo(Succeed())
			Expect(store.ValidateConfig(store.Config{
				Backend: store.SQLiteBackend,
				SQLite:  store.SQLiteStoreConfig{Path: "advice.db"},
			})).To(Succeed())
		})

		It("should require an address for redis", func() {
			Expect(store.ValidateConfig(store.Config{Backend: store.RedisBackend})).NotTo(Succeed())
			Expect(store.ValidateConfig(store.Config{
				Backend: store.RedisBackend,
				Redis:   store.RedisStoreConfig{Address: "localhost:6379"},
			})).To(Succeed())
		})
	})
})
