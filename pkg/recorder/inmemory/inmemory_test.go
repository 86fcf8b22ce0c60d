package inmemory_test

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/splice/pkg/recorder"
	"github.com/papercomputeco/splice/pkg/recorder/inmemory"
)

var _ = Describe("Driver", func() {
	var (
		driver *inmemory.Driver
		ctx    context.Context
	)

	BeforeEach(func() {
		driver = inmemory.NewDriver()
		ctx = context.Background()
	})

	It("round-trips a record", func() {
		rec := &recorder.Record{
			RequestID:   uuid.New(),
			Model:       "gpt-4o",
			Content:     "hello",
			CompletedAt: time.Now().UTC(),
		}

		Expect(driver.Put(ctx, rec)).To(Succeed())

		got, err := driver.Get(ctx, rec.RequestID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(rec))
	})

	It("rejects nil records", func() {
		Expect(driver.Put(ctx, nil)).NotTo(Succeed())
	})

	It("overwrites on duplicate request ID", func() {
		id := uuid.New()
		Expect(driver.Put(ctx, &recorder.Record{RequestID: id, Content: "v1"})).To(Succeed())
		Expect(driver.Put(ctx, &recorder.Record{RequestID: id, Content: "v2"})).To(Succeed())

		got, err := driver.Get(ctx, id)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Content).To(Equal("v2"))
		Expect(driver.Count()).To(Equal(1))
	})

	It("returns ErrNotFound for unknown IDs", func() {
		id := uuid.New()
		_, err := driver.Get(ctx, id)

		var notFound recorder.ErrNotFound
		Expect(errors.As(err, &notFound)).To(BeTrue())
		Expect(notFound.RequestID).To(Equal(id))
	})

	It("reports existence via Has", func() {
		rec := &recorder.Record{RequestID: uuid.New()}
		Expect(driver.Put(ctx, rec)).To(Succeed())

		ok, err := driver.Has(ctx, rec.RequestID)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())

		ok, err = driver.Has(ctx, uuid.New())
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("lists all records", func() {
		for range 3 {
			Expect(driver.Put(ctx, &recorder.Record{RequestID: uuid.New()})).To(Succeed())
		}

		records, err := driver.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(3))
	})

	It("closes without error", func() {
		Expect(driver.Close()).To(Succeed())
	})
})
