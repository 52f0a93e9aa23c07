package internal_test

import (
	"context"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Context helpers", func() {
	It("carries the idempotency key", func() {
		ctx := internal.ContextWithIdempotencyKey(context.Background(), "submit-1")
		Expect(internal.IdempotencyKeyFromContext(ctx)).To(Equal("submit-1"))
		Expect(internal.IdempotencyKeyFromContext(context.Background())).To(BeEmpty())
	})

	It("bounds a context by the given duration", func() {
		ctx, cancel := internal.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		deadline, ok := ctx.Deadline()
		Expect(ok).To(BeTrue())
		Expect(time.Until(deadline)).To(BeNumerically("~", time.Minute, time.Second))
	})

	It("falls back to five seconds without a duration", func() {
		ctx, cancel := internal.WithTimeout(context.Background(), 0)
		defer cancel()
		deadline, ok := ctx.Deadline()
		Expect(ok).To(BeTrue())
		Expect(time.Until(deadline)).To(BeNumerically("~", 5*time.Second, time.Second))
	})
})
