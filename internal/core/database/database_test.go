package database_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/database"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestDatabase(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Database Suite")
}

var _ = Describe("Transactor", func() {
	var (
		mock       sqlmock.Sqlmock
		db         *gorm.DB
		transactor *database.Transactor
		ctx        context.Context
	)

	BeforeEach(func() {
		sqlDB, m, err := sqlmock.New()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { _ = sqlDB.Close() })
		mock = m

		db, err = database.Open(sqlDB)
		Expect(err).NotTo(HaveOccurred())

		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		transactor = database.NewTransactor(db, slogger)
		ctx = context.Background()
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	It("commits when the function succeeds", func() {
		mock.ExpectBegin()
		mock.ExpectCommit()

		err := transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
			Expect(database.InTransaction(txCtx)).To(BeTrue())
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(database.InTransaction(ctx)).To(BeFalse())
	})

	It("rolls back and returns the function error", func() {
		sentinel := errors.New("decision failed")
		mock.ExpectBegin()
		mock.ExpectRollback()

		err := transactor.WithinTransaction(ctx, func(context.Context) error {
			return sentinel
		})
		Expect(err).To(MatchError(sentinel))
	})

	It("keeps the original error when rollback fails", func() {
		sentinel := errors.New("decision failed")
		mock.ExpectBegin()
		mock.ExpectRollback().WillReturnError(errors.New("connection reset"))

		err := transactor.WithinTransaction(ctx, func(context.Context) error {
			return sentinel
		})
		Expect(errors.Is(err, sentinel)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("connection reset"))
	})

	It("reports a failed begin", func() {
		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		called := false
		err := transactor.WithinTransaction(ctx, func(context.Context) error {
			called = true
			return nil
		})
		Expect(err).To(MatchError(ContainSubstring("begin transaction")))
		Expect(called).To(BeFalse())
	})

	It("reports a failed commit", func() {
		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

		err := transactor.WithinTransaction(ctx, func(context.Context) error { return nil })
		Expect(err).To(MatchError(ContainSubstring("commit transaction")))
	})

	It("reuses the outer transaction for nested calls", func() {
		mock.ExpectBegin()
		mock.ExpectCommit()

		err := transactor.WithinTransaction(ctx, func(outer context.Context) error {
			return transactor.WithinTransaction(outer, func(inner context.Context) error {
				Expect(database.Conn(inner, db)).NotTo(BeNil())
				return nil
			})
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("rolls back and re-panics", func() {
		mock.ExpectBegin()
		mock.ExpectRollback()

		Expect(func() {
			_ = transactor.WithinTransaction(ctx, func(context.Context) error {
				panic("boom")
			})
		}).To(PanicWith("boom"))
	})
})

var _ = Describe("Configure", func() {
	It("applies the pool limits", func() {
		sqlDB, _, err := sqlmock.New()
		Expect(err).NotTo(HaveOccurred())
		defer sqlDB.Close()

		database.Configure(sqlDB, internal.DatabaseConfig{
			MaxOpenConns:    7,
			MaxIdleConns:    3,
			ConnMaxLifetime: time.Minute,
		})
		Expect(sqlDB.Stats().MaxOpenConnections).To(Equal(7))
	})
})
