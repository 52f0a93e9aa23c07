package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/frahmantamala/leave-management/internal"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("buildDependencies", func() {
	var (
		mock   sqlmock.Sqlmock
		db     *sqlx.DB
		log    *slog.Logger
		config *internal.Config
	)

	BeforeEach(func() {
		sqlDB, m, err := sqlmock.New()
		Expect(err).NotTo(HaveOccurred())
		mock = m
		db = sqlx.NewDb(sqlDB, "pgx")
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		config = &internal.Config{
			Server:       internal.ServerConfig{Port: 8080, OpenAPIValidation: true},
			Leave:        internal.LeaveConfig{ApproverPolicy: "any"},
			Notification: internal.NotificationConfig{Transport: "log", FrontendURL: "http://localhost:3000"},
		}
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	It("wires the server and keeps the database open", func() {
		deps, err := buildDependencies(config, db, log)
		Expect(err).NotTo(HaveOccurred())
		Expect(deps.Router).NotTo(BeNil())
		Expect(deps.Dispatcher).NotTo(BeNil())

		mock.ExpectClose()
		Expect(deps.shutdown(context.Background(), &http.Server{})).To(Succeed())
	})

	It("closes the database when the notification transport is unknown", func() {
		config.Notification.Transport = "pigeon"
		mock.ExpectClose()

		deps, err := buildDependencies(config, db, log)
		Expect(err).To(MatchError(ContainSubstring("unknown notification transport")))
		Expect(deps).To(BeNil())
	})

	It("stops the notification pool and closes the database when a later step fails", func() {
		config.Leave.ApproverPolicy = "nobody"
		mock.ExpectClose()

		deps, err := buildDependencies(config, db, log)
		Expect(err).To(MatchError(ContainSubstring("unknown approver policy")))
		Expect(deps).To(BeNil())
	})
})
