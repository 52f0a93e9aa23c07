package leave_test

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/leave-management/internal/leave"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type errorEnvelope struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			Errors []struct {
				Field string `json:"field"`
				Code  string `json:"code"`
			} `json:"errors"`
		} `json:"details"`
	} `json:"error"`
}

var _ = Describe("Leave Handler", func() {
	var (
		e      *engine
		router *chi.Mux
	)

	BeforeEach(func() {
		e = newEngine(leave.PolicyAny)
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		handler := leave.NewHandler(&transport.BaseHandler{Logger: slogger}, e.service)

		router = chi.NewRouter()
		router.Post("/leave-applications", handler.SubmitApplication)
		router.Get("/leave-applications", handler.ListApplications)
		router.Get("/leave-applications/{id}", handler.GetApplication)
		router.Post("/leave-applications/{id}/approve", handler.ApproveApplication)
		router.Post("/leave-applications/{id}/reject", handler.RejectApplication)
	})

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decodeApplication := func(w *httptest.ResponseRecorder) leave.ApplicationResponse {
		var resp leave.ApplicationResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		return resp
	}

	decodeError := func(w *httptest.ResponseRecorder) errorEnvelope {
		var env errorEnvelope
		Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
		return env
	}

	submit := func(employeeID int64, days int) leave.ApplicationResponse {
		body := fmt.Sprintf(`{"employee_id":%d,"leave_type":"Casual Leave","start_date":"2025-03-10","end_date":"2025-03-14","days_requested":%d,"reason":"family trip"}`, employeeID, days)
		w := serve(http.MethodPost, "/leave-applications", body)
		Expect(w.Code).To(Equal(http.StatusCreated))
		return decodeApplication(w)
	}

	Describe("POST /leave-applications", func() {
		It("should create a pending application", func() {
			app := submit(5, 5)
			Expect(app.ID).To(BeNumerically(">", 0))
			Expect(app.Status).To(Equal(leave.StatusPending))
			Expect(app.StartDate).To(Equal("2025-03-10"))
			Expect(app.EndDate).To(Equal("2025-03-14"))
			Expect(app.ApprovedBy).To(BeNil())
		})

		It("should reject a malformed date", func() {
			w := serve(http.MethodPost, "/leave-applications",
				`{"employee_id":5,"leave_type":"Casual Leave","start_date":"10/03/2025","end_date":"2025-03-14","days_requested":1}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))

			env := decodeError(w)
			Expect(env.Error.Type).To(Equal("VALIDATION_ERROR"))
			Expect(env.Error.Details.Errors).To(HaveLen(1))
			Expect(env.Error.Details.Errors[0].Field).To(Equal("start_date"))
			Expect(env.Error.Details.Errors[0].Code).To(Equal("INVALID_DATE"))
		})

		It("should reject an inverted date range", func() {
			w := serve(http.MethodPost, "/leave-applications",
				`{"employee_id":5,"leave_type":"Casual Leave","start_date":"2025-03-14","end_date":"2025-03-10","days_requested":1}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeError(w).Error.Details.Errors[0].Code).To(Equal("INVALID_DATE_RANGE"))
		})

		It("should reject unknown fields", func() {
			w := serve(http.MethodPost, "/leave-applications", `{"employee_id":5,"status":"approved"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should reject an empty body", func() {
			w := serve(http.MethodPost, "/leave-applications", "")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 404 for an unknown employee", func() {
			w := serve(http.MethodPost, "/leave-applications",
				`{"employee_id":404,"leave_type":"Sick Leave","start_date":"2025-03-10","end_date":"2025-03-10","days_requested":1}`)
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(decodeError(w).Error.Code).To(Equal("EMPLOYEE_NOT_FOUND"))
		})
	})

	Describe("GET /leave-applications", func() {
		It("should list applications with filters", func() {
			submit(5, 1)
			submit(12, 2)

			w := serve(http.MethodGet, "/leave-applications?manager_id=2", "")
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp leave.ApplicationsResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Applications).To(HaveLen(1))
			Expect(resp.Applications[0].EmployeeID).To(Equal(int64(12)))
		})

		It("should return an empty array rather than null", func() {
			w := serve(http.MethodGet, "/leave-applications?employee_id=3", "")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"leave_applications":[]`))
		})

		It("should reject a malformed filter", func() {
			w := serve(http.MethodGet, "/leave-applications?employee_id=abc", "")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /leave-applications/{id}", func() {
		It("should return 404 for an unknown application", func() {
			w := serve(http.MethodGet, "/leave-applications/77", "")
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(decodeError(w).Error.Code).To(Equal("APPLICATION_NOT_FOUND"))
		})
	})

	Describe("decisions", func() {
		var app leave.ApplicationResponse

		BeforeEach(func() {
			app = submit(5, 5)
		})

		It("should approve and then refuse a second decision", func() {
			w := serve(http.MethodPost, fmt.Sprintf("/leave-applications/%d/approve", app.ID), `{"approved_by":4}`)
			Expect(w.Code).To(Equal(http.StatusOK))
			approved := decodeApplication(w)
			Expect(approved.Status).To(Equal(leave.StatusApproved))
			Expect(*approved.ApprovedBy).To(Equal(int64(4)))
			Expect(approved.ApprovedAt).NotTo(BeNil())

			w = serve(http.MethodPost, fmt.Sprintf("/leave-applications/%d/reject", app.ID), `{"rejected_by":4}`)
			Expect(w.Code).To(Equal(http.StatusConflict))
			Expect(decodeError(w).Error.Code).To(Equal("APPLICATION_ALREADY_PROCESSED"))
			Expect(e.leavesTaken(5)).To(Equal(5))
		})

		It("should reject with a reason", func() {
			w := serve(http.MethodPost, fmt.Sprintf("/leave-applications/%d/reject", app.ID),
				`{"rejected_by":4,"rejection_reason":"Project deadline"}`)
			Expect(w.Code).To(Equal(http.StatusOK))
			rejected := decodeApplication(w)
			Expect(rejected.Status).To(Equal(leave.StatusRejected))
			Expect(*rejected.RejectionReason).To(Equal("Project deadline"))
		})

		It("should require the approver", func() {
			w := serve(http.MethodPost, fmt.Sprintf("/leave-applications/%d/approve", app.ID), `{}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeError(w).Error.Details.Errors[0].Field).To(Equal("approved_by"))
		})

		It("should return 404 for an unknown approver", func() {
			w := serve(http.MethodPost, fmt.Sprintf("/leave-applications/%d/approve", app.ID), `{"approved_by":999}`)
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(decodeError(w).Error.Code).To(Equal("APPROVER_NOT_FOUND"))
		})
	})
})
