package employee_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/leave-management/internal/employee"
	"github.com/frahmantamala/leave-management/internal/ledger"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Employee Handler", func() {
	var (
		repo   *mockEmployeeRepository
		router *chi.Mux
	)

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		repo = newMockEmployeeRepository(rosterRows()...)
		handler := employee.NewHandler(&transport.BaseHandler{Logger: slogger}, employee.NewService(repo, &stubTransactor{}, slogger))

		router = chi.NewRouter()
		router.Get("/employees", handler.ListEmployees)
		router.Get("/employees/{id}", handler.GetEmployee)
		router.Get("/employees/{id}/balance", handler.GetBalance)
		router.Put("/employees/{id}/allotments", handler.SetAllotments)
		router.Put("/employees/{id}/manager", handler.AssignManager)
		router.Put("/employees/{id}/leaves-taken", handler.CorrectLeavesTaken)
	})

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should handle GET /employees request successfully", func() {
		w := serve(http.MethodGet, "/employees", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		var response employee.EmployeesResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Employees).To(HaveLen(13))
		Expect(response.Employees[0].Name).To(Equal("Hari Seedhar"))
	})

	It("should return 404 for an unknown employee", func() {
		w := serve(http.MethodGet, "/employees/404", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(w.Body.String()).To(ContainSubstring("EMPLOYEE_NOT_FOUND"))
	})

	It("should return 400 for a malformed id", func() {
		w := serve(http.MethodGet, "/employees/abc", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should return the balance view", func() {
		w := serve(http.MethodGet, "/employees/5/balance", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		var balance ledger.Balance
		Expect(json.NewDecoder(w.Body).Decode(&balance)).To(Succeed())
		Expect(balance.EmployeeID).To(Equal(int64(5)))
		Expect(balance.Entitled).To(Equal(37))
		Expect(balance.Remaining).To(Equal(37))
	})

	It("should replace allotments", func() {
		w := serve(http.MethodPut, "/employees/5/allotments", `{"allotments":{"casual":10,"sick":5}}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		var emp employee.Employee
		Expect(json.NewDecoder(w.Body).Decode(&emp)).To(Succeed())
		Expect(emp.LeavesEntitled).To(Equal(15))
	})

	It("should reject unknown fields in the body", func() {
		w := serve(http.MethodPut, "/employees/5/allotments", `{"allotments":{"holiday":10}}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should reject a manager cycle", func() {
		w := serve(http.MethodPut, "/employees/4/manager", `{"manager_id":5}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("MANAGER_CYCLE"))
	})

	It("should clear a manager with null", func() {
		w := serve(http.MethodPut, "/employees/5/manager", `{"manager_id":null}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(repo.rows[5].ManagerID).To(BeNil())
	})

	It("should correct leaves taken", func() {
		w := serve(http.MethodPut, "/employees/5/leaves-taken", `{"leaves_taken":3,"note":"manual fix"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(repo.rows[5].LeavesTaken).To(Equal(3))
	})
})
