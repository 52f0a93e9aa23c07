package internal_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/frahmantamala/leave-management/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AppError", func() {
	It("matches sentinels through wrapping and copies", func() {
		wrapped := fmt.Errorf("decide: %w", internal.ErrAlreadyProcessed.WithCause(errors.New("row changed")))
		Expect(errors.Is(wrapped, internal.ErrAlreadyProcessed)).To(BeTrue())
		Expect(errors.Is(wrapped, internal.ErrApplicationNotFound)).To(BeFalse())

		appErr, ok := internal.IsAppError(wrapped)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusConflict))
		Expect(internal.ErrAlreadyProcessed.Cause).To(BeNil())
	})

	It("maps the taxonomy to status codes", func() {
		Expect(internal.ErrEmployeeNotFound.StatusCode).To(Equal(http.StatusNotFound))
		Expect(internal.ErrApproverNotAllowed.StatusCode).To(Equal(http.StatusForbidden))
		Expect(internal.NewDependencyError("store down", nil).StatusCode).To(Equal(http.StatusServiceUnavailable))
		Expect(internal.NewDependencyError("store down", nil).Retryable()).To(BeTrue())
		Expect(internal.ErrAlreadyProcessed.Retryable()).To(BeFalse())
	})

	It("renders the error envelope without internals", func() {
		err := internal.NewDependencyError("leave store unavailable", errors.New("dial tcp 10.0.0.5:5432"))
		status, body := err.ToHTTPResponse()
		Expect(status).To(Equal(http.StatusServiceUnavailable))

		raw, marshalErr := json.Marshal(body)
		Expect(marshalErr).NotTo(HaveOccurred())
		Expect(string(raw)).To(ContainSubstring(`"error":{"type":"DEPENDENCY_ERROR"`))
		Expect(string(raw)).NotTo(ContainSubstring("10.0.0.5"))
	})

	It("summarises field errors", func() {
		err := internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{
				{Field: "days_requested", Message: "days_requested must be greater than zero", Code: string(internal.ErrCodeInvalidDays)},
				{Field: "reason", Message: "reason is too long", Code: string(internal.ErrCodeReasonTooLong)},
			}})
		Expect(err.Error()).To(Equal("days_requested must be greater than zero"))
		Expect(err.GetDetailedMessage()).To(Equal("days_requested must be greater than zero; reason is too long"))
	})
})
