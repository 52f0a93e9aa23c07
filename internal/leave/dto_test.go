package leave_test

import (
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/leave"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SubmitRequest", func() {
	It("parses dates and trims text", func() {
		cmd, err := leave.SubmitRequest{
			EmployeeID:    5,
			LeaveType:     "  Sick Leave ",
			StartDate:     "2025-01-02",
			EndDate:       "2025-01-03",
			DaysRequested: 2,
			Reason:        " flu ",
		}.ToCommand()
		Expect(err).NotTo(HaveOccurred())
		Expect(cmd.LeaveType).To(Equal("Sick Leave"))
		Expect(cmd.Reason).To(Equal("flu"))
		Expect(cmd.StartDate).To(Equal(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)))
		Expect(cmd.EndDate).To(Equal(time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)))
	})

	It("reports missing and malformed dates together", func() {
		_, err := leave.SubmitRequest{EmployeeID: 5, EndDate: "2025-13-01"}.ToCommand()
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())

		details := appErr.Details.(internal.ValidationErrors)
		Expect(details.Errors).To(HaveLen(2))
		Expect(details.Errors[0].Field).To(Equal("start_date"))
		Expect(details.Errors[0].Code).To(Equal(string(internal.ErrCodeValidationFailed)))
		Expect(details.Errors[1].Field).To(Equal("end_date"))
		Expect(details.Errors[1].Code).To(Equal(string(internal.ErrCodeInvalidDate)))
	})
})

var _ = Describe("ApplicationResponse", func() {
	It("renders dates without a time component", func() {
		reason := "busy"
		approver := int64(4)
		app := &leave.Application{
			ID:              9,
			EmployeeID:      5,
			LeaveType:       "Casual Leave",
			StartDate:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			EndDate:         time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
			DaysRequested:   2,
			Status:          leave.StatusRejected,
			ApprovedBy:      &approver,
			RejectionReason: &reason,
		}

		resp := app.ToResponse()
		Expect(resp.StartDate).To(Equal("2025-03-10"))
		Expect(resp.EndDate).To(Equal("2025-03-11"))
		Expect(*resp.RejectionReason).To(Equal("busy"))
		Expect(*resp.ApprovedBy).To(Equal(int64(4)))
	})
})

var _ = Describe("Status", func() {
	It("treats decisions as terminal", func() {
		Expect(leave.StatusPending.Terminal()).To(BeFalse())
		Expect(leave.StatusApproved.Terminal()).To(BeTrue())
		Expect(leave.StatusRejected.Terminal()).To(BeTrue())
	})
})
