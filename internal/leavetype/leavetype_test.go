package leavetype_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/frahmantamala/leave-management/internal/leavetype"
	"github.com/frahmantamala/leave-management/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestLeaveType(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Leave Type Suite")
}

var _ = Describe("Leave types", func() {
	It("recognises exactly the fixed categories", func() {
		Expect(leavetype.All()).To(HaveLen(8))
		Expect(leavetype.IsValid(leavetype.Casual)).To(BeTrue())
		Expect(leavetype.IsValid("Leave Without Pay")).To(BeTrue())
		Expect(leavetype.IsValid("casual leave")).To(BeFalse())
		Expect(leavetype.IsValid("")).To(BeFalse())
	})

	It("returns a copy from All", func() {
		types := leavetype.All()
		types[0].Label = "changed"
		Expect(leavetype.All()[0].Label).To(Equal(leavetype.Casual))
	})

	It("maps each category to an allotment", func() {
		lt, ok := leavetype.Lookup(leavetype.CompensatoryOff)
		Expect(ok).To(BeTrue())
		Expect(lt.AllotmentField).To(Equal("compensatory_off"))
	})

	It("serves the catalogue over HTTP", func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		handler := leavetype.NewHandler(&transport.BaseHandler{Logger: slogger})

		w := httptest.NewRecorder()
		handler.GetLeaveTypes(w, httptest.NewRequest(http.MethodGet, "/leave-types", nil))
		Expect(w.Code).To(Equal(http.StatusOK))

		var resp leavetype.LeaveTypesResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.LeaveTypes[0].Label).To(Equal(leavetype.Casual))
	})
})
