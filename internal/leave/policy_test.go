package leave_test

import (
	"context"
	"errors"

	"github.com/frahmantamala/leave-management/internal/employee"
	"github.com/frahmantamala/leave-management/internal/leave"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// mapDirectory resolves managers from a child -> manager map.
type mapDirectory struct {
	managers map[int64]int64
	err      error
}

func (d *mapDirectory) GetEmployee(ctx context.Context, id int64) (*employee.Employee, error) {
	return &employee.Employee{ID: id}, nil
}

func (d *mapDirectory) GetManagerOf(ctx context.Context, employeeID int64) (*employee.Employee, error) {
	if d.err != nil {
		return nil, d.err
	}
	managerID, ok := d.managers[employeeID]
	if !ok {
		return nil, nil
	}
	return &employee.Employee{ID: managerID}, nil
}

var _ = Describe("ApproverPolicy", func() {
	ctx := context.Background()
	emp := func(id int64) *employee.Employee { return &employee.Employee{ID: id} }

	It("defaults to any approver", func() {
		policy, err := leave.NewApproverPolicy("", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(policy.Name()).To(Equal(leave.PolicyAny))

		allowed, err := policy.Allow(ctx, emp(5), emp(5))
		Expect(err).NotTo(HaveOccurred())
		Expect(allowed).To(BeTrue())
	})

	It("rejects an unknown policy name", func() {
		_, err := leave.NewApproverPolicy("everyone", nil)
		Expect(err).To(MatchError(ContainSubstring("everyone")))
	})

	Describe("manager chain", func() {
		var directory *mapDirectory

		BeforeEach(func() {
			directory = &mapDirectory{managers: map[int64]int64{5: 4, 4: 1}}
		})

		It("allows the direct manager and every manager above", func() {
			policy := leave.NewManagerChainPolicy(directory)
			for _, approver := range []int64{4, 1} {
				allowed, err := policy.Allow(ctx, emp(5), emp(approver))
				Expect(err).NotTo(HaveOccurred())
				Expect(allowed).To(BeTrue())
			}
		})

		It("refuses self approval and outsiders", func() {
			policy := leave.NewManagerChainPolicy(directory)
			for _, approver := range []int64{5, 2} {
				allowed, err := policy.Allow(ctx, emp(5), emp(approver))
				Expect(err).NotTo(HaveOccurred())
				Expect(allowed).To(BeFalse())
			}
		})

		It("terminates on a corrupted cyclic chain", func() {
			directory.managers = map[int64]int64{5: 4, 4: 5}
			allowed, err := leave.NewManagerChainPolicy(directory).Allow(ctx, emp(5), emp(9))
			Expect(err).NotTo(HaveOccurred())
			Expect(allowed).To(BeFalse())
		})

		It("surfaces directory failures", func() {
			directory.err = errors.New("boom")
			_, err := leave.NewManagerChainPolicy(directory).Allow(ctx, emp(5), emp(4))
			Expect(err).To(MatchError("boom"))
		})
	})
})
