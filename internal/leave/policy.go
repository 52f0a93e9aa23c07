package leave

import (
	"context"
	"fmt"

	"github.com/frahmantamala/leave-management/internal/employee"
)

const (
	PolicyAny          = "any"
	PolicyManagerChain = "manager_chain"
)

// ApproverPolicy decides whether approver may act on an application filed by
// submitter. It runs inside the decision transaction.
type ApproverPolicy interface {
	Name() string
	Allow(ctx context.Context, submitter, approver *employee.Employee) (bool, error)
}

// AnyApprover lets every existing employee decide on every application.
type AnyApprover struct{}

func (AnyApprover) Name() string { return PolicyAny }

func (AnyApprover) Allow(context.Context, *employee.Employee, *employee.Employee) (bool, error) {
	return true, nil
}

// ManagerChainPolicy requires the approver to be the submitter's manager or
// any manager above it.
type ManagerChainPolicy struct {
	directory Directory
}

func NewManagerChainPolicy(directory Directory) *ManagerChainPolicy {
	return &ManagerChainPolicy{directory: directory}
}

func (p *ManagerChainPolicy) Name() string { return PolicyManagerChain }

func (p *ManagerChainPolicy) Allow(ctx context.Context, submitter, approver *employee.Employee) (bool, error) {
	visited := map[int64]bool{submitter.ID: true}
	current := submitter.ID
	for {
		manager, err := p.directory.GetManagerOf(ctx, current)
		if err != nil {
			return false, err
		}
		if manager == nil || visited[manager.ID] {
			return false, nil
		}
		if manager.ID == approver.ID {
			return true, nil
		}
		visited[manager.ID] = true
		current = manager.ID
	}
}

func NewApproverPolicy(name string, directory Directory) (ApproverPolicy, error) {
	switch name {
	case "", PolicyAny:
		return AnyApprover{}, nil
	case PolicyManagerChain:
		return NewManagerChainPolicy(directory), nil
	default:
		return nil, fmt.Errorf("unknown approver policy %q", name)
	}
}
