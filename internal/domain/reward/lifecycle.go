package reward

import (
	"context"
	"fmt"
	"time"
)

// Approve moves a result from calculated to approved, stamping the actor and
// time. Any other current status is an ErrInvalidTransition; there is no
// un-approve, corrections require a new calculation cycle.
func (s *Service) Approve(ctx context.Context, id, approvedBy string) (CalculationResult, error) {
	result, err := s.store.GetResult(ctx, id)
	if err != nil {
		return CalculationResult{}, err
	}
	if result.Status != StatusCalculated {
		return CalculationResult{}, fmt.Errorf("%w: cannot approve result in status %s", ErrInvalidTransition, result.Status)
	}

	now := time.Now().UTC()
	if err := s.store.MarkResultApproved(ctx, id, approvedBy, now); err != nil {
		return CalculationResult{}, err
	}
	result.Status = StatusApproved
	result.ApprovedBy = approvedBy
	result.ApprovedAt = &now
	return result, nil
}

// MarkPaid moves a result from approved to paid. Paid is terminal; amounts
// are never mutated afterwards.
func (s *Service) MarkPaid(ctx context.Context, id string) (CalculationResult, error) {
	result, err := s.store.GetResult(ctx, id)
	if err != nil {
		return CalculationResult{}, err
	}
	if result.Status != StatusApproved {
		return CalculationResult{}, fmt.Errorf("%w: cannot mark paid a result in status %s", ErrInvalidTransition, result.Status)
	}

	now := time.Now().UTC()
	if err := s.store.MarkResultPaid(ctx, id, now); err != nil {
		return CalculationResult{}, err
	}
	result.Status = StatusPaid
	result.PaidAt = &now
	return result, nil
}
