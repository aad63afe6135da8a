package quota

import (
	"context"
	"fmt"

	"github.com/gestion-conges/leave-backend-go/internal/domain/employee"
	"github.com/gestion-conges/leave-backend-go/internal/domain/leave"
	"github.com/gestion-conges/leave-backend-go/internal/domain/quota"
	"github.com/gestion-conges/leave-backend-go/internal/pkg/database"
)

// Notifier is the post-commit hook for adjustment notifications.
type Notifier interface {
	NotifyQuotaAdjusted(ctx context.Context, employeeID, category, comment string)
}

type QuotaService struct {
	txm database.TxManager
	quota.QuotaRepository
	quota.AdjustmentRepository
	quota.DebitRepository
	employee.EmployeeRepository
	notifier Notifier
}

func NewQuotaService(
	txm database.TxManager,
	quotaRepository quota.QuotaRepository,
	adjustmentRepository quota.AdjustmentRepository,
	debitRepository quota.DebitRepository,
	employeeRepository employee.EmployeeRepository,
	notifier Notifier,
) *QuotaService {
	return &QuotaService{
		txm:                  txm,
		QuotaRepository:      quotaRepository,
		AdjustmentRepository: adjustmentRepository,
		DebitRepository:      debitRepository,
		EmployeeRepository:   employeeRepository,
		notifier:             notifier,
	}
}

// GetForEmployee returns the employee's balances across every
// category.
func (s *QuotaService) GetForEmployee(ctx context.Context, employeeID string) ([]quota.QuotaInfo, error) {
	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	var infos []quota.QuotaInfo
	for _, category := range leave.AllCategories() {
		q, err := s.QuotaRepository.GetByEmployeeCategory(ctx, employeeID, category)
		if err != nil {
			if err == quota.ErrQuotaNotFound {
				continue
			}
			return nil, fmt.Errorf("failed to get quota: %w", err)
		}
		infos = append(infos, quota.QuotaInfo{
			ID:             q.ID,
			EmployeeID:     q.EmployeeID,
			Category:       string(q.Category),
			QuotaTotal:     q.TotalDays,
			QuotaUsed:      q.UsedDays,
			QuotaRemaining: q.Remaining(),
			UpdatedAt:      q.UpdatedAt,
		})
	}

	return infos, nil
}

// List returns quota rows for the administrative overview.
func (s *QuotaService) List(ctx context.Context, filter quota.QuotaFilter) ([]quota.QuotaInfo, error) {
	return s.QuotaRepository.List(ctx, filter)
}

// Adjust sets a quota's total and/or used balance. The balance write
// and its audit row commit in one transaction; either field left nil
// keeps its current value. Balances may go negative here, the
// adjuster's comment is the record of why.
func (s *QuotaService) Adjust(ctx context.Context, req quota.AdjustQuotaRequest) (quota.AdjustmentResponse, error) {
	if err := req.Validate(); err != nil {
		return quota.AdjustmentResponse{}, err
	}

	adjuster, err := s.EmployeeRepository.GetByID(ctx, req.AdjusterID)
	if err != nil {
		return quota.AdjustmentResponse{}, fmt.Errorf("failed to get adjuster: %w", err)
	}

	var adjustment quota.Adjustment
	err = s.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		q, err := s.QuotaRepository.GetByEmployeeCategoryForUpdate(ctx, req.EmployeeID, leave.Category(req.Category))
		if err != nil {
			return err
		}

		newTotal := q.TotalDays
		if req.NewTotal != nil {
			newTotal = *req.NewTotal
		}
		newUsed := q.UsedDays
		if req.NewUsed != nil {
			newUsed = *req.NewUsed
		}

		if err := s.QuotaRepository.UpdateBalances(ctx, q.ID, newTotal, newUsed); err != nil {
			return err
		}

		adjustment, err = s.AdjustmentRepository.Create(ctx, quota.Adjustment{
			QuotaID:       q.ID,
			PreviousTotal: q.TotalDays,
			NewTotal:      newTotal,
			PreviousUsed:  q.UsedDays,
			NewUsed:       newUsed,
			Reason:        req.Reason,
			AdjusterID:    req.AdjusterID,
		})
		return err
	})
	if err != nil {
		return quota.AdjustmentResponse{}, err
	}

	s.notifier.NotifyQuotaAdjusted(ctx, req.EmployeeID, req.Category, req.Reason)

	return quota.AdjustmentResponse{
		ID:            adjustment.ID,
		EmployeeID:    req.EmployeeID,
		AdjusterName:  adjuster.Name,
		PreviousTotal: adjustment.PreviousTotal,
		NewTotal:      adjustment.NewTotal,
		PreviousUsed:  adjustment.PreviousUsed,
		NewUsed:       adjustment.NewUsed,
		Comment:       adjustment.Reason,
		CreatedAt:     adjustment.CreatedAt,
	}, nil
}

// History returns the adjustment trail for one employee, newest first.
func (s *QuotaService) History(ctx context.Context, employeeID string) ([]quota.AdjustmentResponse, error) {
	adjustments, err := s.AdjustmentRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list adjustments: %w", err)
	}

	responses := make([]quota.AdjustmentResponse, 0, len(adjustments))
	for _, a := range adjustments {
		responses = append(responses, quota.AdjustmentResponse{
			ID:            a.ID,
			EmployeeID:    employeeID,
			AdjusterName:  a.AdjusterName,
			PreviousTotal: a.PreviousTotal,
			NewTotal:      a.NewTotal,
			PreviousUsed:  a.PreviousUsed,
			NewUsed:       a.NewUsed,
			Comment:       a.Reason,
			CreatedAt:     a.CreatedAt,
		})
	}
	return responses, nil
}

// Debit charges days against a quota. It must run inside the caller's
// transaction: the debit row, the balance update and the request's
// status change commit or roll back together. The unique request
// constraint makes a second debit for the same request come back as
// ErrDuplicateDebit, which the caller treats as already done.
//
// When the balance would go negative, blockNegative decides between
// failing with ErrInsufficientQuota and proceeding with a warning.
func (s *QuotaService) Debit(ctx context.Context, employeeID string, category leave.Category, requestID string, days int, blockNegative bool) (warning *string, err error) {
	q, err := s.QuotaRepository.GetByEmployeeCategoryForUpdate(ctx, employeeID, category)
	if err != nil {
		return nil, err
	}

	if q.Remaining() < days {
		if blockNegative {
			return nil, quota.ErrInsufficientQuota
		}
		w := fmt.Sprintf("quota %s dépassé : %d jours restants pour %d demandés", category, q.Remaining(), days)
		warning = &w
	}

	if _, err := s.DebitRepository.Create(ctx, quota.Debit{
		QuotaID:   q.ID,
		RequestID: requestID,
		Days:      days,
	}); err != nil {
		if err == quota.ErrDuplicateDebit {
			return nil, err
		}
		return nil, fmt.Errorf("failed to record debit: %w", err)
	}

	if err := s.QuotaRepository.UpdateBalances(ctx, q.ID, q.TotalDays, q.UsedDays+days); err != nil {
		return nil, fmt.Errorf("failed to update quota balance: %w", err)
	}

	return warning, nil
}
