package quota

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gestion-conges/leave-backend-go/internal/domain/employee"
	"github.com/gestion-conges/leave-backend-go/internal/domain/leave"
	"github.com/gestion-conges/leave-backend-go/internal/domain/quota"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== FAKES =====

type fakeTxManager struct{}

func (f *fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeQuotaRepo struct {
	quotas map[string]quota.Quota
	nextID int
}

func newFakeQuotaRepo() *fakeQuotaRepo {
	return &fakeQuotaRepo{quotas: make(map[string]quota.Quota)}
}

func (f *fakeQuotaRepo) seed(employeeID string, category leave.Category, total, used int) string {
	f.nextID++
	id := fmt.Sprintf("quota-%d", f.nextID)
	f.quotas[id] = quota.Quota{
		ID:         id,
		EmployeeID: employeeID,
		Category:   category,
		TotalDays:  total,
		UsedDays:   used,
		UpdatedAt:  time.Now(),
	}
	return id
}

func (f *fakeQuotaRepo) Create(ctx context.Context, q quota.Quota) (quota.Quota, error) {
	q.ID = f.seed(q.EmployeeID, q.Category, q.TotalDays, q.UsedDays)
	return f.quotas[q.ID], nil
}

func (f *fakeQuotaRepo) GetByEmployeeCategory(ctx context.Context, employeeID string, category leave.Category) (quota.Quota, error) {
	for _, q := range f.quotas {
		if q.EmployeeID == employeeID && q.Category == category {
			return q, nil
		}
	}
	return quota.Quota{}, quota.ErrQuotaNotFound
}

func (f *fakeQuotaRepo) GetByEmployeeCategoryForUpdate(ctx context.Context, employeeID string, category leave.Category) (quota.Quota, error) {
	return f.GetByEmployeeCategory(ctx, employeeID, category)
}

func (f *fakeQuotaRepo) UpdateBalances(ctx context.Context, quotaID string, totalDays, usedDays int) error {
	q, ok := f.quotas[quotaID]
	if !ok {
		return quota.ErrQuotaNotFound
	}
	q.TotalDays = totalDays
	q.UsedDays = usedDays
	q.UpdatedAt = time.Now()
	f.quotas[quotaID] = q
	return nil
}

func (f *fakeQuotaRepo) List(ctx context.Context, filter quota.QuotaFilter) ([]quota.QuotaInfo, error) {
	var out []quota.QuotaInfo
	for _, q := range f.quotas {
		out = append(out, quota.QuotaInfo{
			ID:             q.ID,
			EmployeeID:     q.EmployeeID,
			Category:       string(q.Category),
			QuotaTotal:     q.TotalDays,
			QuotaUsed:      q.UsedDays,
			QuotaRemaining: q.Remaining(),
		})
	}
	return out, nil
}

type fakeAdjustmentRepo struct {
	adjustments []quota.Adjustment
}

func (f *fakeAdjustmentRepo) Create(ctx context.Context, a quota.Adjustment) (quota.Adjustment, error) {
	a.ID = fmt.Sprintf("adj-%d", len(f.adjustments)+1)
	a.CreatedAt = time.Now()
	f.adjustments = append(f.adjustments, a)
	return a, nil
}

func (f *fakeAdjustmentRepo) ListByEmployee(ctx context.Context, employeeID string) ([]quota.Adjustment, error) {
	return f.adjustments, nil
}

type fakeDebitRepo struct {
	byRequest map[string]quota.Debit
}

func newFakeDebitRepo() *fakeDebitRepo {
	return &fakeDebitRepo{byRequest: make(map[string]quota.Debit)}
}

func (f *fakeDebitRepo) Create(ctx context.Context, d quota.Debit) (quota.Debit, error) {
	if _, exists := f.byRequest[d.RequestID]; exists {
		return quota.Debit{}, quota.ErrDuplicateDebit
	}
	d.ID = fmt.Sprintf("debit-%d", len(f.byRequest)+1)
	f.byRequest[d.RequestID] = d
	return d, nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.Email == email {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) ListByRole(ctx context.Context, role employee.Role) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		if e.Role == role {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) List(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		out = append(out, e)
	}
	return out, nil
}

type fakeQuotaNotifier struct {
	adjusted int
}

func (f *fakeQuotaNotifier) NotifyQuotaAdjusted(ctx context.Context, employeeID, category, comment string) {
	f.adjusted++
}

// ===== HELPERS =====

type quotaFixture struct {
	svc         *QuotaService
	quotas      *fakeQuotaRepo
	adjustments *fakeAdjustmentRepo
	debits      *fakeDebitRepo
	notifier    *fakeQuotaNotifier
}

func newQuotaFixture() *quotaFixture {
	f := &quotaFixture{
		quotas:      newFakeQuotaRepo(),
		adjustments: &fakeAdjustmentRepo{},
		debits:      newFakeDebitRepo(),
		notifier:    &fakeQuotaNotifier{},
	}
	employees := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1":   {ID: "emp-1", Name: "Awa Diop", Role: employee.RoleEmployee},
		"dgpec-1": {ID: "dgpec-1", Name: "Fatou Ndiaye", Role: employee.RoleDGPEC},
	}}
	f.svc = NewQuotaService(&fakeTxManager{}, f.quotas, f.adjustments, f.debits, employees, f.notifier)
	return f
}

func intPtr(v int) *int { return &v }

// ===== GET =====

func TestQuotaService_GetForEmployee_SkipsMissingCategories(t *testing.T) {
	t.Parallel()
	f := newQuotaFixture()

	f.quotas.seed("emp-1", leave.CategoryAnnual, 30, 5)
	f.quotas.seed("emp-1", leave.CategorySick, 15, 0)

	infos, err := f.svc.GetForEmployee(context.Background(), "emp-1")

	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, 25, infos[0].QuotaRemaining)
}

func TestQuotaService_GetForEmployee_UnknownEmployee(t *testing.T) {
	t.Parallel()
	f := newQuotaFixture()

	_, err := f.svc.GetForEmployee(context.Background(), "missing")

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

// ===== ADJUST =====

func TestQuotaService_Adjust_WritesAuditRow(t *testing.T) {
	t.Parallel()
	f := newQuotaFixture()

	f.quotas.seed("emp-1", leave.CategoryAnnual, 30, 5)

	resp, err := f.svc.Adjust(context.Background(), quota.AdjustQuotaRequest{
		EmployeeID: "emp-1",
		Category:   "annual",
		NewTotal:   intPtr(35),
		Reason:     "Report de l'année précédente",
		AdjusterID: "dgpec-1",
	})

	require.NoError(t, err)
	assert.Equal(t, 30, resp.PreviousTotal)
	assert.Equal(t, 35, resp.NewTotal)
	assert.Equal(t, 5, resp.PreviousUsed)
	assert.Equal(t, 5, resp.NewUsed)
	assert.Equal(t, "Fatou Ndiaye", resp.AdjusterName)

	// Exactly one audit row per mutation, and a notification went out.
	assert.Len(t, f.adjustments.adjustments, 1)
	assert.Equal(t, 1, f.notifier.adjusted)

	q, err := f.quotas.GetByEmployeeCategory(context.Background(), "emp-1", leave.CategoryAnnual)
	require.NoError(t, err)
	assert.Equal(t, 35, q.TotalDays)
}

func TestQuotaService_Adjust_UsedOnly(t *testing.T) {
	t.Parallel()
	f := newQuotaFixture()

	f.quotas.seed("emp-1", leave.CategoryAnnual, 30, 5)

	resp, err := f.svc.Adjust(context.Background(), quota.AdjustQuotaRequest{
		EmployeeID: "emp-1",
		Category:   "annual",
		NewUsed:    intPtr(0),
		Reason:     "Correction d'une saisie",
		AdjusterID: "dgpec-1",
	})

	require.NoError(t, err)
	assert.Equal(t, 30, resp.NewTotal)
	assert.Equal(t, 0, resp.NewUsed)
}

func TestQuotaService_Adjust_AllowsNegativeBalance(t *testing.T) {
	t.Parallel()
	f := newQuotaFixture()

	f.quotas.seed("emp-1", leave.CategoryAnnual, 30, 5)

	// An administrative adjustment may drive the balance negative.
	_, err := f.svc.Adjust(context.Background(), quota.AdjustQuotaRequest{
		EmployeeID: "emp-1",
		Category:   "annual",
		NewTotal:   intPtr(2),
		Reason:     "Régularisation",
		AdjusterID: "dgpec-1",
	})

	require.NoError(t, err)
	q, err := f.quotas.GetByEmployeeCategory(context.Background(), "emp-1", leave.CategoryAnnual)
	require.NoError(t, err)
	assert.Equal(t, -3, q.Remaining())
}

func TestQuotaService_Adjust_MissingReason(t *testing.T) {
	t.Parallel()
	f := newQuotaFixture()

	f.quotas.seed("emp-1", leave.CategoryAnnual, 30, 5)

	_, err := f.svc.Adjust(context.Background(), quota.AdjustQuotaRequest{
		EmployeeID: "emp-1",
		Category:   "annual",
		NewTotal:   intPtr(35),
		AdjusterID: "dgpec-1",
	})

	assert.Error(t, err)
	assert.Empty(t, f.adjustments.adjustments)
}

func TestQuotaService_Adjust_NoFields(t *testing.T) {
	t.Parallel()
	f := newQuotaFixture()

	_, err := f.svc.Adjust(context.Background(), quota.AdjustQuotaRequest{
		EmployeeID: "emp-1",
		Category:   "annual",
		Reason:     "rien",
		AdjusterID: "dgpec-1",
	})

	assert.Error(t, err)
}

func TestQuotaService_Adjust_QuotaNotFound(t *testing.T) {
	t.Parallel()
	f := newQuotaFixture()

	_, err := f.svc.Adjust(context.Background(), quota.AdjustQuotaRequest{
		EmployeeID: "emp-1",
		Category:   "annual",
		NewTotal:   intPtr(30),
		Reason:     "Initialisation",
		AdjusterID: "dgpec-1",
	})

	assert.ErrorIs(t, err, quota.ErrQuotaNotFound)
	assert.Equal(t, 0, f.notifier.adjusted)
}

// ===== DEBIT =====

func TestQuotaService_Debit_Success(t *testing.T) {
	t.Parallel()
	f := newQuotaFixture()

	f.quotas.seed("emp-1", leave.CategoryAnnual, 30, 5)

	warning, err := f.svc.Debit(context.Background(), "emp-1", leave.CategoryAnnual, "req-1", 5, false)

	require.NoError(t, err)
	assert.Nil(t, warning)

	q, err := f.quotas.GetByEmployeeCategory(context.Background(), "emp-1", leave.CategoryAnnual)
	require.NoError(t, err)
	assert.Equal(t, 10, q.UsedDays)
	assert.Equal(t, 20, q.Remaining())
}

func TestQuotaService_Debit_WarnsOnNegativeBalance(t *testing.T) {
	t.Parallel()
	f := newQuotaFixture()

	f.quotas.seed("emp-1", leave.CategoryAnnual, 30, 28)

	warning, err := f.svc.Debit(context.Background(), "emp-1", leave.CategoryAnnual, "req-1", 5, false)

	require.NoError(t, err)
	require.NotNil(t, warning)
	assert.Contains(t, *warning, "dépassé")

	// The debit still goes through under the warn policy.
	q, err := f.quotas.GetByEmployeeCategory(context.Background(), "emp-1", leave.CategoryAnnual)
	require.NoError(t, err)
	assert.Equal(t, -3, q.Remaining())
}

func TestQuotaService_Debit_BlocksOnNegativeBalance(t *testing.T) {
	t.Parallel()
	f := newQuotaFixture()

	f.quotas.seed("emp-1", leave.CategoryAnnual, 30, 28)

	_, err := f.svc.Debit(context.Background(), "emp-1", leave.CategoryAnnual, "req-1", 5, true)

	assert.ErrorIs(t, err, quota.ErrInsufficientQuota)

	q, getErr := f.quotas.GetByEmployeeCategory(context.Background(), "emp-1", leave.CategoryAnnual)
	require.NoError(t, getErr)
	assert.Equal(t, 28, q.UsedDays)
}

func TestQuotaService_Debit_ExactBalanceNoWarning(t *testing.T) {
	t.Parallel()
	f := newQuotaFixture()

	f.quotas.seed("emp-1", leave.CategoryAnnual, 30, 25)

	warning, err := f.svc.Debit(context.Background(), "emp-1", leave.CategoryAnnual, "req-1", 5, true)

	require.NoError(t, err)
	assert.Nil(t, warning)
}

func TestQuotaService_Debit_DuplicateRequest(t *testing.T) {
	t.Parallel()
	f := newQuotaFixture()

	f.quotas.seed("emp-1", leave.CategoryAnnual, 30, 0)

	_, err := f.svc.Debit(context.Background(), "emp-1", leave.CategoryAnnual, "req-1", 5, false)
	require.NoError(t, err)

	_, err = f.svc.Debit(context.Background(), "emp-1", leave.CategoryAnnual, "req-1", 5, false)
	assert.ErrorIs(t, err, quota.ErrDuplicateDebit)

	// The balance is charged exactly once.
	q, getErr := f.quotas.GetByEmployeeCategory(context.Background(), "emp-1", leave.CategoryAnnual)
	require.NoError(t, getErr)
	assert.Equal(t, 5, q.UsedDays)
}

func TestQuotaService_Debit_NoQuotaRow(t *testing.T) {
	t.Parallel()
	f := newQuotaFixture()

	_, err := f.svc.Debit(context.Background(), "emp-1", leave.CategoryAnnual, "req-1", 5, false)

	assert.ErrorIs(t, err, quota.ErrQuotaNotFound)
}
