package notification

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gestion-conges/leave-backend-go/internal/domain/employee"
	"github.com/gestion-conges/leave-backend-go/internal/domain/leave"
	"github.com/gestion-conges/leave-backend-go/internal/domain/notification"
	"github.com/gestion-conges/leave-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== FAKES =====

type fakeNotificationRepo struct {
	notifications map[string]notification.Notification
	nextID        int
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[string]notification.Notification)}
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	f.nextID++
	n.ID = fmt.Sprintf("notif-%d", f.nextID)
	n.CreatedAt = time.Now()
	f.notifications[n.ID] = n
	return n, nil
}

func (f *fakeNotificationRepo) GetByID(ctx context.Context, id string) (notification.Notification, error) {
	n, ok := f.notifications[id]
	if !ok {
		return notification.Notification{}, notification.ErrNotificationNotFound
	}
	return n, nil
}

func (f *fakeNotificationRepo) ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]notification.Notification, error) {
	var out []notification.Notification
	for _, n := range f.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeNotificationRepo) CountUnread(ctx context.Context, recipientID string) (int, error) {
	count := 0
	for _, n := range f.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkAsRead(ctx context.Context, id string) error {
	n, ok := f.notifications[id]
	if !ok {
		return notification.ErrNotificationNotFound
	}
	now := time.Now()
	n.IsRead = true
	n.ReadAt = &now
	f.notifications[id] = n
	return nil
}

func (f *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, recipientID string) error {
	now := time.Now()
	for id, n := range f.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &now
			f.notifications[id] = n
		}
	}
	return nil
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
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
	return f.employees, nil
}

type fakeEmailService struct {
	decisions []string
	awaiting  []string
	reminders []string
}

func (f *fakeEmailService) SendDecisionNotice(ctx context.Context, to, employeeName, category, stage string, approved bool, comment string) error {
	f.decisions = append(f.decisions, fmt.Sprintf("%s:%s:%v", to, stage, approved))
	return nil
}

func (f *fakeEmailService) SendAwaitingValidation(ctx context.Context, to, employeeName, category, startDate string, totalDays int) error {
	f.awaiting = append(f.awaiting, to)
	return nil
}

func (f *fakeEmailService) SendReminder(ctx context.Context, to, employeeName, category, startDate string, daysDelayed int) error {
	f.reminders = append(f.reminders, to)
	return nil
}

// ===== HELPERS =====

type notificationFixture struct {
	svc   *NotificationService
	repo  *fakeNotificationRepo
	hub   *sse.Hub
	email *fakeEmailService
}

func newNotificationFixture() *notificationFixture {
	f := &notificationFixture{
		repo:  newFakeNotificationRepo(),
		hub:   sse.NewHub(),
		email: &fakeEmailService{},
	}
	employees := &fakeEmployeeRepo{employees: []employee.Employee{
		{ID: "emp-1", Name: "Awa Diop", Email: "awa.diop@example.sn", Role: employee.RoleEmployee},
		{ID: "dir-1", Name: "Moussa Fall", Email: "direction@example.sn", Role: employee.RoleDirection},
		{ID: "dgpec-1", Name: "Fatou Ndiaye", Email: "dgpec@example.sn", Role: employee.RoleDGPEC},
		{ID: "dg-1", Name: "Omar Sy", Email: "dg@example.sn", Role: employee.RoleDG},
	}}
	f.svc = NewNotificationService(f.repo, employees, f.hub, f.email)
	return f
}

func testRequest(status leave.Status) leave.LeaveRequest {
	return leave.LeaveRequest{
		ID:           "req-1",
		EmployeeID:   "emp-1",
		EmployeeName: "Awa Diop",
		Category:     leave.CategoryAnnual,
		StartDate:    time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC),
		TotalDays:    5,
		Status:       status,
	}
}

// ===== DISPATCH =====

func TestNotificationService_NotifySubmission(t *testing.T) {
	t.Parallel()
	f := newNotificationFixture()

	ch, cleanup := f.hub.Subscribe("dir-1")
	defer cleanup()

	f.svc.NotifySubmission(context.Background(), testRequest(leave.StatusPending))

	// The direction validator gets an in-app entry, an SSE push and an email.
	list, err := f.svc.List(context.Background(), "dir-1", false, 0)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, notification.TypeRequestSubmitted, list.Notifications[0].Type)

	assert.Len(t, ch, 1)
	assert.Equal(t, []string{"direction@example.sn"}, f.email.awaiting)
}

func TestNotificationService_NotifyDecision_Approved(t *testing.T) {
	t.Parallel()
	f := newNotificationFixture()

	// Direction approved; the request now sits with DGPEC.
	f.svc.NotifyDecision(context.Background(), testRequest(leave.StatusValidatedByDirection), "direction", true, "ok")

	list, err := f.svc.List(context.Background(), "emp-1", false, 0)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, notification.TypeRequestValidated, list.Notifications[0].Type)

	// The next stage's validators are alerted too.
	dgpecList, err := f.svc.List(context.Background(), "dgpec-1", false, 0)
	require.NoError(t, err)
	require.Len(t, dgpecList.Notifications, 1)
	assert.Equal(t, notification.TypeAwaitingValidation, dgpecList.Notifications[0].Type)

	assert.Equal(t, []string{"awa.diop@example.sn:direction:true"}, f.email.decisions)
	assert.Equal(t, []string{"dgpec@example.sn"}, f.email.awaiting)
}

func TestNotificationService_NotifyDecision_Rejected(t *testing.T) {
	t.Parallel()
	f := newNotificationFixture()

	f.svc.NotifyDecision(context.Background(), testRequest(leave.StatusRejectedByDGPEC), "dgpec", false, "quota insuffisant")

	list, err := f.svc.List(context.Background(), "emp-1", false, 0)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, notification.TypeRequestRejected, list.Notifications[0].Type)

	// A terminal status alerts nobody downstream.
	dgList, err := f.svc.List(context.Background(), "dg-1", false, 0)
	require.NoError(t, err)
	assert.Empty(t, dgList.Notifications)
	assert.Empty(t, f.email.awaiting)
}

func TestNotificationService_NotifyDecision_FinalApprovalStopsChain(t *testing.T) {
	t.Parallel()
	f := newNotificationFixture()

	f.svc.NotifyDecision(context.Background(), testRequest(leave.StatusValidatedByDG), "dg", true, "")

	assert.Empty(t, f.email.awaiting)
}

func TestNotificationService_NotifyReminder_InAppOnly(t *testing.T) {
	t.Parallel()
	f := newNotificationFixture()

	f.svc.NotifyReminder(context.Background(), testRequest(leave.StatusPending), "dir-1", 6)

	list, err := f.svc.List(context.Background(), "dir-1", false, 0)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, notification.TypeReminder, list.Notifications[0].Type)
	// The sweep owns the reminder email.
	assert.Empty(t, f.email.reminders)
}

func TestNotificationService_NotifyQuotaAdjusted(t *testing.T) {
	t.Parallel()
	f := newNotificationFixture()

	f.svc.NotifyQuotaAdjusted(context.Background(), "emp-1", "annual", "Report de l'année précédente")

	list, err := f.svc.List(context.Background(), "emp-1", false, 0)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, notification.TypeQuotaAdjusted, list.Notifications[0].Type)
	assert.Contains(t, list.Notifications[0].Message, "annual")
}

// ===== READ STATE =====

func TestNotificationService_List_UnreadCount(t *testing.T) {
	t.Parallel()
	f := newNotificationFixture()

	f.svc.NotifyQuotaAdjusted(context.Background(), "emp-1", "annual", "a")
	f.svc.NotifyQuotaAdjusted(context.Background(), "emp-1", "sick", "b")

	list, err := f.svc.List(context.Background(), "emp-1", false, 0)
	require.NoError(t, err)
	assert.Len(t, list.Notifications, 2)
	assert.Equal(t, 2, list.UnreadCount)
}

func TestNotificationService_MarkRead_OwnershipEnforced(t *testing.T) {
	t.Parallel()
	f := newNotificationFixture()

	f.svc.NotifyQuotaAdjusted(context.Background(), "emp-1", "annual", "a")

	list, err := f.svc.List(context.Background(), "emp-1", false, 0)
	require.NoError(t, err)
	id := list.Notifications[0].ID

	err = f.svc.MarkRead(context.Background(), id, "dir-1")
	assert.ErrorIs(t, err, notification.ErrNotRecipient)

	require.NoError(t, f.svc.MarkRead(context.Background(), id, "emp-1"))

	list, err = f.svc.List(context.Background(), "emp-1", false, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, list.UnreadCount)
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	t.Parallel()
	f := newNotificationFixture()

	f.svc.NotifyQuotaAdjusted(context.Background(), "emp-1", "annual", "a")
	f.svc.NotifyQuotaAdjusted(context.Background(), "emp-1", "sick", "b")

	require.NoError(t, f.svc.MarkAllRead(context.Background(), "emp-1"))

	list, err := f.svc.List(context.Background(), "emp-1", true, 0)
	require.NoError(t, err)
	assert.Empty(t, list.Notifications)
	assert.Equal(t, 0, list.UnreadCount)
}
