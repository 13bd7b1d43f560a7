package biz

import (
	"context"
	"os"
	"testing"
	"time"

	"RentalHub/internal/model"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRentalRequestRepo mocks the persistence layer.
type MockRentalRequestRepo struct {
	mock.Mock
}

func (m *MockRentalRequestRepo) Create(ctx context.Context, req *model.RentalRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRentalRequestRepo) GetByID(ctx context.Context, id int64) (*model.RentalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RentalRequest), args.Error(1)
}

func (m *MockRentalRequestRepo) ListByProperty(ctx context.Context, propertyID int64) ([]*model.RentalRequest, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RentalRequest), args.Error(1)
}

func (m *MockRentalRequestRepo) ListByPropertyAndStatus(ctx context.Context, propertyID int64, status model.RentalRequestStatus) ([]*model.RentalRequest, error) {
	args := m.Called(ctx, propertyID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RentalRequest), args.Error(1)
}

func (m *MockRentalRequestRepo) ListByTenant(ctx context.Context, tenantID int64) ([]*model.RentalRequest, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RentalRequest), args.Error(1)
}

func (m *MockRentalRequestRepo) ListAll(ctx context.Context) ([]*model.RentalRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RentalRequest), args.Error(1)
}

func (m *MockRentalRequestRepo) Save(ctx context.Context, req *model.RentalRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRentalRequestRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRentalRequestRepo) ExistsActive(ctx context.Context, propertyID, tenantID int64, statuses []model.RentalRequestStatus) (bool, error) {
	args := m.Called(ctx, propertyID, tenantID, statuses)
	return args.Bool(0), args.Error(1)
}

func (m *MockRentalRequestRepo) DeleteTerminalBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockNotificationDispatcher records dispatched events.
type MockNotificationDispatcher struct {
	mock.Mock
}

func (m *MockNotificationDispatcher) Dispatch(ctx context.Context, event *model.NotificationEvent) {
	m.Called(ctx, event)
}

func newTestRentalRequestUsecase(repo RentalRequestRepo, gateway PropertyGateway, notifier NotificationDispatcher) *RentalRequestUsecase {
	return NewRentalRequestUsecase(repo, gateway, notifier, log.NewStdLogger(os.Stdout))
}

func eventOfType(et model.EventType) any {
	return mock.MatchedBy(func(ev *model.NotificationEvent) bool {
		return ev.EventType == et
	})
}

func TestCreateRequest_Success(t *testing.T) {
	repo := new(MockRentalRequestRepo)
	gateway := new(MockPropertyGateway)
	notifier := new(MockNotificationDispatcher)
	uc := newTestRentalRequestUsecase(repo, gateway, notifier)

	property := &model.Property{ID: 10, OwnerID: 7, Title: "Loft downtown", Available: true}
	gateway.On("GetByID", mock.Anything, int64(10)).Return(property, nil)
	gateway.On("IsAvailable", mock.Anything, int64(10)).Return(true, nil)
	repo.On("ExistsActive", mock.Anything, int64(10), int64(3), model.ActiveStatuses).Return(false, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(req *model.RentalRequest) bool {
		return req.PropertyID == 10 && req.TenantID == 3 && req.Status == model.StatusPending
	})).Return(nil)
	notifier.On("Dispatch", mock.Anything, mock.MatchedBy(func(ev *model.NotificationEvent) bool {
		return ev.EventType == model.EventRentalRequestCreated &&
			len(ev.RecipientIDs) == 1 && ev.RecipientIDs[0] == 7
	})).Return()

	req, err := uc.CreateRequest(context.Background(), 10, 3)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, req.Status)

	repo.AssertExpectations(t)
	gateway.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCreateRequest_PropertyNotFound(t *testing.T) {
	repo := new(MockRentalRequestRepo)
	gateway := new(MockPropertyGateway)
	notifier := new(MockNotificationDispatcher)
	uc := newTestRentalRequestUsecase(repo, gateway, notifier)

	gateway.On("GetByID", mock.Anything, int64(99)).
		Return(nil, errors.NotFound("PROPERTY_NOT_FOUND", "no such property"))

	req, err := uc.CreateRequest(context.Background(), 99, 3)
	assert.Nil(t, req)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateRequest_PropertyNotAvailable(t *testing.T) {
	repo := new(MockRentalRequestRepo)
	gateway := new(MockPropertyGateway)
	notifier := new(MockNotificationDispatcher)
	uc := newTestRentalRequestUsecase(repo, gateway, notifier)

	property := &model.Property{ID: 10, OwnerID: 7, Available: false}
	gateway.On("GetByID", mock.Anything, int64(10)).Return(property, nil)
	gateway.On("IsAvailable", mock.Anything, int64(10)).Return(false, nil)

	req, err := uc.CreateRequest(context.Background(), 10, 3)
	assert.Nil(t, req)
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
	assert.Equal(t, "PROPERTY_NOT_AVAILABLE", errors.FromError(err).Reason)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateRequest_DuplicateActiveRequest(t *testing.T) {
	repo := new(MockRentalRequestRepo)
	gateway := new(MockPropertyGateway)
	notifier := new(MockNotificationDispatcher)
	uc := newTestRentalRequestUsecase(repo, gateway, notifier)

	property := &model.Property{ID: 10, OwnerID: 7, Available: true}
	gateway.On("GetByID", mock.Anything, int64(10)).Return(property, nil)
	gateway.On("IsAvailable", mock.Anything, int64(10)).Return(true, nil)
	repo.On("ExistsActive", mock.Anything, int64(10), int64(3), model.ActiveStatuses).Return(true, nil)

	req, err := uc.CreateRequest(context.Background(), 10, 3)
	assert.Nil(t, req)
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
	assert.Equal(t, "RENTAL_REQUEST_EXISTS", errors.FromError(err).Reason)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateStatus_AcceptCascadesRejection(t *testing.T) {
	repo := new(MockRentalRequestRepo)
	gateway := new(MockPropertyGateway)
	notifier := new(MockNotificationDispatcher)
	uc := newTestRentalRequestUsecase(repo, gateway, notifier)

	owner := model.Principal{UserID: 7}
	property := &model.Property{ID: 10, OwnerID: 7, Title: "Loft downtown", Available: true}
	accepted := &model.RentalRequest{ID: 1, PropertyID: 10, TenantID: 3, Status: model.StatusPending}
	siblingA := &model.RentalRequest{ID: 2, PropertyID: 10, TenantID: 4, Status: model.StatusPending}
	siblingB := &model.RentalRequest{ID: 3, PropertyID: 10, TenantID: 5, Status: model.StatusPending}

	repo.On("GetByID", mock.Anything, int64(1)).Return(accepted, nil)
	gateway.On("GetByID", mock.Anything, int64(10)).Return(property, nil)
	repo.On("ListByPropertyAndStatus", mock.Anything, int64(10), model.StatusPending).
		Return([]*model.RentalRequest{accepted, siblingA, siblingB}, nil)
	repo.On("Save", mock.Anything, siblingA).Return(nil)
	repo.On("Save", mock.Anything, siblingB).Return(nil)
	notifier.On("Dispatch", mock.Anything, mock.MatchedBy(func(ev *model.NotificationEvent) bool {
		return ev.EventType == model.EventRentalRequestRejected &&
			assert.ObjectsAreEqual([]int64{4, 5}, ev.RecipientIDs)
	})).Return().Once()
	gateway.On("SetAvailability", mock.Anything, int64(10), false).Return(nil)
	notifier.On("Dispatch", mock.Anything, mock.MatchedBy(func(ev *model.NotificationEvent) bool {
		return ev.EventType == model.EventRentalRequestAccepted &&
			assert.ObjectsAreEqual([]int64{3}, ev.RecipientIDs)
	})).Return().Once()
	repo.On("Save", mock.Anything, accepted).Return(nil)

	got, err := uc.UpdateStatus(context.Background(), 1, model.StatusAccepted, owner)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, got.Status)
	assert.Equal(t, model.StatusRejected, siblingA.Status)
	assert.Equal(t, model.StatusRejected, siblingB.Status)

	repo.AssertExpectations(t)
	gateway.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestUpdateStatus_AcceptAbortsWhenAvailabilityUpdateFails(t *testing.T) {
	repo := new(MockRentalRequestRepo)
	gateway := new(MockPropertyGateway)
	notifier := new(MockNotificationDispatcher)
	uc := newTestRentalRequestUsecase(repo, gateway, notifier)

	owner := model.Principal{UserID: 7}
	property := &model.Property{ID: 10, OwnerID: 7, Title: "Loft downtown", Available: true}
	accepted := &model.RentalRequest{ID: 1, PropertyID: 10, TenantID: 3, Status: model.StatusPending}

	repo.On("GetByID", mock.Anything, int64(1)).Return(accepted, nil)
	gateway.On("GetByID", mock.Anything, int64(10)).Return(property, nil)
	repo.On("ListByPropertyAndStatus", mock.Anything, int64(10), model.StatusPending).
		Return([]*model.RentalRequest{accepted}, nil)
	unavailable := errors.ServiceUnavailable("PROPERTY_SERVICE_UNAVAILABLE", "degraded")
	gateway.On("SetAvailability", mock.Anything, int64(10), false).Return(unavailable)

	got, err := uc.UpdateStatus(context.Background(), 1, model.StatusAccepted, owner)
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.IsServiceUnavailable(err))

	// The accepted status must not be persisted and no acceptance
	// notification may go out when the availability write fails.
	repo.AssertNotCalled(t, "Save", mock.Anything, accepted)
	notifier.AssertNotCalled(t, "Dispatch", mock.Anything, eventOfType(model.EventRentalRequestAccepted))
	assert.Equal(t, model.StatusPending, accepted.Status)
}

func TestUpdateStatus_RejectNotifiesTenant(t *testing.T) {
	repo := new(MockRentalRequestRepo)
	gateway := new(MockPropertyGateway)
	notifier := new(MockNotificationDispatcher)
	uc := newTestRentalRequestUsecase(repo, gateway, notifier)

	owner := model.Principal{UserID: 7}
	property := &model.Property{ID: 10, OwnerID: 7, Title: "Loft downtown", Available: true}
	req := &model.RentalRequest{ID: 1, PropertyID: 10, TenantID: 3, Status: model.StatusPending}

	repo.On("GetByID", mock.Anything, int64(1)).Return(req, nil)
	gateway.On("GetByID", mock.Anything, int64(10)).Return(property, nil)
	notifier.On("Dispatch", mock.Anything, mock.MatchedBy(func(ev *model.NotificationEvent) bool {
		return ev.EventType == model.EventRentalRequestRejected &&
			assert.ObjectsAreEqual([]int64{3}, ev.RecipientIDs)
	})).Return().Once()
	repo.On("Save", mock.Anything, req).Return(nil)

	got, err := uc.UpdateStatus(context.Background(), 1, model.StatusRejected, owner)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, got.Status)

	// Rejection never touches the property's availability.
	gateway.AssertNotCalled(t, "SetAvailability", mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertExpectations(t)
}

func TestUpdateStatus_NotOwnerForbidden(t *testing.T) {
	repo := new(MockRentalRequestRepo)
	gateway := new(MockPropertyGateway)
	notifier := new(MockNotificationDispatcher)
	uc := newTestRentalRequestUsecase(repo, gateway, notifier)

	property := &model.Property{ID: 10, OwnerID: 7, Available: true}
	req := &model.RentalRequest{ID: 1, PropertyID: 10, TenantID: 3, Status: model.StatusPending}

	repo.On("GetByID", mock.Anything, int64(1)).Return(req, nil)
	gateway.On("GetByID", mock.Anything, int64(10)).Return(property, nil)

	got, err := uc.UpdateStatus(context.Background(), 1, model.StatusAccepted, model.Principal{UserID: 99})
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.IsForbidden(err))
	assert.Equal(t, "NOT_PROPERTY_OWNER", errors.FromError(err).Reason)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestListForProperty_OwnerOnly(t *testing.T) {
	repo := new(MockRentalRequestRepo)
	gateway := new(MockPropertyGateway)
	notifier := new(MockNotificationDispatcher)
	uc := newTestRentalRequestUsecase(repo, gateway, notifier)

	property := &model.Property{ID: 10, OwnerID: 7, Available: true}
	gateway.On("GetByID", mock.Anything, int64(10)).Return(property, nil)

	_, err := uc.ListForProperty(context.Background(), 10, model.Principal{UserID: 3})
	require.Error(t, err)
	assert.True(t, errors.IsForbidden(err))
	assert.Equal(t, "NOT_PROPERTY_OWNER", errors.FromError(err).Reason)

	want := []*model.RentalRequest{{ID: 1, PropertyID: 10, TenantID: 3}}
	repo.On("ListByProperty", mock.Anything, int64(10)).Return(want, nil)

	got, err := uc.ListForProperty(context.Background(), 10, model.Principal{UserID: 7})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestListForTenant_SelfOnly(t *testing.T) {
	repo := new(MockRentalRequestRepo)
	gateway := new(MockPropertyGateway)
	notifier := new(MockNotificationDispatcher)
	uc := newTestRentalRequestUsecase(repo, gateway, notifier)

	_, err := uc.ListForTenant(context.Background(), 3, model.Principal{UserID: 4})
	require.Error(t, err)
	assert.True(t, errors.IsForbidden(err))
	assert.Equal(t, "TENANT_MISMATCH", errors.FromError(err).Reason)

	want := []*model.RentalRequest{{ID: 1, PropertyID: 10, TenantID: 3}}
	repo.On("ListByTenant", mock.Anything, int64(3)).Return(want, nil)

	got, err := uc.ListForTenant(context.Background(), 3, model.Principal{UserID: 3})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestListAll_AdminOnly(t *testing.T) {
	repo := new(MockRentalRequestRepo)
	gateway := new(MockPropertyGateway)
	notifier := new(MockNotificationDispatcher)
	uc := newTestRentalRequestUsecase(repo, gateway, notifier)

	_, err := uc.ListAll(context.Background(), model.Principal{UserID: 3})
	require.Error(t, err)
	assert.True(t, errors.IsForbidden(err))
	assert.Equal(t, "ADMIN_ONLY", errors.FromError(err).Reason)

	want := []*model.RentalRequest{{ID: 1}, {ID: 2}}
	repo.On("ListAll", mock.Anything).Return(want, nil)

	got, err := uc.ListAll(context.Background(), model.Principal{UserID: 3, Admin: true})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDeleteRequest_TenantOrAdmin(t *testing.T) {
	repo := new(MockRentalRequestRepo)
	gateway := new(MockPropertyGateway)
	notifier := new(MockNotificationDispatcher)
	uc := newTestRentalRequestUsecase(repo, gateway, notifier)

	req := &model.RentalRequest{ID: 1, PropertyID: 10, TenantID: 3}
	repo.On("GetByID", mock.Anything, int64(1)).Return(req, nil)

	err := uc.DeleteRequest(context.Background(), 1, model.Principal{UserID: 99})
	require.Error(t, err)
	assert.True(t, errors.IsForbidden(err))
	assert.Equal(t, "NOT_REQUEST_PARTY", errors.FromError(err).Reason)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	repo.On("Delete", mock.Anything, int64(1)).Return(nil).Twice()
	assert.NoError(t, uc.DeleteRequest(context.Background(), 1, model.Principal{UserID: 3}))
	assert.NoError(t, uc.DeleteRequest(context.Background(), 1, model.Principal{UserID: 99, Admin: true}))
	repo.AssertExpectations(t)
}

func TestPurgeTerminalRequests(t *testing.T) {
	repo := new(MockRentalRequestRepo)
	gateway := new(MockPropertyGateway)
	notifier := new(MockNotificationDispatcher)
	uc := newTestRentalRequestUsecase(repo, gateway, notifier)

	repo.On("DeleteTerminalBefore", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
		// The cutoff must sit roughly 90 days in the past.
		return time.Since(cutoff) > 89*24*time.Hour
	})).Return(int64(12), nil)

	removed, err := uc.PurgeTerminalRequests(context.Background(), 90*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(12), removed)
	repo.AssertExpectations(t)
}
