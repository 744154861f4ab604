package core_test

import (
	"context"
	"testing"
	"time"

	"github.com/navikt/gds-console/pkg/datashare"
	"github.com/navikt/gds-console/pkg/errs"
	"github.com/navikt/gds-console/pkg/service"
	"github.com/navikt/gds-console/pkg/service/core"
	"github.com/navikt/gds-console/pkg/service/core/api/mock"
	"github.com/navikt/gds-console/pkg/service/core/storage/memory"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	tmock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var salesDataShare = &service.DataShare{
	ID:      42,
	Name:    "sales",
	Service: "dev_hive",
	ACL: &service.ACL{
		Users: map[string]service.Permission{"alice": service.PermissionView},
	},
}

func newDataShareAPIMock(ds *service.DataShare) *mock.DataShareAPIMock {
	api := &mock.DataShareAPIMock{}
	api.On("GetDataShare", tmock.Anything, ds.ID).Return(ds, nil)
	api.On("GetServiceByName", tmock.Anything, "dev_hive").Return(&service.ServiceDescriptor{Name: "dev_hive", Type: "hive"}, nil)
	api.On("GetServiceDefByName", tmock.Anything, "hive").Return(&service.ServiceDef{Name: "hive"}, nil)

	return api
}

func newService(api service.DataShareAPI, announcer service.DataShareAnnouncer) (service.DataShareViewService, service.ViewStorage[*datashare.View]) {
	views := memory.NewViewStorage[*datashare.View](time.Hour, zerolog.Nop())

	return core.NewDataShareViewService(api, announcer, views, 5, "https://ranger.example.com", zerolog.Nop()), views
}

func TestDataShareViewService_OpenView(t *testing.T) {
	api := newDataShareAPIMock(salesDataShare)
	svc, views := newService(api, &mock.DataShareAnnouncerMock{})

	st, err := svc.OpenView(context.Background(), service.OpenViewInput{
		DataShareID: 42,
		Actor:       service.Actor{Name: "bob", Permission: service.PermissionAdmin},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, st.ViewID)
	assert.Equal(t, service.LoadStateLoaded, st.LoadState)
	assert.Equal(t, service.EditStateViewing, st.EditState)
	assert.Equal(t, []service.Principal{{Name: "alice", Type: service.PrincipalTypeUser, Perm: service.PermissionView}}, st.Draft.Principals.Users)
	assert.Empty(t, st.Draft.Principals.Groups)
	assert.Equal(t, "https://ranger.example.com/gds/datashare/42", st.Links.Self)
	assert.Equal(t, 1, views.Len())

	got, err := svc.GetView(context.Background(), st.ViewID)
	require.NoError(t, err)
	assert.Equal(t, st.ViewID, got.ViewID)
	assert.Equal(t, "sales", got.DataShare.Name)

	require.NoError(t, svc.CloseView(context.Background(), st.ViewID))
	assert.Equal(t, 0, views.Len())

	api.AssertExpectations(t)
}

func TestDataShareViewService_OpenViewInvalidInput(t *testing.T) {
	testCases := []struct {
		name  string
		input service.OpenViewInput
	}{
		{
			name:  "missing datashare id",
			input: service.OpenViewInput{},
		},
		{
			name: "unknown permission",
			input: service.OpenViewInput{
				DataShareID: 42,
				Actor:       service.Actor{Permission: "OWNER"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			api := &mock.DataShareAPIMock{}
			svc, _ := newService(api, &mock.DataShareAnnouncerMock{})

			_, err := svc.OpenView(context.Background(), tc.input)
			require.Error(t, err)
			assert.True(t, errs.KindIs(errs.InvalidRequest, err))

			api.AssertNotCalled(t, "GetDataShare", tmock.Anything, tmock.Anything)
		})
	}
}

func TestDataShareViewService_OpenViewUpstreamFailure(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		expectKind errs.Kind
		expectView bool
	}{
		{
			name:       "missing datashare is not registered",
			err:        errs.E(errs.NotExist, errs.Op("test"), errs.Str("no such datashare")),
			expectKind: errs.NotExist,
		},
		{
			name:       "unreachable upstream leaves a failed view",
			err:        errs.E(errs.IO, errs.Op("test"), errs.Str("connection refused")),
			expectView: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			api := &mock.DataShareAPIMock{}
			api.On("GetDataShare", tmock.Anything, int64(42)).Return(nil, tc.err)

			svc, views := newService(api, &mock.DataShareAnnouncerMock{})

			st, err := svc.OpenView(context.Background(), service.OpenViewInput{DataShareID: 42})

			if !tc.expectView {
				require.Error(t, err)
				assert.True(t, errs.KindIs(tc.expectKind, err))
				assert.Equal(t, 0, views.Len())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, service.LoadStateFailed, st.LoadState)
			assert.Nil(t, st.DataShare)
			assert.Equal(t, 1, views.Len())
		})
	}
}

func TestDataShareViewService_UnknownView(t *testing.T) {
	svc, _ := newService(&mock.DataShareAPIMock{}, &mock.DataShareAnnouncerMock{})

	_, err := svc.BeginEdit(context.Background(), "nope")
	assert.True(t, errs.KindIs(errs.NotExist, err))

	_, err = svc.Export(context.Background(), "nope")
	assert.True(t, errs.KindIs(errs.NotExist, err))

	assert.True(t, errs.KindIs(errs.NotExist, svc.CloseView(context.Background(), "nope")))
}

func TestDataShareViewService_EditAndSave(t *testing.T) {
	api := newDataShareAPIMock(salesDataShare)
	api.On("UpdateDataShare", tmock.Anything, tmock.MatchedBy(func(ds *service.DataShare) bool {
		return ds.ID == 42 && ds.Name == "sales-v2"
	})).Return(&service.DataShare{ID: 42, Name: "sales-v2", Service: "dev_hive"}, nil)

	svc, _ := newService(api, &mock.DataShareAnnouncerMock{})
	ctx := context.Background()

	st, err := svc.OpenView(ctx, service.OpenViewInput{
		DataShareID: 42,
		Actor:       service.Actor{Name: "bob", SystemAdmin: true},
	})
	require.NoError(t, err)

	st, err = svc.BeginEdit(ctx, st.ViewID)
	require.NoError(t, err)
	assert.True(t, st.SaveCancelVisible)

	name := "sales-v2"
	st, err = svc.UpdateDraft(ctx, st.ViewID, service.DraftInput{Name: &name})
	require.NoError(t, err)
	require.Len(t, st.PendingChanges, 1)
	assert.Equal(t, "name", st.PendingChanges[0].Path)

	st, err = svc.Save(ctx, st.ViewID)
	require.NoError(t, err)
	assert.Equal(t, service.EditStateViewing, st.EditState)
	assert.False(t, st.SaveCancelVisible)
	require.NotEmpty(t, st.Notifications)
	assert.Equal(t, "Datashare updated successfully!!", st.Notifications[len(st.Notifications)-1].Message)

	api.AssertExpectations(t)
}

func TestDataShareViewService_DeleteDataShare(t *testing.T) {
	api := newDataShareAPIMock(salesDataShare)
	api.On("DeleteDataShare", tmock.Anything, int64(42), true).Return(nil)

	announcer := &mock.DataShareAnnouncerMock{}
	announcer.On("InformDataShareDeleted", tmock.Anything, tmock.MatchedBy(func(ds *service.DataShare) bool {
		return ds.ID == 42 && ds.Name == "sales"
	}), "bob").Return(nil)

	svc, views := newService(api, announcer)
	ctx := context.Background()

	st, err := svc.OpenView(ctx, service.OpenViewInput{
		DataShareID: 42,
		Actor:       service.Actor{Name: "bob", Permission: service.PermissionAdmin},
	})
	require.NoError(t, err)

	viewID := st.ViewID

	st, err = svc.OpenModal(ctx, viewID, service.OpenModalInput{Kind: service.ModalDeleteDataShare})
	require.NoError(t, err)
	require.NotNil(t, st.Modal)

	st, err = svc.ConfirmModal(ctx, viewID)
	require.NoError(t, err)
	assert.Equal(t, "/gds/mydatasharelisting", st.Redirect)
	assert.Nil(t, st.Modal)

	_, err = svc.GetView(ctx, viewID)
	assert.True(t, errs.KindIs(errs.NotExist, err))
	assert.Equal(t, 0, views.Len())

	api.AssertExpectations(t)
	announcer.AssertExpectations(t)
}

func TestDataShareViewService_DeleteDataShareAnnounceFails(t *testing.T) {
	api := newDataShareAPIMock(salesDataShare)
	api.On("DeleteDataShare", tmock.Anything, int64(42), true).Return(nil)

	announcer := &mock.DataShareAnnouncerMock{}
	announcer.On("InformDataShareDeleted", tmock.Anything, tmock.Anything, "bob").Return(errs.E(errs.IO, errs.Op("test"), errs.Str("slack is down")))

	svc, _ := newService(api, announcer)
	ctx := context.Background()

	st, err := svc.OpenView(ctx, service.OpenViewInput{
		DataShareID: 42,
		Actor:       service.Actor{Name: "bob", SystemAdmin: true},
	})
	require.NoError(t, err)

	_, err = svc.OpenModal(ctx, st.ViewID, service.OpenModalInput{Kind: service.ModalDeleteDataShare})
	require.NoError(t, err)

	st, err = svc.ConfirmModal(ctx, st.ViewID)
	require.NoError(t, err)
	assert.Equal(t, "/gds/mydatasharelisting", st.Redirect)
}

func TestDataShareViewService_OpenModalUnauthorized(t *testing.T) {
	api := newDataShareAPIMock(salesDataShare)
	svc, _ := newService(api, &mock.DataShareAnnouncerMock{})
	ctx := context.Background()

	st, err := svc.OpenView(ctx, service.OpenViewInput{
		DataShareID: 42,
		Actor:       service.Actor{Name: "carol", Permission: service.PermissionView},
	})
	require.NoError(t, err)

	_, err = svc.OpenModal(ctx, st.ViewID, service.OpenModalInput{Kind: service.ModalDeleteDataShare})
	assert.True(t, errs.KindIs(errs.Unauthorized, err))
}
