package routes_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/navikt/gds-console/pkg/datashare"
	"github.com/navikt/gds-console/pkg/service"
	"github.com/navikt/gds-console/pkg/service/core"
	"github.com/navikt/gds-console/pkg/service/core/api/mock"
	"github.com/navikt/gds-console/pkg/service/core/handlers"
	"github.com/navikt/gds-console/pkg/service/core/routes"
	"github.com/navikt/gds-console/pkg/service/core/storage/memory"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	tmock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T, api service.DataShareAPI) chi.Router {
	t.Helper()

	log := zerolog.Nop()
	views := memory.NewViewStorage[*datashare.View](time.Hour, log)
	svc := core.NewDataShareViewService(api, &mock.DataShareAnnouncerMock{}, views, 5, "http://localhost:6080", log)
	h := handlers.NewHandlers(core.NewServices(svc), log)

	r := chi.NewRouter()
	routes.Add(r, nil, routes.NewDataShareViewRoutes(routes.NewDataShareViewEndpoints(log, h.DataShareViewHandler)))

	return r
}

func do(t *testing.T, r http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(method, target, &buf))

	return rr
}

func decodeState(t *testing.T, rr *httptest.ResponseRecorder) *service.DataShareViewState {
	t.Helper()

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	st := &service.DataShareViewState{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(st))

	return st
}

func newAPI() *mock.DataShareAPIMock {
	api := &mock.DataShareAPIMock{}
	api.On("GetDataShare", tmock.Anything, int64(42)).Return(&service.DataShare{
		ID:      42,
		Name:    "sales",
		Service: "dev_hive",
		ACL:     &service.ACL{Users: map[string]service.Permission{"alice": service.PermissionView}},
	}, nil)
	api.On("GetServiceByName", tmock.Anything, "dev_hive").Return(&service.ServiceDescriptor{Name: "dev_hive", Type: "hive"}, nil)
	api.On("GetServiceDefByName", tmock.Anything, "hive").Return(&service.ServiceDef{Name: "hive"}, nil)

	return api
}

func TestDataShareViewRoutes(t *testing.T) {
	api := newAPI()
	api.On("ListSharedResources", tmock.Anything, service.ListQuery{
		DataShareID: 42,
		Page:        1,
		PageSize:    5,
		StartIndex:  5,
		Filter:      map[string]string{"resourceContains": "orders"},
	}).Return(&service.Page[service.SharedResource]{
		List:       []service.SharedResource{{ID: 7, Name: "orders"}},
		TotalCount: 6,
	}, nil)

	r := newRouter(t, api)

	st := decodeState(t, do(t, r, http.MethodPost, "/api/datashare-views", map[string]any{
		"dataShareId": 42,
		"name":        "bob",
		"userAclPerm": "ADMIN",
	}))
	require.NotEmpty(t, st.ViewID)
	assert.Equal(t, service.LoadStateLoaded, st.LoadState)
	assert.True(t, st.Permissions.CanEdit)

	base := "/api/datashare-views/" + st.ViewID

	st = decodeState(t, do(t, r, http.MethodGet, base+"/resources?page=1&resourceContains=orders", nil))
	assert.Equal(t, 2, st.Resources.PageCount)
	assert.Equal(t, 1, st.Resources.Page)
	require.Len(t, st.Resources.Items, 1)
	assert.Equal(t, "orders", st.Resources.Items[0].Name)

	st = decodeState(t, do(t, r, http.MethodPost, base+"/modal", service.OpenModalInput{Kind: service.ModalConditions, TargetID: 7}))
	require.NotNil(t, st.Modal)
	assert.Equal(t, service.ModalConditions, st.Modal.Kind)

	st = decodeState(t, do(t, r, http.MethodDelete, base+"/modal", nil))
	assert.Nil(t, st.Modal)

	rr := do(t, r, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, r, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	api.AssertExpectations(t)
}

func TestDataShareViewRoutes_AcceptRequest(t *testing.T) {
	api := newAPI()
	api.On("ListDataShareDatasets", tmock.Anything, service.ListQuery{
		DataShareID: 42,
		PageSize:    5,
		Filter:      map[string]string{"shareStatus": "REQUESTED"},
	}).Return(&service.Page[service.DataShareDataset]{
		List:       []service.DataShareDataset{{ID: 8, DataShareID: 42, DatasetID: 4, DatasetName: "returns", Status: service.DataShareDatasetStatusRequested}},
		TotalCount: 1,
	}, nil)
	api.On("UpdateDataShareDataset", tmock.Anything, tmock.MatchedBy(func(d *service.DataShareDataset) bool {
		return d.ID == 8 && d.Status == service.DataShareDatasetStatusGranted && d.Approver == "bob"
	})).Return(&service.DataShareDataset{ID: 8, Status: service.DataShareDatasetStatusGranted}, nil)

	r := newRouter(t, api)

	st := decodeState(t, do(t, r, http.MethodPost, "/api/datashare-views", map[string]any{
		"dataShareId": 42,
		"name":        "bob",
		"userAclPerm": "ADMIN",
	}))
	assert.True(t, st.Permissions.CanAcceptRequests)

	base := "/api/datashare-views/" + st.ViewID

	st = decodeState(t, do(t, r, http.MethodGet, base+"/requests?status=REQUESTED", nil))
	require.Len(t, st.Requests.Items, 1)

	st = decodeState(t, do(t, r, http.MethodPost, base+"/requests/8/accept", nil))
	require.NotEmpty(t, st.Notifications)
	assert.Equal(t, "Success! Datashare request accepted successfully", st.Notifications[len(st.Notifications)-1].Message)

	api.AssertExpectations(t)
}

func TestDataShareViewRoutes_Export(t *testing.T) {
	api := newAPI()
	api.On("ListSharedResources", tmock.Anything, tmock.MatchedBy(func(q service.ListQuery) bool {
		return q.PageSize == datashare.CompleteListPageSize
	})).Return(&service.Page[service.SharedResource]{List: []service.SharedResource{{ID: 7, Name: "orders"}}, TotalCount: 1}, nil)
	api.On("ListDataShareDatasets", tmock.Anything, tmock.MatchedBy(func(q service.ListQuery) bool {
		return q.PageSize == datashare.CompleteListPageSize
	})).Return(&service.Page[service.DataShareDataset]{}, nil)

	r := newRouter(t, api)

	st := decodeState(t, do(t, r, http.MethodPost, "/api/datashare-views", map[string]any{"dataShareId": 42}))

	rr := do(t, r, http.MethodGet, "/api/datashare-views/"+st.ViewID+"/export", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `attachment; filename=sales.json`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var got map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, "sales", got["name"])
	assert.Len(t, got["resources"], 1)
	assert.Len(t, got["datasets"], 0)
}

func TestDataShareViewRoutes_BadRequests(t *testing.T) {
	r := newRouter(t, newAPI())

	st := decodeState(t, do(t, r, http.MethodPost, "/api/datashare-views", map[string]any{"dataShareId": 42}))
	base := "/api/datashare-views/" + st.ViewID

	testCases := []struct {
		name   string
		method string
		target string
		body   any
		status int
	}{
		{name: "missing datashare id", method: http.MethodPost, target: "/api/datashare-views", body: map[string]any{}, status: http.StatusBadRequest},
		{name: "unknown tab", method: http.MethodPost, target: base + "/tab", body: service.TabInput{Tab: "history"}, status: http.StatusBadRequest},
		{name: "page is not a number", method: http.MethodGet, target: base + "/resources?page=two", status: http.StatusBadRequest},
		{name: "negative page", method: http.MethodGet, target: base + "/requests?page=-1", status: http.StatusBadRequest},
		{name: "unknown status", method: http.MethodGet, target: base + "/requests?status=BOGUS", status: http.StatusBadRequest},
		{name: "viewer cannot edit", method: http.MethodPost, target: base + "/edit", status: http.StatusForbidden},
		{name: "viewer cannot accept", method: http.MethodPost, target: base + "/requests/8/accept", status: http.StatusForbidden},
		{name: "request id is not a number", method: http.MethodPost, target: base + "/requests/eight/accept", status: http.StatusBadRequest},
		{name: "nothing to confirm", method: http.MethodPost, target: base + "/modal/confirm", status: http.StatusBadRequest},
		{name: "unknown view", method: http.MethodGet, target: "/api/datashare-views/nope", status: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, r, tc.method, tc.target, tc.body)
			assert.Equal(t, tc.status, rr.Code, rr.Body.String())
		})
	}
}

func TestPrint(t *testing.T) {
	r := newRouter(t, newAPI())

	var out strings.Builder
	require.NoError(t, routes.Print(r, &out))

	assert.Contains(t, out.String(), "/api/datashare-views/{viewID}/modal/confirm")
	assert.True(t, strings.HasPrefix(out.String(), "Method"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")[1:]
	keys := make([]string, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		require.Len(t, fields, 3)
		keys = append(keys, fields[1]+" "+fields[0])
	}
	assert.True(t, sort.StringsAreSorted(keys), keys)
}

func TestAdd_CORS(t *testing.T) {
	r := chi.NewRouter()
	routes.Add(r, []string{"https://console.example.com"}, routes.NewHealthRoutes())

	tests := []struct {
		name        string
		origin      string
		allowOrigin string
	}{
		{name: "allowed origin", origin: "https://console.example.com", allowOrigin: "https://console.example.com"},
		{name: "other origin", origin: "https://evil.example.com", allowOrigin: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/internal/isalive", nil)
			req.Header.Set("Origin", tc.origin)

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tc.allowOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			if tc.allowOrigin != "" {
				assert.Contains(t, rr.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
			}
		})
	}
}
