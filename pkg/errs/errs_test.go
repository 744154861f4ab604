package errs_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/navikt/gds-console/pkg/errs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestE(t *testing.T) {
	const inner errs.Op = "client.Get"
	const outer errs.Op = "service.Load"

	err := errs.E(outer, errs.E(errs.NotExist, inner, errs.Parameter("id"), fmt.Errorf("datashare 42 not found")))

	assert.True(t, errs.KindIs(errs.NotExist, err))
	assert.False(t, errs.KindIs(errs.IO, err))
	assert.Equal(t, errs.NotExist, errs.KindOf(err))
	assert.Equal(t, "service.Load: item_does_not_exist: param id:\n\tclient.Get: item_does_not_exist: param id: datashare 42 not found", err.Error())
}

func TestE_UnknownArgument(t *testing.T) {
	err := errs.E(42)
	assert.Contains(t, err.Error(), "unknown type int")
}

func TestHTTPErrorResponse(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		expectCode int
		expectBody string
	}{
		{
			name:       "not found",
			err:        errs.E(errs.Op("view.Get"), errs.NotExist, errs.Parameter("viewID"), errs.Str("no such view")),
			expectCode: http.StatusNotFound,
			expectBody: `{"error":{"kind":"item_does_not_exist","param":"viewID","message":"no such view"}}` + "\n",
		},
		{
			name:       "internal errors are masked",
			err:        errs.E(errs.Op("view.Get"), errs.Internal, errs.Str("boom")),
			expectCode: http.StatusInternalServerError,
			expectBody: `{"error":{"kind":"internal_error","message":"internal server error - please contact support"}}` + "\n",
		},
		{
			name:       "upstream failure",
			err:        errs.E(errs.Op("view.Save"), errs.E(errs.IO, errs.Op("gds.Put"), errs.Str("connection refused"))),
			expectCode: http.StatusBadGateway,
			expectBody: `{"error":{"kind":"io_error","message":"connection refused"}}` + "\n",
		},
		{
			name:       "plain error",
			err:        fmt.Errorf("oops"),
			expectCode: http.StatusInternalServerError,
			expectBody: `{"error":{"kind":"internal_error","message":"unexpected error - contact support"}}` + "\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer

			rr := httptest.NewRecorder()
			errs.HTTPErrorResponse(rr, zerolog.New(&buf), tc.err)

			require.Equal(t, tc.expectCode, rr.Code)
			assert.Equal(t, tc.expectBody, rr.Body.String())
			assert.NotEmpty(t, buf.String())
		})
	}
}
