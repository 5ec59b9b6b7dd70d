package handlers

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/walkin-queue/internal/httperr"
)

func TestWriteQueueErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{httperr.ErrBusiness(httperr.CodeAlreadyQueued), 409, "already_queued"},
		{httperr.ErrBusiness(httperr.CodeStaleEntry), 409, "stale_entry"},
		{httperr.ErrBusiness(httperr.CodeServiceNotFound), 404, "service_not_found"},
		{httperr.ErrBusiness(httperr.CodeEntryNotFound), 404, "entry_not_found"},
		{httperr.ErrBusiness(httperr.CodeIllegalTransition), 400, "illegal_transition"},
		{httperr.ErrBusiness(httperr.CodeUnauthorized), 403, "unauthorized"},
		{errors.New("connection refused"), 503, "store_unavailable"},
	}

	for _, tt := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		writeQueueError(c, tt.err)

		if w.Code != tt.status {
			t.Fatalf("%v: status=%d, want %d", tt.err, w.Code, tt.status)
		}
		if !strings.Contains(w.Body.String(), tt.code) {
			t.Fatalf("%v: body %q missing code %q", tt.err, w.Body.String(), tt.code)
		}
	}
}
