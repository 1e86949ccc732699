package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-9")

	Error(c, WrapError(CodeBadRequest, "INVALID_PARAMS", "Invalid search parameters", errors.New("radius")).
		WithDetails([]map[string]string{{"field": "radius", "message": "must be at most 50"}}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status want 400 got %d", w.Code)
	}
	var body struct {
		Error struct {
			Code      string              `json:"code"`
			Message   string              `json:"message"`
			Details   []map[string]string `json:"details"`
			RequestID string              `json:"requestId"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if body.Error.Code != "INVALID_PARAMS" || body.Error.RequestID != "req-9" {
		t.Fatalf("unexpected envelope: %+v", body.Error)
	}
	if len(body.Error.Details) != 1 || body.Error.Details[0]["field"] != "radius" {
		t.Fatalf("details missing: %+v", body.Error.Details)
	}
	if !c.IsAborted() {
		t.Fatalf("error response should abort the chain")
	}
}

func TestErrorWithoutDetailsOmitsKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, &AppError{Code: "SEARCH_ERROR", Message: "Search failed"})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("zero status should default to 500, got %d", w.Code)
	}
	if got := w.Body.String(); got != `{"error":{"code":"SEARCH_ERROR","message":"Search failed"}}` {
		t.Fatalf("unexpected body %s", got)
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	root := errors.New("db down")
	appErr := WrapError(CodeInternal, "SEARCH_ERROR", "Search failed", root)
	if !errors.Is(appErr, root) {
		t.Fatalf("app error should unwrap to root cause")
	}
	if appErr.Error() != "Search failed: db down" {
		t.Fatalf("unexpected error string %s", appErr.Error())
	}
}
