package timeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"seatplan/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type stubTimelineService struct {
	day *Day
	err error
}

func (s *stubTimelineService) Day(ctx context.Context, companyID, locationID, date string) (*Day, error) {
	return s.day, s.err
}

func handlerLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

func TestDayHandler_IncludesViewportWhenWidthGiven(t *testing.T) {
	now := 1200
	svc := &stubTimelineService{day: &Day{
		Date:         "2026-09-12",
		ContentWidth: 2400,
		NowOffset:    &now,
	}}
	router := httprouter.New()
	NewHandler(svc, handlerLogger()).RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/timeline?company_id=64b2f0c9a1e4d2f3a4b5c6d7&date=2026-09-12&viewport_width=800", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data Day `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body.Data.Viewport == nil {
		t.Fatal("viewport_width must produce an initial viewport")
	}
	if body.Data.Viewport.Offset != 800 {
		t.Errorf("viewport must open centered on the live marker, got offset %d", body.Data.Viewport.Offset)
	}
	if body.Data.Viewport.Width != 800 || body.Data.Viewport.ContentWidth != 2400 {
		t.Errorf("viewport dimensions wrong: %+v", body.Data.Viewport)
	}
}

func TestDayHandler_NoViewportWithoutWidth(t *testing.T) {
	svc := &stubTimelineService{day: &Day{Date: "2026-09-12", ContentWidth: 2400}}
	router := httprouter.New()
	NewHandler(svc, handlerLogger()).RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/timeline?company_id=64b2f0c9a1e4d2f3a4b5c6d7&date=2026-09-12", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data Day `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body.Data.Viewport != nil {
		t.Error("no viewport without a requested width")
	}
}

func TestDayHandler_RejectsBadViewportWidth(t *testing.T) {
	svc := &stubTimelineService{day: &Day{Date: "2026-09-12"}}
	router := httprouter.New()
	NewHandler(svc, handlerLogger()).RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/timeline?company_id=64b2f0c9a1e4d2f3a4b5c6d7&viewport_width=wide", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a malformed width, got %d", rec.Code)
	}
}