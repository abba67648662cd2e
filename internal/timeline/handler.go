package timeline

import (
	"net/http"
	"strconv"

	httputil "seatplan/pkg/http"
	"seatplan/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	service TimelineService
	log     *logger.Logger
}

func NewHandler(service TimelineService, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) Day(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	companyID := q.Get("company_id")
	if companyID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "company_id is required"})
		return
	}

	day, err := h.service.Day(r.Context(), companyID, q.Get("location_id"), q.Get("date"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if s := q.Get("viewport_width"); s != "" {
		width, err := strconv.Atoi(s)
		if err != nil || width < 0 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid viewport_width parameter: " + s})
			return
		}
		v := InitialViewport(width, day.ContentWidth, day.NowOffset)
		day.Viewport = &v
	}

	httputil.WriteSuccess(w, day)
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/timeline", h.Day)
}
