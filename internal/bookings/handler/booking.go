package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"seatplan/internal/bookings/refresh"
	"seatplan/internal/bookings/service"
	"seatplan/pkg/config"
	httputil "seatplan/pkg/http"
	"seatplan/pkg/logger"
	"seatplan/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service     service.BookingService
	refresher   *refresh.Refresher
	pollTimeout time.Duration
	log         *logger.Logger
}

func NewBookingHandler(svc service.BookingService, refresher *refresh.Refresher, cfg *config.Config) *BookingHandler {
	return &BookingHandler{
		service:     svc,
		refresher:   refresher,
		pollTimeout: cfg.ChangePollTimeout,
		log:         cfg.Log,
	}
}

// createRequest is the combined create payload. When contact is present the
// booking and its contact commit in one transaction.
type createRequest struct {
	model.Booking
	Contact *model.NewBookingContact `json:"contact,omitempty"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "Invalid request body"})
		return
	}
	req.Booking.CompanyID = ps.ByName("companyId")

	var err error
	if req.Contact != nil {
		err = h.service.CreateWithContact(r.Context(), &req.Booking, req.Contact)
	} else {
		err = h.service.Create(r.Context(), &req.Booking)
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, req.Booking)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	page, err := httputil.ExtractPage(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	filters, err := extractFilters(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	q := r.URL.Query()
	bookings, total, err := h.service.Query(r.Context(), ps.ByName("companyId"), page, filters, q.Get("sort"), q.Get("dir"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, bookings, total, page, config.DefaultPaginationLimit)
}

// Diary returns every booking for one service day, unpaginated. The timeline
// and diary screens both feed from this.
func (h *BookingHandler) Diary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	q := r.URL.Query()
	bookings, err := h.service.FindDay(r.Context(), ps.ByName("companyId"), q.Get("location_id"), q.Get("date"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, bookings)
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("companyId"), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.BookingUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "Invalid request body"})
		return
	}

	booking, err := h.service.Update(r.Context(), ps.ByName("companyId"), ps.ByName("id"), &updates)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("companyId"), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) Share(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	companyID := ps.ByName("companyId")
	bookingID := ps.ByName("id")

	// The booking must exist before a link for it is minted.
	if _, err := h.service.GetByID(r.Context(), companyID, bookingID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	token, err := h.service.ShareToken(companyID, bookingID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, map[string]string{"token": token})
}

func (h *BookingHandler) ResolveToken(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByShareToken(r.Context(), ps.ByName("token"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

type changesResponse struct {
	Changed bool   `json:"changed"`
	Cursor  uint64 `json:"cursor"`
}

// Changes long-polls for booking changes in one company. It blocks until the
// coalescer signals or the poll timeout passes; either way the response is
// 200 with the current cursor, so clients just loop.
func (h *BookingHandler) Changes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	companyID := q.Get("company_id")
	if companyID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "company_id is required"})
		return
	}

	var cursor uint64
	if raw := q.Get("cursor"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "cursor must be a non-negative integer"})
			return
		}
		cursor = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.pollTimeout)
	defer cancel()

	seq, changed := h.refresher.Wait(ctx, companyID, cursor)
	httputil.WriteSuccess(w, changesResponse{Changed: changed, Cursor: seq})
}

func extractFilters(r *http.Request) (*model.BookingFilters, error) {
	q := r.URL.Query()

	minGuests, err := httputil.ExtractIntParam(r, "min_guests")
	if err != nil {
		return nil, err
	}
	maxGuests, err := httputil.ExtractIntParam(r, "max_guests")
	if err != nil {
		return nil, err
	}

	var statuses []string
	if raw := q.Get("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				statuses = append(statuses, s)
			}
		}
	}

	return &model.BookingFilters{
		SearchTerm: strings.TrimSpace(q.Get("search")),
		LocationID: q.Get("location_id"),
		DateFrom:   q.Get("date_from"),
		DateTo:     q.Get("date_to"),
		Statuses:   statuses,
		MinGuests:  minGuests,
		MaxGuests:  maxGuests,
	}, nil
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/companies/:companyId/bookings", h.Create)
	router.GET("/api/v1/companies/:companyId/bookings", h.List)
	router.GET("/api/v1/companies/:companyId/bookings/:id", h.GetByID)
	router.PATCH("/api/v1/companies/:companyId/bookings/:id", h.Update)
	router.DELETE("/api/v1/companies/:companyId/bookings/:id", h.Delete)
	router.GET("/api/v1/companies/:companyId/bookings/:id/share", h.Share)
	router.GET("/api/v1/companies/:companyId/diary", h.Diary)
	router.GET("/api/v1/bookings/token/:token", h.ResolveToken)
	router.GET("/api/v1/bookings/changes", h.Changes)
}
