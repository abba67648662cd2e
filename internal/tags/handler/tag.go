package handler

import (
	"encoding/json"
	"net/http"

	"seatplan/internal/tags/service"
	httputil "seatplan/pkg/http"
	"seatplan/pkg/logger"
	"seatplan/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type TagHandler struct {
	service service.TagService
	log     *logger.Logger
}

func NewTagHandler(service service.TagService, log *logger.Logger) *TagHandler {
	return &TagHandler{
		service: service,
		log:     log,
	}
}

func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var tag model.Tag
	if err := json.NewDecoder(r.Body).Decode(&tag); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "Invalid request body"})
		return
	}
	tag.CompanyID = ps.ByName("companyId")

	if err := h.service.Create(r.Context(), &tag); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, tag)
}

func (h *TagHandler) List(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tags, err := h.service.List(r.Context(), ps.ByName("companyId"), r.URL.Query().Get("category"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, tags)
}

func (h *TagHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tag, err := h.service.GetByID(r.Context(), ps.ByName("companyId"), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, tag)
}

func (h *TagHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.TagUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "Invalid request body"})
		return
	}

	updated, err := h.service.Update(r.Context(), ps.ByName("companyId"), ps.ByName("id"), &updates)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, updated)
}

func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("companyId"), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

type reorderRequest struct {
	Category   string   `json:"category"`
	OrderedIDs []string `json:"ordered_ids"`
}

func (h *TagHandler) Reorder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.service.Reorder(r.Context(), ps.ByName("companyId"), req.Category, req.OrderedIDs); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *TagHandler) BookingTags(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tags, err := h.service.ForBooking(r.Context(), ps.ByName("companyId"), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, tags)
}

func (h *TagHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/companies/:companyId/tags", h.Create)
	router.GET("/api/v1/companies/:companyId/tags", h.List)
	// Reorder rides on the collection path because httprouter cannot mix a
	// static "order" segment with the :id wildcard.
	router.PUT("/api/v1/companies/:companyId/tags", h.Reorder)
	router.GET("/api/v1/companies/:companyId/tags/:id", h.GetByID)
	router.PATCH("/api/v1/companies/:companyId/tags/:id", h.Update)
	router.DELETE("/api/v1/companies/:companyId/tags/:id", h.Delete)

	router.GET("/api/v1/companies/:companyId/bookings/:id/tags", h.BookingTags)
}
