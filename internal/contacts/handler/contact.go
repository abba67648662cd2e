package handler

import (
	"encoding/json"
	"net/http"

	"seatplan/internal/contacts/service"
	"seatplan/pkg/config"
	httputil "seatplan/pkg/http"
	"seatplan/pkg/logger"
	"seatplan/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ContactHandler struct {
	service service.ContactService
	log     *logger.Logger
}

func NewContactHandler(service service.ContactService, log *logger.Logger) *ContactHandler {
	return &ContactHandler{
		service: service,
		log:     log,
	}
}

func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var contact model.Contact
	if err := json.NewDecoder(r.Body).Decode(&contact); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "Invalid request body"})
		return
	}
	contact.CompanyID = ps.ByName("companyId")

	if err := h.service.Create(r.Context(), &contact); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, contact)
}

func (h *ContactHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	contact, err := h.service.GetByID(r.Context(), ps.ByName("companyId"), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, contact)
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	page, err := httputil.ExtractPage(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	search := r.URL.Query().Get("search")

	contacts, total, err := h.service.List(r.Context(), ps.ByName("companyId"), search, page)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, contacts, total, page, config.DefaultPaginationLimit)
}

func (h *ContactHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/companies/:companyId/contacts", h.Create)
	router.GET("/api/v1/companies/:companyId/contacts", h.List)
	router.GET("/api/v1/companies/:companyId/contacts/:id", h.GetByID)
}
