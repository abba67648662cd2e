package handler

import (
	"encoding/json"
	"net/http"

	"seatplan/internal/locations/service"
	httputil "seatplan/pkg/http"
	"seatplan/pkg/logger"
	"seatplan/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type LocationHandler struct {
	service service.LocationService
	log     *logger.Logger
}

func NewLocationHandler(service service.LocationService, log *logger.Logger) *LocationHandler {
	return &LocationHandler{
		service: service,
		log:     log,
	}
}

func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var location model.Location
	if err := json.NewDecoder(r.Body).Decode(&location); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "Invalid request body"})
		return
	}
	location.CompanyID = ps.ByName("companyId")

	if err := h.service.Create(r.Context(), &location); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, location)
}

func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	locations, err := h.service.List(r.Context(), ps.ByName("companyId"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, locations)
}

func (h *LocationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	location, err := h.service.GetByID(r.Context(), ps.ByName("companyId"), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, location)
}

func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var location model.Location
	if err := json.NewDecoder(r.Body).Decode(&location); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "Invalid request body"})
		return
	}

	updated, err := h.service.Update(r.Context(), ps.ByName("companyId"), ps.ByName("id"), &location)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, updated)
}

func (h *LocationHandler) CreateTable(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var table model.Table
	if err := json.NewDecoder(r.Body).Decode(&table); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "Invalid request body"})
		return
	}
	table.CompanyID = ps.ByName("companyId")

	if err := h.service.CreateTable(r.Context(), &table); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, table)
}

func (h *LocationHandler) ListTables(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tables, err := h.service.ListTables(r.Context(), ps.ByName("companyId"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, tables)
}

func (h *LocationHandler) UpdateTable(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var table model.Table
	if err := json.NewDecoder(r.Body).Decode(&table); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "Invalid request body"})
		return
	}

	updated, err := h.service.UpdateTable(r.Context(), ps.ByName("companyId"), ps.ByName("id"), &table)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, updated)
}

func (h *LocationHandler) DeleteTable(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.DeactivateTable(r.Context(), ps.ByName("companyId"), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *LocationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/companies/:companyId/locations", h.Create)
	router.GET("/api/v1/companies/:companyId/locations", h.List)
	router.GET("/api/v1/companies/:companyId/locations/:id", h.GetByID)
	router.PUT("/api/v1/companies/:companyId/locations/:id", h.Update)
	router.POST("/api/v1/companies/:companyId/tables", h.CreateTable)
	router.GET("/api/v1/companies/:companyId/tables", h.ListTables)
	router.PUT("/api/v1/companies/:companyId/tables/:id", h.UpdateTable)
	router.DELETE("/api/v1/companies/:companyId/tables/:id", h.DeleteTable)
}
