package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/patronpoint/loyalty-service/internal/application"
)

func (h *Handler) createTemplate(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := businessFromRequest(w, r)
	if !ok {
		return
	}
	var req application.PutTemplateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.service.CreateTemplate(r.Context(), businessID, req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}

func (h *Handler) listTemplates(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := businessFromRequest(w, r)
	if !ok {
		return
	}
	resp, err := h.service.ListTemplates(r.Context(), businessID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"templates": resp})
}

func (h *Handler) updateTemplate(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := businessFromRequest(w, r)
	if !ok {
		return
	}
	templateID, err := uuid.Parse(chi.URLParam(r, "template_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid template_id")
		return
	}
	var req application.PutTemplateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.service.UpdateTemplate(r.Context(), businessID, templateID, req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := businessFromRequest(w, r)
	if !ok {
		return
	}
	templateID, err := uuid.Parse(chi.URLParam(r, "template_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid template_id")
		return
	}
	if err := h.service.DeleteTemplate(r.Context(), businessID, templateID); err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeMessage(w, http.StatusOK, "Template removed")
}

func (h *Handler) renderTemplate(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := businessFromRequest(w, r)
	if !ok {
		return
	}
	templateID, err := uuid.Parse(chi.URLParam(r, "template_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid template_id")
		return
	}
	var req application.RenderTemplateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.service.RenderTemplate(r.Context(), businessID, templateID, req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}
