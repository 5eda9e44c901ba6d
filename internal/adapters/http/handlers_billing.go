package http

import (
	"net/http"

	"github.com/patronpoint/loyalty-service/internal/application"
)

func (h *Handler) listPlans(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ListPlans(r.Context())
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"plans": resp})
}

func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := businessFromRequest(w, r)
	if !ok {
		return
	}
	var req application.SubscribeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.service.Subscribe(r.Context(), businessID, req, r.Header.Get("Idempotency-Key"))
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}

func (h *Handler) getSubscription(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := businessFromRequest(w, r)
	if !ok {
		return
	}
	resp, err := h.service.GetSubscription(r.Context(), businessID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) cancelSubscription(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := businessFromRequest(w, r)
	if !ok {
		return
	}
	resp, err := h.service.CancelSubscription(r.Context(), businessID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}
