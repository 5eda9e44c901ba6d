package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/patronpoint/loyalty-service/internal/application"
)

func (h *Handler) upsertProgram(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := businessFromRequest(w, r)
	if !ok {
		return
	}
	var req application.UpsertProgramRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.service.UpsertProgram(r.Context(), businessID, req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) getProgram(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := businessFromRequest(w, r)
	if !ok {
		return
	}
	resp, err := h.service.GetProgram(r.Context(), businessID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) addReward(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := businessFromRequest(w, r)
	if !ok {
		return
	}
	var req application.CreateRewardRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.service.AddReward(r.Context(), businessID, req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}

func (h *Handler) updateReward(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := businessFromRequest(w, r)
	if !ok {
		return
	}
	rewardID, err := uuid.Parse(chi.URLParam(r, "reward_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid reward_id")
		return
	}
	var req application.UpdateRewardRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.service.UpdateReward(r.Context(), businessID, rewardID, req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) redeemReward(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := businessFromRequest(w, r)
	if !ok {
		return
	}
	rewardID, err := uuid.Parse(chi.URLParam(r, "reward_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid reward_id")
		return
	}
	var req application.RedeemRewardRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.service.RedeemReward(r.Context(), businessID, rewardID, req, r.Header.Get("Idempotency-Key"))
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}
