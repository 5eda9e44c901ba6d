package http

import (
	"net/http"

	"github.com/patronpoint/loyalty-service/internal/application"
)

func (h *Handler) issueCoupon(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := businessFromRequest(w, r)
	if !ok {
		return
	}
	var req application.IssueCouponRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.service.IssueCoupon(r.Context(), businessID, req, r.Header.Get("Idempotency-Key"))
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}

func (h *Handler) redeemCoupon(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := businessFromRequest(w, r)
	if !ok {
		return
	}
	var req application.RedeemCouponRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.service.RedeemCoupon(r.Context(), businessID, req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}
