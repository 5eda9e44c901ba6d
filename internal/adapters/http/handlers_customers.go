package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/patronpoint/loyalty-service/internal/application"
)

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := businessFromRequest(w, r)
	if !ok {
		return
	}
	var req application.CreateCustomerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.service.CreateCustomer(r.Context(), businessID, req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := businessFromRequest(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	resp, err := h.service.ListCustomers(r.Context(), businessID, limit, offset)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"customers": resp,
		"pagination": map[string]any{
			"limit":  limit,
			"offset": offset,
		},
	})
}

// findCustomerByPhone always answers 200: a missed lookup is data, not an
// error, from the till operator's point of view.
func (h *Handler) findCustomerByPhone(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := businessFromRequest(w, r)
	if !ok {
		return
	}
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "phone query param is required")
		return
	}
	resp, err := h.service.FindCustomerByPhone(r.Context(), businessID, phone)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"customer": resp,
		"found":    resp != nil,
	})
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := businessFromRequest(w, r)
	if !ok {
		return
	}
	customerID, err := uuid.Parse(chi.URLParam(r, "customer_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid customer_id")
		return
	}
	resp, err := h.service.GetCustomer(r.Context(), businessID, customerID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := businessFromRequest(w, r)
	if !ok {
		return
	}
	customerID, err := uuid.Parse(chi.URLParam(r, "customer_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid customer_id")
		return
	}
	var req application.UpdateCustomerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.service.UpdateCustomer(r.Context(), businessID, customerID, req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) linkCustomer(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := businessFromRequest(w, r)
	if !ok {
		return
	}
	customerID, err := uuid.Parse(chi.URLParam(r, "customer_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid customer_id")
		return
	}
	var req application.LinkCustomerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid user_id")
		return
	}
	resp, err := h.service.LinkCustomerAccount(r.Context(), businessID, customerID, userID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) getCustomerProgress(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := businessFromRequest(w, r)
	if !ok {
		return
	}
	customerID, err := uuid.Parse(chi.URLParam(r, "customer_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid customer_id")
		return
	}
	resp, err := h.service.GetCustomerProgress(r.Context(), businessID, customerID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) listCustomerCoupons(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := businessFromRequest(w, r)
	if !ok {
		return
	}
	customerID, err := uuid.Parse(chi.URLParam(r, "customer_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid customer_id")
		return
	}
	resp, err := h.service.ListCustomerCoupons(r.Context(), businessID, customerID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"coupons": resp})
}
