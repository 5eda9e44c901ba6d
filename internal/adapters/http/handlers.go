package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/patronpoint/loyalty-service/internal/application"
	"github.com/patronpoint/loyalty-service/internal/ports"
)

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := bearerTokenFromHeader(r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
			return
		}
		claims, err := h.verifier.ParseAndValidate(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyClaims, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// businessFromRequest pulls the business scope off the token. Staff and
// owner tokens carry business_id; plain customer tokens do not.
func businessFromRequest(w http.ResponseWriter, r *http.Request) (ports.AuthClaims, uuid.UUID, bool) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return ports.AuthClaims{}, uuid.Nil, false
	}
	if claims.BusinessID == uuid.Nil {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "business account required")
		return ports.AuthClaims{}, uuid.Nil, false
	}
	return claims, claims.BusinessID, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json body")
		return false
	}
	return true
}

func (h *Handler) registerBusiness(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	var req application.RegisterBusinessRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.service.RegisterBusiness(r.Context(), claims.UserID, req)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, resp)
}

func (h *Handler) getMyBusiness(w http.ResponseWriter, r *http.Request) {
	_, businessID, ok := businessFromRequest(w, r)
	if !ok {
		return
	}
	resp, err := h.service.GetBusiness(r.Context(), businessID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (h *Handler) listMyPrograms(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	resp, err := h.service.ListMyPrograms(r.Context(), claims.UserID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"programs": resp})
}
