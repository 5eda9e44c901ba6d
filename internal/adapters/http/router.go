package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/patronpoint/loyalty-service/internal/application"
	"github.com/patronpoint/loyalty-service/internal/ports"
)

type Handler struct {
	service  *application.Service
	verifier ports.TokenVerifier
}

func NewHandler(service *application.Service, verifier ports.TokenVerifier) *Handler {
	return &Handler{service: service, verifier: verifier}
}

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ok") })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ready") })

	r.Route("/v1", func(r chi.Router) {
		r.Get("/billing/plans", handler.listPlans)

		r.Group(func(r chi.Router) {
			r.Use(handler.authMiddleware)

			r.Post("/businesses", handler.registerBusiness)
			r.Get("/businesses/me", handler.getMyBusiness)

			r.Route("/customers", func(r chi.Router) {
				r.Post("/", handler.createCustomer)
				r.Get("/", handler.listCustomers)
				r.Get("/search", handler.findCustomerByPhone)
				r.Get("/{customer_id}", handler.getCustomer)
				r.Put("/{customer_id}", handler.updateCustomer)
				r.Post("/{customer_id}/link", handler.linkCustomer)
				r.Get("/{customer_id}/progress", handler.getCustomerProgress)
				r.Get("/{customer_id}/coupons", handler.listCustomerCoupons)
			})

			r.Route("/program", func(r chi.Router) {
				r.Put("/", handler.upsertProgram)
				r.Get("/", handler.getProgram)
				r.Post("/rewards", handler.addReward)
				r.Put("/rewards/{reward_id}", handler.updateReward)
				r.Post("/rewards/{reward_id}/redeem", handler.redeemReward)
			})

			r.Route("/visits", func(r chi.Router) {
				r.Post("/", handler.recordVisit)
				r.Post("/token", handler.issueVisitToken)
				r.Post("/redeem", handler.redeemVisitToken)
			})

			r.Route("/coupons", func(r chi.Router) {
				r.Post("/", handler.issueCoupon)
				r.Post("/redeem", handler.redeemCoupon)
			})

			r.Route("/templates", func(r chi.Router) {
				r.Post("/", handler.createTemplate)
				r.Get("/", handler.listTemplates)
				r.Put("/{template_id}", handler.updateTemplate)
				r.Delete("/{template_id}", handler.deleteTemplate)
				r.Post("/{template_id}/render", handler.renderTemplate)
			})

			r.Route("/billing", func(r chi.Router) {
				r.Post("/subscription", handler.subscribe)
				r.Get("/subscription", handler.getSubscription)
				r.Delete("/subscription", handler.cancelSubscription)
			})

			r.Get("/me/programs", handler.listMyPrograms)
		})
	})
	return r
}
