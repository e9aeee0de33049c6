package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/sensationsbyarda-lgtm/Senteurs/internal/analytics"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/auth"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/catalog"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/customer"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/order"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/validate"
)

// AdminHandler serves the back-office: authentication, catalog management,
// order handling, the analytics dashboard and CSV exports.
type AdminHandler struct {
	auth      *auth.Service
	catalog   *catalog.Service
	orders    *order.Service
	customers customer.Repository
	analytics *analytics.Service
	logger    zerolog.Logger
}

func NewAdminHandler(
	authSvc *auth.Service,
	cat *catalog.Service,
	orders *order.Service,
	customers customer.Repository,
	stats *analytics.Service,
	logger zerolog.Logger,
) *AdminHandler {
	return &AdminHandler{
		auth:      authSvc,
		catalog:   cat,
		orders:    orders,
		customers: customers,
		analytics: stats,
		logger:    logger,
	}
}

// RegisterRoutes mounts the admin API. Everything except login sits behind the
// token guard.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.login)

	r.Group(func(r chi.Router) {
		r.Use(adminGuard(h.auth))

		r.Get("/dashboard", h.dashboard)

		r.Get("/orders", h.listOrders)
		r.Get("/orders/{orderID}", h.getOrder)
		r.Post("/orders/{orderID}/viewed", h.markOrderViewed)
		r.Put("/orders/{orderID}/status", h.setOrderStatus)

		r.Post("/products", h.createProduct)
		r.Put("/products/{productID}", h.updateProduct)
		r.Delete("/products/{productID}", h.deleteProduct)
		r.Post("/products/{productID}/stock", h.adjustStock)
		r.Post("/products/{productID}/images", h.addProductImage)
		r.Delete("/images/{imageID}", h.removeProductImage)

		r.Get("/customers", h.listCustomers)

		r.Get("/analytics/sales", h.salesEvolution)
		r.Get("/analytics/comparison", h.periodComparison)
		r.Get("/analytics/top-products", h.topProducts)
		r.Get("/analytics/stock-alerts", h.stockAlerts)
		r.Get("/analytics/orders-by-status", h.ordersByStatus)
		r.Get("/analytics/activity", h.recentActivity)

		r.Get("/exports/orders.csv", h.exportOrders)
		r.Get("/exports/products.csv", h.exportProducts)
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AdminHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corps de requête invalide")
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "email ou mot de passe incorrect")
			return
		}
		h.logger.Error().Err(err).Msg("admin login failed")
		writeError(w, http.StatusInternalServerError, "connexion impossible")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *AdminHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.analytics.DashboardMetrics(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("dashboard metrics failed")
		writeError(w, http.StatusInternalServerError, "chargement du tableau de bord impossible")
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

// listOrders supports ?status=, ?unviewed=true and ?days= filters. Filters are
// mutually exclusive; status wins over unviewed, unviewed over days.
func (h *AdminHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		orders []order.Order
		err    error
	)
	switch {
	case q.Get("status") != "":
		status := order.Status(q.Get("status"))
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, "statut inconnu")
			return
		}
		orders, err = h.orders.ListByStatus(ctx, status)
	case q.Get("unviewed") == "true":
		orders, err = h.orders.ListUnviewed(ctx)
	case q.Get("days") != "":
		days := queryInt(r, "days", 30)
		orders, err = h.orders.ListInWindow(ctx, days)
	default:
		orders, err = h.orders.ListAll(ctx)
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("list orders failed")
		writeError(w, http.StatusInternalServerError, "chargement des commandes impossible")
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

type orderDetailResponse struct {
	Order    *order.Order       `json:"order"`
	Customer *customer.Customer `json:"customer,omitempty"`
}

func (h *AdminHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "commande introuvable")
			return
		}
		writeError(w, http.StatusInternalServerError, "chargement de la commande impossible")
		return
	}

	resp := orderDetailResponse{Order: o}
	if cust, err := h.customers.GetByID(r.Context(), o.CustomerID); err == nil {
		resp.Customer = cust
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) markOrderViewed(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.MarkViewed(r.Context(), chi.URLParam(r, "orderID")); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "commande introuvable")
			return
		}
		writeError(w, http.StatusInternalServerError, "mise à jour impossible")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setStatusRequest struct {
	Status order.Status `json:"status"`
}

func (h *AdminHandler) setOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corps de requête invalide")
		return
	}

	orderID := chi.URLParam(r, "orderID")
	err := h.orders.SetStatus(r.Context(), orderID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrNotFound):
			writeError(w, http.StatusNotFound, "commande introuvable")
		case errors.Is(err, order.ErrInvalidTransition):
			writeError(w, http.StatusConflict, "transition de statut non autorisée")
		default:
			writeError(w, http.StatusInternalServerError, "mise à jour impossible")
		}
		return
	}

	h.logger.Info().
		Str("order_id", orderID).
		Str("admin_id", adminIDFrom(r.Context())).
		Str("status", req.Status.String()).
		Msg("order status changed by admin")
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var form catalog.ProductForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "corps de requête invalide")
		return
	}

	p, err := h.catalog.Create(r.Context(), form)
	if err != nil {
		var fieldErrs validate.FieldErrors
		if errors.As(err, &fieldErrs) {
			writeFieldErrors(w, fieldErrs)
			return
		}
		writeError(w, http.StatusInternalServerError, "création du produit impossible")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *AdminHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var form catalog.ProductForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "corps de requête invalide")
		return
	}

	p, err := h.catalog.Update(r.Context(), chi.URLParam(r, "productID"), form)
	if err != nil {
		var fieldErrs validate.FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			writeFieldErrors(w, fieldErrs)
		case errors.Is(err, catalog.ErrNotFound):
			writeError(w, http.StatusNotFound, "produit introuvable")
		default:
			writeError(w, http.StatusInternalServerError, "mise à jour du produit impossible")
		}
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *AdminHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), chi.URLParam(r, "productID")); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "produit introuvable")
			return
		}
		writeError(w, http.StatusInternalServerError, "suppression du produit impossible")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type adjustStockRequest struct {
	Delta int `json:"delta"`
}

func (h *AdminHandler) adjustStock(w http.ResponseWriter, r *http.Request) {
	var req adjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corps de requête invalide")
		return
	}

	err := h.catalog.AdjustStock(r.Context(), chi.URLParam(r, "productID"), req.Delta)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			writeError(w, http.StatusNotFound, "produit introuvable")
		case errors.Is(err, catalog.ErrInsufficientStock):
			writeError(w, http.StatusConflict, "le stock ne peut pas devenir négatif")
		default:
			writeError(w, http.StatusInternalServerError, "ajustement du stock impossible")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addImageRequest struct {
	URL string `json:"url"`
}

func (h *AdminHandler) addProductImage(w http.ResponseWriter, r *http.Request) {
	var req addImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corps de requête invalide")
		return
	}

	img, err := h.catalog.AddImage(r.Context(), chi.URLParam(r, "productID"), req.URL)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "produit introuvable")
			return
		}
		writeError(w, http.StatusBadRequest, "ajout de l'image impossible")
		return
	}
	writeJSON(w, http.StatusCreated, img)
}

func (h *AdminHandler) removeProductImage(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.RemoveImage(r.Context(), chi.URLParam(r, "imageID")); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "image introuvable")
			return
		}
		writeError(w, http.StatusInternalServerError, "suppression de l'image impossible")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "chargement des clients impossible")
		return
	}
	if customers == nil {
		customers = []customer.Customer{}
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *AdminHandler) salesEvolution(w http.ResponseWriter, r *http.Request) {
	points, err := h.analytics.SalesEvolution(r.Context(), queryInt(r, "days", 30))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "calcul des ventes impossible")
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *AdminHandler) periodComparison(w http.ResponseWriter, r *http.Request) {
	cmp, err := h.analytics.PeriodComparison(r.Context(), queryInt(r, "days", 30))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "comparaison des périodes impossible")
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

func (h *AdminHandler) topProducts(w http.ResponseWriter, r *http.Request) {
	top, err := h.analytics.TopProducts(r.Context(), queryInt(r, "limit", 5), queryInt(r, "days", 30))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "calcul du classement impossible")
		return
	}
	writeJSON(w, http.StatusOK, top)
}

func (h *AdminHandler) stockAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.analytics.StockAlerts(r.Context(), queryInt(r, "threshold", 5))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "chargement des alertes stock impossible")
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (h *AdminHandler) ordersByStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := h.analytics.OrdersByStatus(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "calcul des statuts impossible")
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (h *AdminHandler) recentActivity(w http.ResponseWriter, r *http.Request) {
	activity, err := h.analytics.RecentActivity(r.Context(), queryInt(r, "limit", 10))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "chargement de l'activité impossible")
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

func (h *AdminHandler) exportOrders(w http.ResponseWriter, r *http.Request) {
	data, err := h.analytics.OrdersCSV(r.Context(), queryInt(r, "days", 30))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "export impossible")
		return
	}
	writeCSV(w, "commandes.csv", data)
}

func (h *AdminHandler) exportProducts(w http.ResponseWriter, r *http.Request) {
	data, err := h.analytics.ProductsCSV(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "export impossible")
		return
	}
	writeCSV(w, "produits.csv", data)
}

func writeCSV(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
