package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/sensationsbyarda-lgtm/Senteurs/internal/cart"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/catalog"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/checkout"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/order"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/validate"
)

// StorefrontHandler serves the customer-facing endpoints: browsing, the
// session cart and checkout.
type StorefrontHandler struct {
	catalog  *catalog.Service
	checkout *checkout.Service
	carts    *cart.Store
	logger   zerolog.Logger
}

func NewStorefrontHandler(cat *catalog.Service, chk *checkout.Service, carts *cart.Store, logger zerolog.Logger) *StorefrontHandler {
	return &StorefrontHandler{catalog: cat, checkout: chk, carts: carts, logger: logger}
}

func (h *StorefrontHandler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.listProducts)
	r.Get("/products/{productID}", h.getProduct)

	r.Get("/cart", h.getCart)
	r.Post("/cart/items", h.addCartItem)
	r.Put("/cart/items/{productID}", h.updateCartItem)
	r.Delete("/cart/items/{productID}", h.removeCartItem)
	r.Get("/cart/stock", h.validateCartStock)

	r.Post("/checkout", h.placeOrder)
}

func (h *StorefrontHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	category := catalog.Category(r.URL.Query().Get("category"))

	products, err := h.catalog.List(r.Context(), search, category)
	if err != nil {
		h.logger.Error().Err(err).Msg("list products failed")
		writeError(w, http.StatusInternalServerError, "impossible de charger les produits")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *StorefrontHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Get(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "produit introuvable")
			return
		}
		writeError(w, http.StatusInternalServerError, "impossible de charger le produit")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type cartResponse struct {
	Lines []cart.Line `json:"lines"`
	Total int64       `json:"total"`
	Count int         `json:"count"`
}

func cartToResponse(c *cart.Cart) cartResponse {
	return cartResponse{Lines: c.Lines(), Total: c.Total(), Count: c.Count()}
}

func (h *StorefrontHandler) sessionCart(r *http.Request) *cart.Cart {
	return h.carts.Get(sessionIDFrom(r.Context()))
}

func (h *StorefrontHandler) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, cartToResponse(h.sessionCart(r)))
}

type addCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *StorefrontHandler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corps de requête invalide")
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "productId est requis")
		return
	}

	p, err := h.catalog.Get(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "produit introuvable")
			return
		}
		writeError(w, http.StatusInternalServerError, "impossible de charger le produit")
		return
	}

	snap := cart.Snapshot{Name: p.Name, Price: p.Price, Stock: p.Stock}
	if len(p.Images) > 0 {
		snap.Image = p.Images[0].URL
	}

	c := h.sessionCart(r)
	if !c.Add(req.ProductID, snap, req.Quantity) {
		writeError(w, http.StatusConflict, "quantité demandée indisponible")
		return
	}
	writeJSON(w, http.StatusOK, cartToResponse(c))
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *StorefrontHandler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corps de requête invalide")
		return
	}

	c := h.sessionCart(r)
	if !c.SetQuantity(chi.URLParam(r, "productID"), req.Quantity) {
		writeError(w, http.StatusConflict, "quantité demandée indisponible")
		return
	}
	writeJSON(w, http.StatusOK, cartToResponse(c))
}

func (h *StorefrontHandler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	c := h.sessionCart(r)
	c.Remove(chi.URLParam(r, "productID"))
	writeJSON(w, http.StatusOK, cartToResponse(c))
}

// validateCartStock re-checks every cart line against live stock so the
// storefront can warn before the customer reaches checkout.
func (h *StorefrontHandler) validateCartStock(w http.ResponseWriter, r *http.Request) {
	availability, err := h.checkout.ValidateCartStock(r.Context(), h.sessionCart(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "vérification du stock impossible")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"availability": availability})
}

func (h *StorefrontHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var form checkout.ContactForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "corps de requête invalide")
		return
	}

	c := h.sessionCart(r)
	result, err := h.checkout.Checkout(r.Context(), c, form)
	if err != nil {
		var fieldErrs validate.FieldErrors
		var conflict *order.StockConflictError
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			writeError(w, http.StatusBadRequest, "le panier est vide")
		case errors.As(err, &fieldErrs):
			writeFieldErrors(w, fieldErrs)
		case errors.As(err, &conflict):
			writeJSON(w, http.StatusConflict, map[string]any{
				"error":     "stock insuffisant",
				"conflicts": conflict.Conflicts,
			})
		default:
			h.logger.Error().Err(err).Msg("checkout failed")
			writeError(w, http.StatusInternalServerError, "la commande n'a pas pu être créée")
		}
		return
	}

	ordersCreatedTotal.Inc()
	writeJSON(w, http.StatusCreated, result)
}
