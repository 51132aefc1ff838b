package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"temo/internal/cart"
	"temo/internal/domain"
	"temo/internal/service/checkout"
)

type cartResponse struct {
	CartID string `json:"cartId"`
	cart.Snapshot
}

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Kind      string `json:"kind" binding:"required"`
}

type updateItemRequest struct {
	Quantity int    `json:"quantity"`
	Kind     string `json:"kind"`
}

func (h *handlers) openCart(c *gin.Context) {
	id, store := h.deps.Carts.Open()
	c.JSON(http.StatusCreated, newCartResponse(id, store))
}

func (h *handlers) getCart(c *gin.Context) {
	id, store, ok := h.cartParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newCartResponse(id, store))
}

// addCartItem prices the line from the catalogue, never from the client.
func (h *handlers) addCartItem(c *gin.Context) {
	id, store, ok := h.cartParam(c)
	if !ok {
		return
	}
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	kind, ok := domain.ParseKind(req.Kind)
	if !ok {
		badRequest(c, "unknown kind "+req.Kind)
		return
	}
	item, err := h.deps.Catalog.CartItem(c.Request.Context(), kind, req.ProductID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	store.AddItem(item, kind)
	c.JSON(http.StatusOK, newCartResponse(id, store))
}

// updateCartItem sets an exact quantity. Without a kind every line for the
// product id is updated.
func (h *handlers) updateCartItem(c *gin.Context) {
	id, store, ok := h.cartParam(c)
	if !ok {
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	productID := c.Param("productId")
	if req.Kind == "" {
		store.UpdateQuantity(productID, req.Quantity)
	} else {
		kind, ok := domain.ParseKind(req.Kind)
		if !ok {
			badRequest(c, "unknown kind "+req.Kind)
			return
		}
		store.UpdateLineQuantity(productID, kind, req.Quantity)
	}
	c.JSON(http.StatusOK, newCartResponse(id, store))
}

func (h *handlers) removeCartItem(c *gin.Context) {
	id, store, ok := h.cartParam(c)
	if !ok {
		return
	}
	productID := c.Param("productId")
	if raw := c.Query("kind"); raw != "" {
		kind, ok := domain.ParseKind(raw)
		if !ok {
			badRequest(c, "unknown kind "+raw)
			return
		}
		store.RemoveLine(productID, kind)
	} else {
		store.RemoveItem(productID)
	}
	c.JSON(http.StatusOK, newCartResponse(id, store))
}

func (h *handlers) clearCart(c *gin.Context) {
	id, store, ok := h.cartParam(c)
	if !ok {
		return
	}
	store.Clear()
	c.JSON(http.StatusOK, newCartResponse(id, store))
}

func (h *handlers) checkout(c *gin.Context) {
	_, store, ok := h.cartParam(c)
	if !ok {
		return
	}
	var in checkout.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	order, err := h.deps.Checkout.Submit(c.Request.Context(), store, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *handlers) cartParam(c *gin.Context) (string, *cart.Store, bool) {
	id := c.Param("cartId")
	store, ok := h.deps.Carts.Get(id)
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "cart not found"})
		return "", nil, false
	}
	return id, store, true
}

func newCartResponse(id string, store *cart.Store) cartResponse {
	snap := store.Snapshot()
	if snap.Lines == nil {
		snap.Lines = []cart.Line{}
	}
	return cartResponse{CartID: id, Snapshot: snap}
}
