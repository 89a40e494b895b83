package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pawpals/internal/domain"
)

type cartItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// cartTotalHeader carries the cart total next to the bare line array.
const cartTotalHeader = "X-Cart-Total"

func (a *api) getCart(c *gin.Context) {
	lines, err := a.deps.CartSvc.Get(c.Request.Context(), currentClient(c).ID)
	if err != nil {
		a.writeError(c, err)
		return
	}
	if lines == nil {
		lines = []domain.CartLine{}
	}
	c.Header(cartTotalHeader, domain.CartTotal(lines).StringFixed(2))
	c.JSON(http.StatusOK, lines)
}

func (a *api) addToCart(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	res, err := a.deps.CartSvc.AddItem(c.Request.Context(), currentClient(c).ID, req.ProductID, req.Quantity)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (a *api) updateCart(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	res, err := a.deps.CartSvc.UpdateQuantity(c.Request.Context(), currentClient(c).ID, req.ProductID, req.Quantity)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (a *api) removeFromCart(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.ProductID <= 0 {
		badRequest(c, "productId is required")
		return
	}
	if err := a.deps.CartSvc.RemoveItem(c.Request.Context(), currentClient(c).ID, req.ProductID); err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item removed"})
}

func (a *api) checkout(c *gin.Context) {
	order, err := a.deps.OrderSvc.PlaceOrder(c.Request.Context(), currentClient(c).ID)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orderId": order.ID, "total": order.Total.StringFixed(2), "order": order})
}

func (a *api) listOrders(c *gin.Context) {
	orders, err := a.deps.OrderSvc.List(c.Request.Context(), currentClient(c).ID)
	if err != nil {
		a.writeError(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

func (a *api) getOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := a.deps.OrderSvc.Get(c.Request.Context(), currentClient(c).ID, id)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
