package gateway

import (
	"net/http"

	"github.com/example/foodorders/pkg/models"
	"github.com/example/foodorders/pkg/order"
	"github.com/gin-gonic/gin"
)

type checkoutRequest struct {
	CustomerID *int64           `json:"customer_id"`
	Items      []order.LineItem `json:"items"`
}

type createRequest struct {
	ExternalID string `json:"external_id" binding:"required"`
}

type updateRequest struct {
	ExternalID string `json:"external_id" binding:"required"`
	Status     string `json:"status" binding:"required"`
}

func (g *Gateway) checkoutOrder(c *gin.Context) {
	var req checkoutRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, err := g.orders.Checkout(c.Request.Context(), req.CustomerID, req.Items)
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quote)
}

func (g *Gateway) createOrder(c *gin.Context) {
	var req createRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := g.orders.Create(c.Request.Context(), req.ExternalID)
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (g *Gateway) updateOrder(c *gin.Context) {
	var req updateRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidStatusLabel(req.Status) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "unknown order status: " + req.Status})
		return
	}

	update, err := g.orders.UpdateStatus(c.Request.Context(), req.ExternalID, req.Status)
	if err != nil {
		g.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, update)
}
