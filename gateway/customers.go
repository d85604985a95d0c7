package gateway

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/example/foodorders/pkg/models"
	"github.com/example/foodorders/pkg/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type registerCustomerRequest struct {
	CPF       string `json:"cpf" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required"`
}

type identifyCustomerRequest struct {
	CPF string `json:"cpf" binding:"required"`
}

func (g *Gateway) registerCustomer(c *gin.Context) {
	var req registerCustomerRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer := &models.Customer{
		CPF:       req.CPF,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	if err := g.customers.RegisterCustomer(c.Request.Context(), customer); err != nil {
		g.logger.Error("Failed to register customer", zap.String("cpf", req.CPF), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Database operation failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"detail": fmt.Sprintf("Customer %s registered", customer.CPF)})
}

func (g *Gateway) identifyCustomer(c *gin.Context) {
	var req identifyCustomerRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if cached, err := g.cache.GetCustomerCache(ctx, req.CPF); err == nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	customer, err := g.customers.GetCustomerByCPF(ctx, req.CPF)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Customer not registered"})
			return
		}
		g.logger.Error("Failed to identify customer", zap.String("cpf", req.CPF), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Database operation failed"})
		return
	}

	if err := g.cache.CacheCustomer(ctx, customer); err != nil {
		g.logger.Warn("Failed to cache customer", zap.String("cpf", req.CPF), zap.Error(err))
	}

	c.JSON(http.StatusOK, customer)
}
