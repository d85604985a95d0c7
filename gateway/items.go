package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/example/foodorders/pkg/models"
	"github.com/example/foodorders/pkg/repository"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type registerItemRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	Amount      int64           `json:"amount" binding:"required"`
	Price       decimal.Decimal `json:"price" binding:"required"`
}

type updateItemRequest struct {
	ID          int64           `json:"id" binding:"required"`
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	Amount      int64           `json:"amount" binding:"required"`
	Price       decimal.Decimal `json:"price" binding:"required"`
}

// itemView is a menu item with the category label resolved back from its code.
type itemView struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      int64           `json:"amount"`
	Price       decimal.Decimal `json:"price"`
}

func (g *Gateway) registerItem(c *gin.Context) {
	var req registerItemRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	categoryCode, err := g.menu.ResolveCategoryCode(ctx, req.Category)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "unknown item category: " + req.Category})
			return
		}
		g.logger.Error("Failed to resolve item category", zap.String("category", req.Category), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Database operation failed"})
		return
	}

	item := &models.MenuItem{
		Title:       req.Title,
		Description: req.Description,
		Category:    categoryCode,
		Amount:      req.Amount,
		Price:       req.Price,
	}
	if err := g.menu.InsertItem(ctx, item); err != nil {
		g.logger.Error("Failed to register menu item", zap.String("title", req.Title), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Database operation failed"})
		return
	}

	c.JSON(http.StatusCreated, itemView{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		Category:    req.Category,
		Amount:      item.Amount,
		Price:       item.Price,
	})
}

func (g *Gateway) updateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if _, err := g.menu.GetItemByID(ctx, req.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Item not found"})
			return
		}
		g.logger.Error("Failed to load menu item", zap.Int64("item_id", req.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Database operation failed"})
		return
	}

	categoryCode, err := g.menu.ResolveCategoryCode(ctx, req.Category)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "unknown item category: " + req.Category})
			return
		}
		g.logger.Error("Failed to resolve item category", zap.String("category", req.Category), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Database operation failed"})
		return
	}

	item := &models.MenuItem{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		Category:    categoryCode,
		Amount:      req.Amount,
		Price:       req.Price,
	}
	if err := g.menu.UpdateItem(ctx, item); err != nil {
		g.logger.Error("Failed to update menu item", zap.Int64("item_id", req.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Database operation failed"})
		return
	}

	c.JSON(http.StatusOK, itemView{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		Category:    req.Category,
		Amount:      item.Amount,
		Price:       item.Price,
	})
}

func (g *Gateway) deleteItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item id must be an integer"})
		return
	}

	ctx := c.Request.Context()
	item, err := g.menu.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Item not found"})
			return
		}
		g.logger.Error("Failed to load menu item", zap.Int64("item_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Database operation failed"})
		return
	}

	if err := g.menu.DeleteItem(ctx, id); err != nil {
		g.logger.Error("Failed to delete menu item", zap.Int64("item_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Database operation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": fmt.Sprintf("Item %s deleted", item.Title)})
}

func (g *Gateway) listItems(c *gin.Context) {
	category := c.Param("category")

	ctx := c.Request.Context()
	categoryCode, err := g.menu.ResolveCategoryCode(ctx, category)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "unknown item category: " + category})
			return
		}
		g.logger.Error("Failed to resolve item category", zap.String("category", category), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Database operation failed"})
		return
	}

	items, err := g.menu.ListItemsByCategory(ctx, categoryCode)
	if err != nil {
		g.logger.Error("Failed to list menu items", zap.String("category", category), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Database operation failed"})
		return
	}

	views := make([]itemView, len(items))
	for i, item := range items {
		views[i] = itemView{
			ID:          item.ID,
			Title:       item.Title,
			Description: item.Description,
			Category:    category,
			Amount:      item.Amount,
			Price:       item.Price,
		}
	}
	c.JSON(http.StatusOK, views)
}
