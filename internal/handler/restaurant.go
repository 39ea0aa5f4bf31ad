package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-auth/internal/model"
	"github.com/iliyamo/restaurant-auth/internal/repository"
)

// RestaurantHandler implements restaurant (tenant) management. Writes
// are admin-only; reads are public and sit behind the response cache.
type RestaurantHandler struct {
	Restaurants *repository.RestaurantRepo
}

func NewRestaurantHandler(restaurants *repository.RestaurantRepo) *RestaurantHandler {
	return &RestaurantHandler{Restaurants: restaurants}
}

type restaurantReq struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type restaurantPart struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toRestaurantPart(t model.Restaurant) restaurantPart {
	return restaurantPart{ID: t.ID, Name: t.Name, Address: t.Address, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt}
}

func (r restaurantReq) validate() string {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Address) == "" {
		return "name and address are required"
	}
	if len(r.Name) > 100 {
		return "name must be at most 100 characters"
	}
	if len(r.Address) > 255 {
		return "address must be at most 255 characters"
	}
	return ""
}

// Create registers a new restaurant.
func (h *RestaurantHandler) Create(c echo.Context) error {
	var req restaurantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Restaurants.Create(ctx, strings.TrimSpace(req.Name), strings.TrimSpace(req.Address))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create restaurant failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// List returns a page of restaurants matching an optional search term.
func (h *RestaurantHandler) List(c echo.Context) error {
	page := atoiDefault(c.QueryParam("page"), 1)
	items := atoiDefault(c.QueryParam("items"), 10)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, total, err := h.Restaurants.List(ctx, c.QueryParam("q"), page, items)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	data := make([]restaurantPart, 0, len(list))
	for _, t := range list {
		data = append(data, toRestaurantPart(t))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data":  data,
		"total": total,
		"page":  page,
		"items": items,
	})
}

// Get returns a single restaurant by id.
func (h *RestaurantHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Restaurants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toRestaurantPart(t))
}

// Update rewrites name and address.
func (h *RestaurantHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req restaurantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Restaurants.Update(ctx, id, strings.TrimSpace(req.Name), strings.TrimSpace(req.Address)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update restaurant failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id})
}

// Delete removes a restaurant.
func (h *RestaurantHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Restaurants.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete restaurant failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id})
}
