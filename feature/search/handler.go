package search

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"vinyl-scout/core/catalog"
	"vinyl-scout/core/logger"
	"vinyl-scout/core/match"
)

// Handler exposes catalog lookup and sleeve matching over HTTP.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the search routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/search", h.HandleSearch)
	app.Post("/match", h.HandleMatch)

	releases := app.Group("/releases")
	releases.Get("/:releaseId", h.HandleRelease)
	releases.Get("/:releaseId/prices", h.HandlePrices)
}

// HandleSearch runs a free-text catalog search.
func (h *Handler) HandleSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing query parameter q"})
	}

	results, err := h.service.Search(c.Context(), query)
	if err != nil {
		return h.remoteError(c, err, "Catalog search failed")
	}

	return c.JSON(results)
}

// matchRequest is the extracted sleeve metadata posted by the capture flow.
type matchRequest struct {
	Artist        string `json:"artist"`
	Album         string `json:"album"`
	Label         string `json:"label"`
	CatalogNumber string `json:"catalog_number"`
	Year          string `json:"year"`
}

// HandleMatch ranks catalog candidates against extracted sleeve fields.
func (h *Handler) HandleMatch(c *fiber.Ctx) error {
	var req matchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid match payload"})
	}

	results, err := h.service.Match(c.Context(), match.Fields{
		Artist:        req.Artist,
		Album:         req.Album,
		Label:         req.Label,
		CatalogNumber: req.CatalogNumber,
		Year:          req.Year,
	})
	if err != nil {
		if errors.Is(err, catalog.ErrRateLimited) || errors.Is(err, catalog.ErrNetworkUnavailable) ||
			errors.Is(err, catalog.ErrUnauthorized) || errors.Is(err, catalog.ErrMalformedResponse) {
			return h.remoteError(c, err, "Sleeve match failed")
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"results": results})
}

// HandleRelease returns the full metadata of one release.
func (h *Handler) HandleRelease(c *fiber.Ctx) error {
	releaseID, err := strconv.ParseInt(c.Params("releaseId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid release id"})
	}

	release, err := h.service.Release(c.Context(), releaseID)
	if err != nil {
		return h.remoteError(c, err, "Release lookup failed")
	}

	return c.JSON(release)
}

// HandlePrices returns the suggested marketplace prices of one release.
func (h *Handler) HandlePrices(c *fiber.Ctx) error {
	releaseID, err := strconv.ParseInt(c.Params("releaseId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid release id"})
	}

	prices, err := h.service.Prices(c.Context(), releaseID)
	if err != nil {
		return h.remoteError(c, err, "Price lookup failed")
	}

	return c.JSON(prices)
}

// remoteError translates the catalog error taxonomy into HTTP statuses.
func (h *Handler) remoteError(c *fiber.Ctx, err error, msg string) error {
	l := logger.WithRayID(h.logger, c)
	l.Error(msg, zap.Error(err))

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, catalog.ErrUnauthorized):
		status = fiber.StatusUnauthorized
	case errors.Is(err, catalog.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, catalog.ErrRateLimited):
		status = fiber.StatusTooManyRequests
	case errors.Is(err, catalog.ErrNetworkUnavailable):
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
