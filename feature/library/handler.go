package library

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"vinyl-scout/core/catalog"
	"vinyl-scout/core/logger"
)

// Handler exposes the locally persisted library state to the UI layer.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the library routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/library")
	group.Get("/state", h.HandleState)
	group.Get("/status/:releaseId", h.HandleStatus)
	group.Get("/:list", h.HandleList)
	group.Post("/:list/refresh", h.HandleRefresh)
	group.Post("/:list/releases/:releaseId", h.HandleAdd)
	group.Delete("/:list/releases/:releaseId", h.HandleRemove)
}

// HandleList returns the persisted entries of one list.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	list := ListType(c.Params("list"))
	if !list.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown list type"})
	}

	entries, err := h.service.Entries(list)
	if err != nil {
		l := logger.WithRayID(h.logger, c)
		l.Error("Listing library entries failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"list": list, "entries": entries})
}

// HandleState returns both lists' sync states for progress banners.
func (h *Handler) HandleState(c *fiber.Ctx) error {
	return c.JSON(h.service.States())
}

// HandleRefresh starts an incremental refresh of one list. It responds 202
// as soon as the first page is ingested; the tail continues in background.
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	list := ListType(c.Params("list"))
	syncer, err := h.service.Syncer(list)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	l := logger.WithRayID(h.logger, c)

	// Detached: the refresh must outlive this request.
	firstPage, done, err := syncer.RefreshIncremental(context.WithoutCancel(c.Context()))
	if errors.Is(err, ErrRefreshInProgress) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Starting refresh failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	go func() {
		if err := <-done; err != nil {
			l.Warn("Background refresh failed", zap.String("list", string(list)), zap.Error(err))
		}
	}()

	<-firstPage
	return c.Status(fiber.StatusAccepted).JSON(syncer.State())
}

// HandleStatus returns the membership status of one release.
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	releaseID, err := strconv.ParseInt(c.Params("releaseId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid release id"})
	}

	status, err := h.service.Status(c.Context(), releaseID)
	if err != nil {
		return h.remoteError(c, err, "Status check failed")
	}

	return c.JSON(status)
}

// HandleAdd optimistically adds a release to one list. The body may carry
// display metadata (title, artist, ...) for the local record.
func (h *Handler) HandleAdd(c *fiber.Ctx) error {
	list := ListType(c.Params("list"))
	if !list.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown list type"})
	}

	releaseID, err := strconv.ParseInt(c.Params("releaseId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid release id"})
	}

	var entry Entry
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&entry); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid entry payload"})
		}
	}
	entry.ReleaseID = releaseID

	if err := h.service.Add(c.Context(), list, entry); err != nil {
		return h.remoteError(c, err, "Add failed")
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"release_id": releaseID, "list": list})
}

// HandleRemove optimistically removes a release from one list.
func (h *Handler) HandleRemove(c *fiber.Ctx) error {
	list := ListType(c.Params("list"))
	if !list.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown list type"})
	}

	releaseID, err := strconv.ParseInt(c.Params("releaseId"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid release id"})
	}

	if err := h.service.Remove(c.Context(), list, releaseID); err != nil {
		return h.remoteError(c, err, "Remove failed")
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"release_id": releaseID, "list": list})
}

// remoteError translates the catalog error taxonomy into HTTP statuses.
// Transient conditions get statuses the UI treats as retryable.
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
