package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/centinela/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/centinela/internal/domain"
	"github.com/saturnino-fabrica-de-software/centinela/internal/provider"
	"github.com/saturnino-fabrica-de-software/centinela/internal/repository"
)

// CatalogReloader swaps the in-memory watchlist snapshot.
type CatalogReloader interface {
	ReloadCatalog(ctx context.Context, operator string) (int, error)
}

// WatchlistHandler manages the identity watchlist behind the matcher.
type WatchlistHandler struct {
	repo     repository.WatchlistRepositoryInterface
	embedder provider.EmbeddingProvider
	reloader CatalogReloader
	logger   *slog.Logger
}

func NewWatchlistHandler(repo repository.WatchlistRepositoryInterface, embedder provider.EmbeddingProvider, reloader CatalogReloader, logger *slog.Logger) *WatchlistHandler {
	return &WatchlistHandler{
		repo:     repo,
		embedder: embedder,
		reloader: reloader,
		logger:   logger,
	}
}

// RegisterResponse confirms a watchlist registration.
type RegisterResponse struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	CatalogSize int    `json:"catalog_size"`
}

// Register POST /v1/watchlist - register an identity from a reference
// image. The catalog reloads immediately so the next frame sees it.
func (h *WatchlistHandler) Register(c *fiber.Ctx) error {
	operator, err := middleware.GetOperator(c)
	if err != nil {
		return err
	}

	label := strings.TrimSpace(c.FormValue("label"))
	if label == "" {
		return domain.ErrValidationFailed.WithError(errors.New("label is required"))
	}

	imageBytes, err := extractAndValidateImage(c)
	if err != nil {
		return fmt.Errorf("register identity: %w", err)
	}

	embedding, err := h.embedder.Embed(c.Context(), imageBytes)
	if err != nil {
		return err
	}

	identity := &repository.WatchlistIdentity{
		Label:     label,
		Embedding: embedding,
		Enabled:   true,
	}
	if err := h.repo.AddIdentity(c.Context(), identity); err != nil {
		return err
	}

	size, err := h.reloader.ReloadCatalog(c.Context(), operator)
	if err != nil {
		h.logger.Warn("catalog reload after registration failed",
			"label", label,
			"error", err,
		)
	}

	h.logger.Info("identidade registrada na watchlist",
		"id", identity.ID,
		"label", label,
		"operator", operator,
	)

	return c.Status(fiber.StatusCreated).JSON(RegisterResponse{
		ID:          identity.ID.String(),
		Label:       identity.Label,
		CatalogSize: size,
	})
}

// Remove DELETE /v1/watchlist/:id
func (h *WatchlistHandler) Remove(c *fiber.Ctx) error {
	operator, err := middleware.GetOperator(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.ErrValidationFailed.WithError(errors.New("invalid identity id"))
	}

	if err := h.repo.RemoveIdentity(c.Context(), id); err != nil {
		return err
	}

	if _, err := h.reloader.ReloadCatalog(c.Context(), operator); err != nil {
		h.logger.Warn("catalog reload after removal failed", "id", id, "error", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Reload POST /v1/watchlist/reload - force a catalog refresh
func (h *WatchlistHandler) Reload(c *fiber.Ctx) error {
	operator, err := middleware.GetOperator(c)
	if err != nil {
		return err
	}

	size, err := h.reloader.ReloadCatalog(c.Context(), operator)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"identities": size})
}
