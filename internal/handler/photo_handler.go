package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/kumar-pranav/dojotrack-api/internal/service"
	"github.com/kumar-pranav/dojotrack-api/internal/utils"
)

// PhotoHandler handles instructor profile photo uploads.
type PhotoHandler struct {
	service service.PhotoService
	logger  zerolog.Logger
}

// NewPhotoHandler constructs the handler.
func NewPhotoHandler(service service.PhotoService, logger zerolog.Logger) *PhotoHandler {
	return &PhotoHandler{
		service: service,
		logger:  logger.With().Str("component", "photo_handler").Logger(),
	}
}

// Register wires photo routes.
func (h *PhotoHandler) Register(router fiber.Router) {
	router.Get("", h.latest)
	router.Post("", h.upload)
}

func (h *PhotoHandler) latest(c *fiber.Ctx) error {
	photo, err := h.service.Latest(c.Context(), instructorFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrPhotoNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		h.logger.Error().Err(err).Msg("failed to fetch photo")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch photo")
	}

	return utils.SendSuccess(c, "photo retrieved", photo)
}

func (h *PhotoHandler) upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	photo, err := h.service.Upload(c.Context(), instructorFromContext(c), file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPhotoTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, service.ErrPhotoTypeNotAllowed):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			h.logger.Error().Err(err).Msg("photo upload failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "photo upload failed")
		}
	}

	return utils.SendSuccess(c, "photo uploaded", photo)
}
