package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/kumar-pranav/dojotrack-api/internal/dto"
	"github.com/kumar-pranav/dojotrack-api/internal/models"
	"github.com/kumar-pranav/dojotrack-api/internal/service"
	"github.com/kumar-pranav/dojotrack-api/internal/utils"
)

// SessionHandler exposes today's attendance session: the swipe queue,
// marking, undo and manual commit.
type SessionHandler struct {
	service service.SessionService
	logger  zerolog.Logger
}

// NewSessionHandler constructs the handler.
func NewSessionHandler(service service.SessionService, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		logger:  logger.With().Str("component", "session_handler").Logger(),
	}
}

// Register wires session routes.
func (h *SessionHandler) Register(router fiber.Router) {
	router.Get("", h.current)
	router.Post("/load", h.load)
	router.Post("/mark", h.mark)
	router.Post("/undo", h.undo)
	router.Post("/commit", h.commit)
}

func (h *SessionHandler) current(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "session retrieved", h.service.Snapshot())
}

func (h *SessionHandler) load(c *fiber.Ctx) error {
	snapshot := h.service.Load(c.Context())
	return utils.SendSuccess(c, "session loaded", snapshot)
}

func (h *SessionHandler) mark(c *fiber.Ctx) error {
	var payload dto.MarkRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	snapshot, err := h.service.Mark(c.Context(), payload.StudentID, models.AttendanceStatus(payload.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotLoaded):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrSessionFinalized):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrNotQueueHead):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrUnknownStatus):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			h.logger.Error().Err(err).Str("student_id", payload.StudentID).Msg("failed to mark attendance")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to mark attendance")
		}
	}

	return utils.SendSuccess(c, "attendance marked", snapshot)
}

func (h *SessionHandler) undo(c *fiber.Ctx) error {
	snapshot := h.service.Undo(c.Context())
	return utils.SendSuccess(c, "last mark undone", snapshot)
}

func (h *SessionHandler) commit(c *fiber.Ctx) error {
	if err := h.service.Commit(c.Context()); err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotLoaded), errors.Is(err, service.ErrSessionFinalized):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		default:
			h.logger.Error().Err(err).Msg("failed to commit session")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to commit session")
		}
	}

	return utils.SendSuccess(c, "session committed", h.service.Snapshot())
}
