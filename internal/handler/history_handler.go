package handler

import (
	"errors"
	"regexp"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/kumar-pranav/dojotrack-api/internal/dto"
	"github.com/kumar-pranav/dojotrack-api/internal/models"
	"github.com/kumar-pranav/dojotrack-api/internal/service"
	"github.com/kumar-pranav/dojotrack-api/internal/utils"
)

var (
	dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	monthPattern   = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

// HistoryHandler exposes the attendance calendar: past logs, day details,
// finalization and post-hoc edits.
type HistoryHandler struct {
	service service.HistoryService
	logger  zerolog.Logger
}

// NewHistoryHandler constructs the handler.
func NewHistoryHandler(service service.HistoryService, logger zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{
		service: service,
		logger:  logger.With().Str("component", "history_handler").Logger(),
	}
}

// Register wires history routes.
func (h *HistoryHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/month/:prefix", h.month)
	router.Get("/:dateKey", h.day)
	router.Post("/:dateKey/finalize", h.finalize)
	router.Put("/:dateKey/focus", h.updateFocus)
	router.Put("/:dateKey/status", h.overrideStatus)
}

func (h *HistoryHandler) list(c *fiber.Ctx) error {
	logs, err := h.service.ListAll(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list logs")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list logs")
	}

	return utils.SendSuccess(c, "logs retrieved", logs)
}

func (h *HistoryHandler) month(c *fiber.Ctx) error {
	prefix := c.Params("prefix")
	if !monthPattern.MatchString(prefix) {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid month, expected YYYY-MM")
	}

	logs, err := h.service.ListMonth(c.Context(), prefix)
	if err != nil {
		h.logger.Error().Err(err).Str("month", prefix).Msg("failed to list month")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list month")
	}

	return utils.SendSuccess(c, "month retrieved", logs)
}

func (h *HistoryHandler) day(c *fiber.Ctx) error {
	dateKey := c.Params("dateKey")
	if !dateKeyPattern.MatchString(dateKey) {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	detail, err := h.service.DayDetail(c.Context(), dateKey)
	if err != nil {
		if errors.Is(err, service.ErrLogNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		h.logger.Error().Err(err).Str("date_key", dateKey).Msg("failed to load day detail")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load day detail")
	}

	return utils.SendSuccess(c, "day retrieved", detail)
}

func (h *HistoryHandler) finalize(c *fiber.Ctx) error {
	dateKey := c.Params("dateKey")
	if !dateKeyPattern.MatchString(dateKey) {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	log, err := h.service.Finalize(c.Context(), dateKey)
	if err != nil {
		if errors.Is(err, service.ErrLogNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		h.logger.Error().Err(err).Str("date_key", dateKey).Msg("failed to finalize log")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to finalize log")
	}

	requestLogger(h.logger, c).Info().Str("date_key", dateKey).Msg("log finalized")
	return utils.SendSuccess(c, "log finalized", log)
}

func (h *HistoryHandler) updateFocus(c *fiber.Ctx) error {
	dateKey := c.Params("dateKey")
	if !dateKeyPattern.MatchString(dateKey) {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	var payload dto.FocusUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	log, err := h.service.UpdateFocus(c.Context(), dateKey, payload.Focus)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLogNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrLogFinalized):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		default:
			h.logger.Error().Err(err).Str("date_key", dateKey).Msg("failed to update focus")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update focus")
		}
	}

	return utils.SendSuccess(c, "focus updated", log)
}

func (h *HistoryHandler) overrideStatus(c *fiber.Ctx) error {
	dateKey := c.Params("dateKey")
	if !dateKeyPattern.MatchString(dateKey) {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}

	var payload dto.StatusOverrideRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	log, err := h.service.OverrideStatus(c.Context(), dateKey, payload.StudentID, models.AttendanceStatus(payload.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLogNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrLogFinalized):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrUnknownStatus):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			h.logger.Error().Err(err).Str("date_key", dateKey).Msg("failed to override status")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to override status")
		}
	}

	return utils.SendSuccess(c, "status updated", log)
}
