package handlers

import (
	"ion-assistant/internal/dto"
	"ion-assistant/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type DocumentHandler struct {
	docService *service.DocumentService
	openai     *service.OpenAIService
	logger     *zap.Logger
}

func NewDocumentHandler(docService *service.DocumentService, openai *service.OpenAIService, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		openai:     openai,
		logger:     logger,
	}
}

func (h *DocumentHandler) Analyze(c *fiber.Ctx) error {
	if _, err := getUserID(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is required",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to open file",
		})
	}
	defer src.Close()

	question := c.FormValue("question")

	resp, err := h.docService.Analyze(c.Context(), file.Filename, question, src)
	if err != nil {
		h.logger.Error("Document analysis failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": service.UserFacingError(err),
		})
	}

	return c.JSON(resp)
}

func (h *DocumentHandler) Transcribe(c *fiber.Ctx) error {
	if _, err := getUserID(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	file, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Audio file is required",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to open file",
		})
	}
	defer src.Close()

	text, err := h.openai.Transcribe(c.Context(), src, file.Filename)
	if err != nil {
		h.logger.Error("Transcription failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": service.UserFacingError(err),
		})
	}

	return c.JSON(dto.TranscriptionResponse{Text: text})
}
