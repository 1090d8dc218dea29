package controller

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"docchat-be/internal/dto"
	"docchat-be/internal/pkg/logger"
	"docchat-be/internal/pkg/serverutils"
	"docchat-be/pkg/engine"
	ragengine "docchat-be/pkg/engine/rag"
	"docchat-be/pkg/rag/ingest"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	SendChat(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	ClearHistory(ctx *fiber.Ctx) error
	UploadDocuments(ctx *fiber.Ctx) error
	SessionStatus(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
}

type chatbotController struct {
	engine engine.ChatEngine
	// docEngine is set when the document-aware engine is active. Document
	// endpoints return 404 otherwise.
	docEngine *ragengine.Engine
	sysLogger logger.ILogger
}

func NewChatbotController(chatEngine engine.ChatEngine, docEngine *ragengine.Engine, sysLogger logger.ILogger) IChatbotController {
	return &chatbotController{
		engine:    chatEngine,
		docEngine: docEngine,
		sysLogger: sysLogger,
	}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("/message", c.SendChat)
	h.Get("/history/:session_id", c.GetHistory)
	h.Delete("/history/:session_id", c.ClearHistory)
	h.Get("/session/:session_id/status", c.SessionStatus)
	h.Delete("/session/:session_id", c.DeleteSession)

	d := r.Group("/documents/v1")
	d.Post("/upload", c.UploadDocuments)
}

func (c *chatbotController) SendChat(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res := dto.SendChatResponse{SessionId: req.SessionId}

	if c.docEngine != nil {
		result := c.docEngine.AnswerDetailed(ctx.Context(), req.SessionId, req.Chat)
		res.Answer = result.Answer
		res.Grounded = result.Grounded
		res.Reason = result.Verdict.Reason
		for _, cit := range result.Citations {
			res.Citations = append(res.Citations, dto.CitationDTO{Source: cit.Source, Page: cit.Page})
		}
		c.sysLogger.Info("CHAT", "Answer produced", map[string]interface{}{
			"session_id": req.SessionId,
			"grounded":   result.Grounded,
			"reason":     result.Verdict.Reason,
			"citations":  len(result.Citations),
		})
	} else {
		answer, err := c.engine.Answer(ctx.Context(), req.SessionId, req.Chat)
		if err != nil {
			return err
		}
		res.Answer = answer
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

func (c *chatbotController) GetHistory(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("session_id")

	turns := c.engine.GetHistory(sessionId)
	res := dto.GetChatHistoryResponse{
		SessionId: sessionId,
		Turns:     make([]dto.ChatTurnDTO, 0, len(turns)),
	}
	for _, turn := range turns {
		res.Turns = append(res.Turns, dto.ChatTurnDTO{Role: turn.Role, Chat: turn.Text})
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func (c *chatbotController) ClearHistory(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("session_id")
	c.engine.ClearSession(sessionId)

	return ctx.JSON(serverutils.SuccessResponse[any]("Success clear chat history", nil))
}

func (c *chatbotController) UploadDocuments(ctx *fiber.Ctx) error {
	if c.docEngine == nil {
		return fiber.NewError(fiber.StatusNotFound, "Document upload is not available for this engine")
	}

	sessionId := ctx.FormValue("session_id")
	if sessionId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "session_id is required")
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid multipart form")
	}

	var files []ingest.File
	for _, header := range form.File["files"] {
		f, err := header.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Failed to read uploaded file")
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Failed to read uploaded file")
		}
		files = append(files, ingest.File{Name: header.Filename, Content: content})
	}

	outcome := c.docEngine.Ingest(ctx.Context(), sessionId, files)
	if !outcome.Success {
		c.sysLogger.Warn("INGEST", "Upload rejected", map[string]interface{}{
			"session_id": sessionId,
			"files":      len(files),
			"error":      outcome.Error,
		})
		return fiber.NewError(fiber.StatusBadRequest, outcome.Error)
	}

	c.sysLogger.Info("INGEST", "Documents ingested", map[string]interface{}{
		"session_id":      sessionId,
		"files_processed": outcome.FilesProcessed,
		"chunks_created":  outcome.ChunksCreated,
	})

	res := dto.IngestDocumentsResponse{
		SessionId:      sessionId,
		ChunksCreated:  outcome.ChunksCreated,
		FilesProcessed: outcome.FilesProcessed,
		Message:        outcome.Message,
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ingest documents", res))
}

func (c *chatbotController) SessionStatus(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("session_id")

	res := dto.SessionStatusResponse{
		SessionId: sessionId,
		TurnCount: len(c.engine.GetHistory(sessionId)),
	}
	if c.docEngine != nil {
		res.HasDocuments = c.docEngine.HasDocuments(sessionId)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session status", res))
}

func (c *chatbotController) DeleteSession(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("session_id")

	res := dto.DeleteSessionResponse{SessionId: sessionId}
	if c.docEngine != nil {
		res.DocumentsDropped = c.docEngine.DeleteSession(ctx.Context(), sessionId)
	} else {
		c.engine.ClearSession(sessionId)
	}

	c.sysLogger.Info("SESSION", "Session deleted", map[string]interface{}{
		"session_id":        sessionId,
		"documents_dropped": res.DocumentsDropped,
	})

	return ctx.JSON(serverutils.SuccessResponse("Success delete session", res))
}
