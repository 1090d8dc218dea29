package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applogger "docchat-be/internal/pkg/logger"
	"docchat-be/internal/pkg/serverutils"
	"docchat-be/pkg/embedding"
	ragengine "docchat-be/pkg/engine/rag"
	"docchat-be/pkg/extract"
	"docchat-be/pkg/llm"
	"docchat-be/pkg/rag/executor"
	"docchat-be/pkg/rag/history"
	"docchat-be/pkg/rag/ingest"
	"docchat-be/pkg/rag/prompt"
	"docchat-be/pkg/rag/query"
	"docchat-be/pkg/rag/relevance"
	"docchat-be/pkg/rag/response"
	"docchat-be/pkg/rag/search"
	"docchat-be/pkg/rag/session"
	"docchat-be/pkg/splitter"
	"docchat-be/pkg/vectorindex/memory"
)

type stubLLM struct{ answer string }

func (s stubLLM) Chat(ctx context.Context, messages []llm.Message, options ...llm.Option) (string, error) {
	return s.answer, nil
}

func (s stubLLM) Generate(ctx context.Context, promptText string, options ...llm.Option) (string, error) {
	return s.answer, nil
}

type stubEmbedder struct{}

func (stubEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{Values: []float32{1, 0, 0}}, nil
}

type stubExtractor struct{}

func (stubExtractor) Extract(name string, data []byte) ([]extract.Page, error) {
	return []extract.Page{{Number: 1, Text: strings.Repeat("extracted document text ", 20)}}, nil
}

// recordingLogger captures system log events for assertions.
type recordingLogger struct {
	events []string
}

var _ applogger.ILogger = &recordingLogger{}

func (l *recordingLogger) record(level, module, message string) {
	l.events = append(l.events, level+" "+module+": "+message)
}

func (l *recordingLogger) Debug(module, message string, details map[string]interface{}) {
	l.record("DEBUG", module, message)
}

func (l *recordingLogger) Info(module, message string, details map[string]interface{}) {
	l.record("INFO", module, message)
}

func (l *recordingLogger) Warn(module, message string, details map[string]interface{}) {
	l.record("WARN", module, message)
}

func (l *recordingLogger) Error(module, message string, details map[string]interface{}) {
	l.record("ERROR", module, message)
}

func (l *recordingLogger) Sync() error { return nil }

func (l *recordingLogger) contains(fragment string) bool {
	for _, event := range l.events {
		if strings.Contains(event, fragment) {
			return true
		}
	}
	return false
}

func newTestApp() (*fiber.App, *recordingLogger) {
	logger := log.New(io.Discard, "", 0)
	registry := session.NewRegistry()
	historyStore := history.NewStore()
	builder := prompt.NewBuilder()
	index := memory.NewStore()
	model := stubLLM{answer: "Stubbed answer."}

	ingestor := ingest.NewIngestor(
		registry,
		stubExtractor{},
		splitter.New(1000, 200),
		stubEmbedder{},
		index,
		50,
		10,
		logger,
	)

	pipeline := executor.NewPipeline(
		registry,
		historyStore,
		query.NewContextualizer(model, builder, logger),
		search.NewRetriever(stubEmbedder{}, index, 8, logger),
		relevance.NewGate(0.65, 1, 200, logger),
		response.NewGenerator(model, builder, 0.7, 0, logger),
		logger,
	)

	docEngine := ragengine.NewEngine(pipeline, ingestor, registry, historyStore, index, logger)

	sysLogger := &recordingLogger{}

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(sysLogger))

	api := app.Group("/api")
	NewChatbotController(docEngine, docEngine, sysLogger).RegisterRoutes(api)

	return app, sysLogger
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var envelope map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))

	return resp, envelope
}

func TestSendChatWithoutDocuments(t *testing.T) {
	app, sysLogger := newTestApp()

	resp, envelope := doJSON(t, app, "POST", "/api/chat/v1/message", fiber.Map{
		"session_id": "sess-1",
		"chat":       "What is Go?",
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, envelope["success"].(bool))

	data := envelope["data"].(map[string]any)
	assert.Equal(t, "Stubbed answer.", data["answer"])
	assert.Equal(t, false, data["grounded"])
	assert.True(t, sysLogger.contains("INFO CHAT: Answer produced"))
}

func TestSendChatValidation(t *testing.T) {
	app, sysLogger := newTestApp()

	resp, envelope := doJSON(t, app, "POST", "/api/chat/v1/message", fiber.Map{
		"session_id": "sess-1",
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, envelope["success"].(bool))
	assert.Contains(t, envelope["message"], "Validation failed")
	assert.True(t, sysLogger.contains("WARN HTTP: Request rejected"))
}

func TestUploadAndGroundedChat(t *testing.T) {
	app, sysLogger := newTestApp()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("session_id", "sess-1"))
	part, err := writer.CreateFormFile("files", "doc.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/documents/v1/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	data := envelope["data"].(map[string]any)
	assert.Equal(t, float64(1), data["files_processed"])
	assert.Contains(t, data["message"], "chunks created")

	// A chat in the same session is now grounded in the uploaded document.
	resp, envelope = doJSON(t, app, "POST", "/api/chat/v1/message", fiber.Map{
		"session_id": "sess-1",
		"chat":       "What does the document say?",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data = envelope["data"].(map[string]any)
	assert.Equal(t, true, data["grounded"])
	assert.Contains(t, data["answer"], "**Sources:** doc.pdf (page 1)")
	assert.True(t, sysLogger.contains("INFO INGEST: Documents ingested"))
}

func TestUploadRejectsNonPDF(t *testing.T) {
	app, sysLogger := newTestApp()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("session_id", "sess-1"))
	part, err := writer.CreateFormFile("files", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("plain text"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/documents/v1/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.True(t, sysLogger.contains("WARN INGEST: Upload rejected"))
}

func TestHistoryAndClear(t *testing.T) {
	app, _ := newTestApp()

	doJSON(t, app, "POST", "/api/chat/v1/message", fiber.Map{
		"session_id": "sess-1",
		"chat":       "hello",
	})

	resp, envelope := doJSON(t, app, "GET", "/api/chat/v1/history/sess-1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := envelope["data"].(map[string]any)
	turns := data["turns"].([]any)
	require.Len(t, turns, 2)
	assert.Equal(t, "user", turns[0].(map[string]any)["role"])

	resp, _ = doJSON(t, app, "DELETE", "/api/chat/v1/history/sess-1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, envelope = doJSON(t, app, "GET", "/api/chat/v1/history/sess-1", nil)
	data = envelope["data"].(map[string]any)
	assert.Len(t, data["turns"], 0)
}

func TestSessionStatusAndDelete(t *testing.T) {
	app, _ := newTestApp()

	_, envelope := doJSON(t, app, "GET", "/api/chat/v1/session/sess-1/status", nil)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, false, data["has_documents"])

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("session_id", "sess-1"))
	part, _ := writer.CreateFormFile("files", "doc.pdf")
	_, _ = part.Write([]byte("%PDF-1.4 fake"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/documents/v1/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	_, err := app.Test(req, -1)
	require.NoError(t, err)

	_, envelope = doJSON(t, app, "GET", "/api/chat/v1/session/sess-1/status", nil)
	data = envelope["data"].(map[string]any)
	assert.Equal(t, true, data["has_documents"])

	// Clearing the conversation keeps the corpus.
	doJSON(t, app, "DELETE", "/api/chat/v1/history/sess-1", nil)
	_, envelope = doJSON(t, app, "GET", "/api/chat/v1/session/sess-1/status", nil)
	data = envelope["data"].(map[string]any)
	assert.Equal(t, true, data["has_documents"])

	resp, envelope := doJSON(t, app, "DELETE", "/api/chat/v1/session/sess-1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data = envelope["data"].(map[string]any)
	assert.Equal(t, true, data["documents_dropped"])

	_, envelope = doJSON(t, app, "GET", "/api/chat/v1/session/sess-1/status", nil)
	data = envelope["data"].(map[string]any)
	assert.Equal(t, false, data["has_documents"])
}
