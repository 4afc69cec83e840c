package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"ion-assistant/pkg/config"

	"go.uber.org/zap"
)

// OpenAIService talks to the OpenAI REST API directly over HTTP: chat
// completions with tool calling, the Files API, the Assistants v2 API used
// by the document ingestor, and audio transcriptions.
type OpenAIService struct {
	config     *config.OpenAIConfig
	logger     *zap.Logger
	httpClient *http.Client
	baseURL    string
}

func NewOpenAIService(cfg *config.OpenAIConfig, logger *zap.Logger) *OpenAIService {
	return &OpenAIService{
		config: cfg,
		logger: logger,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
	}
}

// APIError is a non-2xx response from the provider, classified into a
// user-facing message by status code.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openai: status %d: %s", e.Status, e.Body)
}

// UserMessage maps the failure to something safe to show the end user.
func (e *APIError) UserMessage() string {
	switch {
	case e.Status == http.StatusUnauthorized:
		return "A chave de API configurada é inválida."
	case e.Status == http.StatusTooManyRequests:
		return "Muitas requisições no momento. Tente novamente em instantes."
	case e.Status >= 500:
		return "O serviço de IA está instável. Tente novamente mais tarde."
	default:
		return "Não foi possível completar a requisição à IA."
	}
}

// UserFacingError turns any transport failure into a display string:
// classified API errors keep their mapping, everything else reads as a
// connectivity problem.
func UserFacingError(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return "Falha de conexão com o serviço de IA. Verifique sua internet."
}

// Wire types for chat completions.

type ChatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolSchema declares one callable function in the request payload.
type ToolSchema struct {
	Type     string         `json:"type"`
	Function FunctionSchema `json:"function"`
}

type FunctionSchema struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// ChatCompletion sends the conversation (and optional tool schema) to
// /chat/completions and returns the assistant message of the first choice.
func (s *OpenAIService) ChatCompletion(ctx context.Context, messages []ChatMessage, tools []ToolSchema) (*ChatMessage, error) {
	requestBody := map[string]interface{}{
		"model":    s.config.Model,
		"messages": messages,
	}
	if len(tools) > 0 {
		requestBody["tools"] = tools
		requestBody["tool_choice"] = "auto"
	}

	var completionResp struct {
		Choices []struct {
			Message ChatMessage `json:"message"`
		} `json:"choices"`
	}

	if err := s.postJSON(ctx, "/chat/completions", requestBody, &completionResp, nil); err != nil {
		return nil, err
	}

	if len(completionResp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in completion response")
	}

	msg := completionResp.Choices[0].Message
	return &msg, nil
}

// UploadFile submits the file to /files with purpose=assistants and returns
// the provider file id.
func (s *OpenAIService) UploadFile(ctx context.Context, fileReader io.Reader, fileName string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("purpose", "assistants"); err != nil {
		return "", fmt.Errorf("failed to write purpose field: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		switch ext {
		case ".pdf":
			mimeType = "application/pdf"
		case ".txt", ".md":
			mimeType = "text/plain"
		default:
			mimeType = "application/octet-stream"
		}
	}

	part, err := writer.CreatePart(map[string][]string{
		"Content-Type":        {mimeType},
		"Content-Disposition": {fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName)},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err := io.Copy(part, fileReader); err != nil {
		return "", fmt.Errorf("failed to copy file: %w", err)
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/files", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	var uploadResp struct {
		ID string `json:"id"`
	}
	if err := s.do(req, &uploadResp); err != nil {
		return "", err
	}

	s.logger.Info("File uploaded", zap.String("file_id", uploadResp.ID), zap.String("name", fileName))
	return uploadResp.ID, nil
}

// GetFileStatus reads the processing status of an uploaded file.
func (s *OpenAIService) GetFileStatus(ctx context.Context, fileID string) (string, error) {
	var fileResp struct {
		Status string `json:"status"`
	}
	if err := s.getJSON(ctx, "/files/"+fileID, &fileResp, nil); err != nil {
		return "", err
	}
	return fileResp.Status, nil
}

const assistantsBetaHeader = "assistants=v2"

// CreateAssistant creates a transient assistant configured with file search.
func (s *OpenAIService) CreateAssistant(ctx context.Context, name, instructions string) (string, error) {
	requestBody := map[string]interface{}{
		"model":        s.config.Model,
		"name":         name,
		"instructions": instructions,
		"tools":        []map[string]string{{"type": "file_search"}},
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := s.postJSON(ctx, "/assistants", requestBody, &resp, assistantsHeaders()); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// DeleteAssistant removes a transient assistant. Best-effort cleanup.
func (s *OpenAIService) DeleteAssistant(ctx context.Context, assistantID string) error {
	req, err := http.NewRequestWithContext(ctx, "DELETE", s.baseURL+"/assistants/"+assistantID, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	req.Header.Set("OpenAI-Beta", assistantsBetaHeader)

	return s.do(req, nil)
}

// CreateThread seeds a thread with the user message and the file attached
// for file search.
func (s *OpenAIService) CreateThread(ctx context.Context, message, fileID string) (string, error) {
	requestBody := map[string]interface{}{
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": message,
				"attachments": []map[string]interface{}{
					{
						"file_id": fileID,
						"tools":   []map[string]string{{"type": "file_search"}},
					},
				},
			},
		},
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := s.postJSON(ctx, "/threads", requestBody, &resp, assistantsHeaders()); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (s *OpenAIService) CreateRun(ctx context.Context, threadID, assistantID string) (string, error) {
	requestBody := map[string]interface{}{
		"assistant_id": assistantID,
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := s.postJSON(ctx, "/threads/"+threadID+"/runs", requestBody, &resp, assistantsHeaders()); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (s *OpenAIService) GetRunStatus(ctx context.Context, threadID, runID string) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := s.getJSON(ctx, "/threads/"+threadID+"/runs/"+runID, &resp, assistantsHeaders()); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// LatestAssistantMessage fetches the thread messages and extracts the text
// of the newest assistant reply.
func (s *OpenAIService) LatestAssistantMessage(ctx context.Context, threadID string) (string, error) {
	var resp struct {
		Data []struct {
			Role    string `json:"role"`
			Content []struct {
				Type string `json:"type"`
				Text struct {
					Value string `json:"value"`
				} `json:"text"`
			} `json:"content"`
		} `json:"data"`
	}
	if err := s.getJSON(ctx, "/threads/"+threadID+"/messages?order=desc&limit=10", &resp, assistantsHeaders()); err != nil {
		return "", err
	}

	for _, msg := range resp.Data {
		if msg.Role != "assistant" {
			continue
		}
		var text strings.Builder
		for _, part := range msg.Content {
			if part.Type == "text" {
				text.WriteString(part.Text.Value)
			}
		}
		if text.Len() > 0 {
			return text.String(), nil
		}
	}

	return "", fmt.Errorf("no assistant message in thread %s", threadID)
}

// Transcribe sends audio to /audio/transcriptions (Portuguese).
func (s *OpenAIService) Transcribe(ctx context.Context, audio io.Reader, fileName string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("model", s.config.TranscriptionModel); err != nil {
		return "", err
	}
	if err := writer.WriteField("language", "pt"); err != nil {
		return "", err
	}

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("failed to copy audio: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	var resp struct {
		Text string `json:"text"`
	}
	if err := s.do(req, &resp); err != nil {
		return "", err
	}

	return strings.TrimSpace(resp.Text), nil
}

func assistantsHeaders() map[string]string {
	return map[string]string{"OpenAI-Beta": assistantsBetaHeader}
}

func (s *OpenAIService) postJSON(ctx context.Context, path string, body interface{}, out interface{}, headers map[string]string) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return s.do(req, out)
}

func (s *OpenAIService) getJSON(ctx context.Context, path string, out interface{}, headers map[string]string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return s.do(req, out)
}

func (s *OpenAIService) do(req *http.Request, out interface{}) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		s.logger.Warn("OpenAI request failed",
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode),
		)
		return &APIError{Status: resp.StatusCode, Body: string(bodyBytes)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
