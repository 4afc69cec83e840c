package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"ion-assistant/internal/dto"
	"ion-assistant/pkg/config"
	"ion-assistant/pkg/poll"

	"go.uber.org/zap"
)

var textExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".json": true,
	".log":  true,
}

// DocumentService answers questions about uploaded files. Plain-text files
// go straight into a completion; PDFs go through the remote file-search
// pipeline with a degraded plain-completion fallback when any stage fails.
type DocumentService struct {
	openai *OpenAIService
	cfg    config.IngestConfig
	logger *zap.Logger
}

func NewDocumentService(openai *OpenAIService, cfg config.IngestConfig, logger *zap.Logger) *DocumentService {
	return &DocumentService{
		openai: openai,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *DocumentService) Analyze(ctx context.Context, fileName, question string, file io.Reader) (*dto.AnalyzeDocumentResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		question = "Resuma o conteúdo deste documento."
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	switch {
	case textExtensions[ext]:
		return s.analyzeText(ctx, fileName, question, file)
	case ext == ".pdf":
		return s.analyzePDF(ctx, fileName, question, file)
	default:
		return s.analyzeByName(ctx, fileName, question)
	}
}

// analyzeText inlines the file content, truncated to the configured cap,
// into a single completion.
func (s *DocumentService) analyzeText(ctx context.Context, fileName, question string, file io.Reader) (*dto.AnalyzeDocumentResponse, error) {
	raw, err := io.ReadAll(io.LimitReader(file, int64(s.cfg.MaxTextChars)+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	content := sanitizeUTF8(string(raw))
	truncated := false
	if len(content) > s.cfg.MaxTextChars {
		content = content[:s.cfg.MaxTextChars]
		truncated = true
	}

	prompt := fmt.Sprintf("Documento: %s\n\nConteúdo:\n%s\n\nPergunta: %s\n\nResponda em português com base no conteúdo acima.",
		fileName, content, question)
	if truncated {
		prompt += "\n(O documento foi truncado por tamanho.)"
	}

	msg, err := s.openai.ChatCompletion(ctx, []ChatMessage{{Role: "user", Content: prompt}}, nil)
	if err != nil {
		return nil, err
	}
	return &dto.AnalyzeDocumentResponse{Answer: msg.Content}, nil
}

// analyzePDF runs the remote file-search pipeline: upload, wait for
// processing, spin up a throwaway assistant and thread, run it and read the
// answer. Every stage that fails drops to the degraded plain-completion
// path instead of failing the request.
func (s *DocumentService) analyzePDF(ctx context.Context, fileName, question string, file io.Reader) (*dto.AnalyzeDocumentResponse, error) {
	fileID, err := s.openai.UploadFile(ctx, file, fileName)
	if err != nil {
		s.logger.Warn("File upload failed, degrading to plain completion",
			zap.String("file", fileName), zap.Error(err))
		return s.degraded(ctx, fileName, question, "")
	}

	// Processing status is advisory: a timeout here just means the run
	// below may have to wait on the backend.
	res := poll.Until(ctx, s.cfg.FilePollInterval, s.cfg.FilePollAttempts, func(ctx context.Context) (bool, error) {
		status, err := s.openai.GetFileStatus(ctx, fileID)
		if err != nil {
			return false, err
		}
		return status == "processed", nil
	})
	if res.Status != poll.StatusReady {
		s.logger.Warn("File processing not confirmed",
			zap.String("file_id", fileID),
			zap.String("poll_status", res.Status.String()),
			zap.Error(res.Err))
	}

	answer, err := s.runFileSearch(ctx, fileID, question)
	if err != nil {
		s.logger.Warn("File search pipeline failed, degrading to plain completion",
			zap.String("file_id", fileID), zap.Error(err))
		return s.degraded(ctx, fileName, question, fileID)
	}

	return &dto.AnalyzeDocumentResponse{Answer: answer, FileID: fileID}, nil
}

func (s *DocumentService) runFileSearch(ctx context.Context, fileID, question string) (string, error) {
	assistantID, err := s.openai.CreateAssistant(ctx, "ion-document-analyzer",
		"Você analisa documentos anexados e responde perguntas sobre eles em português do Brasil.")
	if err != nil {
		return "", err
	}
	defer func() {
		if err := s.openai.DeleteAssistant(context.WithoutCancel(ctx), assistantID); err != nil {
			s.logger.Warn("Failed to delete throwaway assistant",
				zap.String("assistant_id", assistantID), zap.Error(err))
		}
	}()

	threadID, err := s.openai.CreateThread(ctx, question, fileID)
	if err != nil {
		return "", err
	}

	runID, err := s.openai.CreateRun(ctx, threadID, assistantID)
	if err != nil {
		return "", err
	}

	res := poll.Until(ctx, s.cfg.RunPollInterval, s.cfg.RunPollAttempts, func(ctx context.Context) (bool, error) {
		status, err := s.openai.GetRunStatus(ctx, threadID, runID)
		if err != nil {
			return false, err
		}
		switch status {
		case "completed":
			return true, nil
		case "failed", "cancelled", "expired":
			return false, fmt.Errorf("run ended with status %s", status)
		}
		return false, nil
	})
	if res.Status != poll.StatusReady {
		if res.Err != nil {
			return "", res.Err
		}
		return "", fmt.Errorf("run did not complete after %d attempts", res.Attempts)
	}

	return s.openai.LatestAssistantMessage(ctx, threadID)
}

// degraded answers from a plain completion when file search is unavailable.
// The response still succeeds; Degraded flags the downgrade.
func (s *DocumentService) degraded(ctx context.Context, fileName, question, fileID string) (*dto.AnalyzeDocumentResponse, error) {
	prompt := fmt.Sprintf("O usuário enviou o documento '%s' mas o conteúdo não pôde ser lido.\n\nPergunta: %s\n\nExplique em português que o documento não pôde ser analisado no momento e responda o que for possível pelo nome e contexto.",
		fileName, question)
	if fileID != "" {
		prompt = fmt.Sprintf("O usuário enviou o documento '%s' (arquivo %s) mas o conteúdo não pôde ser lido.\n\nPergunta: %s\n\nExplique em português que o documento não pôde ser analisado no momento, cite o identificador do arquivo, e responda o que for possível pelo nome e contexto.",
			fileName, fileID, question)
	}

	msg, err := s.openai.ChatCompletion(ctx, []ChatMessage{{Role: "user", Content: prompt}}, nil)
	if err != nil {
		return nil, err
	}
	return &dto.AnalyzeDocumentResponse{Answer: msg.Content, FileID: fileID, Degraded: true}, nil
}

// analyzeByName handles formats with no extraction path. The model answers
// from metadata alone.
func (s *DocumentService) analyzeByName(ctx context.Context, fileName, question string) (*dto.AnalyzeDocumentResponse, error) {
	prompt := fmt.Sprintf("O usuário enviou o arquivo '%s', de um formato sem suporte a leitura de conteúdo.\n\nPergunta: %s\n\nResponda em português pelo nome e tipo do arquivo, deixando claro que o conteúdo não foi lido.",
		fileName, question)

	msg, err := s.openai.ChatCompletion(ctx, []ChatMessage{{Role: "user", Content: prompt}}, nil)
	if err != nil {
		return nil, err
	}
	return &dto.AnalyzeDocumentResponse{Answer: msg.Content, Degraded: true}, nil
}
