package dto

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// AnalyzeDocumentResponse always carries an answer: when the file-search
// pipeline fails, Degraded is set and the answer comes from the fallback
// completion instead.
type AnalyzeDocumentResponse struct {
	Answer   string `json:"answer"`
	FileID   string `json:"file_id,omitempty"`
	Degraded bool   `json:"degraded"`
}

type TranscriptionResponse struct {
	Text string `json:"text"`
}
