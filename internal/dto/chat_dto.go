package dto

// SendChatRequest is the body of POST /chat/v1/message.
type SendChatRequest struct {
	SessionId string `json:"session_id" validate:"required"`
	Chat      string `json:"chat" validate:"required"`
}

type CitationDTO struct {
	Source string `json:"source"`
	Page   int    `json:"page"`
}

type SendChatResponse struct {
	SessionId string        `json:"session_id"`
	Answer    string        `json:"answer"`
	Grounded  bool          `json:"grounded"`
	Reason    string        `json:"reason,omitempty"`
	Citations []CitationDTO `json:"citations,omitempty"`
}

type ChatTurnDTO struct {
	Role string `json:"role"`
	Chat string `json:"chat"`
}

type GetChatHistoryResponse struct {
	SessionId string        `json:"session_id"`
	Turns     []ChatTurnDTO `json:"turns"`
}

type IngestDocumentsResponse struct {
	SessionId      string `json:"session_id"`
	ChunksCreated  int    `json:"chunks_created"`
	FilesProcessed int    `json:"files_processed"`
	Message        string `json:"message,omitempty"`
}

type SessionStatusResponse struct {
	SessionId    string `json:"session_id"`
	HasDocuments bool   `json:"has_documents"`
	TurnCount    int    `json:"turn_count"`
}

type DeleteSessionResponse struct {
	SessionId        string `json:"session_id"`
	DocumentsDropped bool   `json:"documents_dropped"`
}
