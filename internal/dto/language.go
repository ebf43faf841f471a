package dto

type DetectLanguageRequest struct {
	Text string `json:"text"`
}

type DetectLanguageResponse struct {
	Language string `json:"language"`
}

type UserMessageRequest struct {
	Content string `json:"content"`
}

type SessionUpdateResponse struct {
	SessionID   string `json:"session_id"`
	Language    string `json:"language"`
	Changed     bool   `json:"changed"`
	Instruction string `json:"instruction,omitempty"`
}
