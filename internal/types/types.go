package types

// ChatRequest is the inbound chat message. SessionID defaults to "default";
// APIKey and FlowID override the process-wide configuration for this request.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	APIKey    string `json:"api_key,omitempty"`
	FlowID    string `json:"flow_id,omitempty"`
}

// ChatResponse carries the extracted reply and echoes the session ID.
type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse reports our own liveness plus the Langflow connection state.
type HealthResponse struct {
	Status             string `json:"status"`
	LangflowConnection string `json:"langflow_connection"`
	LangflowURL        string `json:"langflow_url"`
}
