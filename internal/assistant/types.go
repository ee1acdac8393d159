package assistant

// Run statuses reported by the remote API.
const (
	runStatusCompleted = "completed"
	runStatusFailed    = "failed"
	runStatusCancelled = "cancelled"
	runStatusExpired   = "expired"
)

type assistantPayload struct {
	Model        string `json:"model"`
	Instructions string `json:"instructions"`
	Name         string `json:"name"`
}

type createdObject struct {
	ID string `json:"id"`
}

type userMessagePayload struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type createRunPayload struct {
	AssistantID string `json:"assistant_id"`
}

type runObject struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type messageList struct {
	Data []threadMessage `json:"data"`
}

type threadMessage struct {
	Role    string           `json:"role"`
	Content []messageContent `json:"content"`
}

type messageContent struct {
	Type string      `json:"type"`
	Text messageText `json:"text"`
}

type messageText struct {
	Value string `json:"value"`
}
