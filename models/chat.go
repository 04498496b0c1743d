package models

// ChatRequest is the payload for every conversational endpoint: a single
// free-text message plus an optional session identifier. A blank session ID
// starts a new conversation.
type ChatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message" binding:"required"`
}

// ChatResponse is what every conversational endpoint returns: the assistant's
// reply and a snapshot of the session state after the turn.
type ChatResponse struct {
	SessionID string        `json:"sessionId"`
	Reply     string        `json:"reply"`
	State     *BookingState `json:"state"`
}
