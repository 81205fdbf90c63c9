package proxy

// Message is a single chat message in an OpenAI-compatible request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the OpenAI-compatible chat completion request.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// ChatResponse is the subset of a chat completion response the client reads.
type ChatResponse struct {
	Choices []Choice `json:"choices"`
}

type Choice struct {
	Message Message `json:"message"`
}

// errorBody is the structured error payload returned on non-2xx responses.
type errorBody struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Answer is a successful completion.
type Answer struct {
	Content string
}
