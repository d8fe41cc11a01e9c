package models

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

type ChatResponse struct {
	Response  string   `json:"response"`
	Reasoning string   `json:"reasoning,omitempty"`
	Endpoints []string `json:"endpoints,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Session is the server-side record for a logged-in user. The upstream
// platform token never leaves the server; the browser only holds an opaque
// cookie ID pointing at this record.
type Session struct {
	Token     string `json:"token"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	CreatedAt string `json:"created_at"`
}

type ChatHistory struct {
	Message   string   `json:"message"`
	Response  string   `json:"response"`
	Endpoints []string `json:"endpoints,omitempty"`
	Timestamp string   `json:"timestamp"`
}

// ChatMessage is one turn of the model conversation. Role is one of
// "system", "user", "assistant" or "function"; Name is set on function turns
// and must match the tool that produced the content.
type ChatMessage struct {
	Role         string        `json:"role"`
	Content      string        `json:"content"`
	Name         string        `json:"name,omitempty"`
	FunctionCall *FunctionCall `json:"function_call,omitempty"`
}

// FunctionCall is the model's request to invoke a declared tool. Arguments
// is the raw JSON payload as returned by the model.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}
