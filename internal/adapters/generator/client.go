// Package generator talks to the external reasoning backend that
// proposes schedule edits and answers questions.
//
// The backend speaks the chat-completions contract:
//
//	{model, messages: [{role, content}], format?: "json", stream?: bool}
//
// Non-streaming calls return one complete text body. Streaming calls
// yield incremental deltas as server-sent events terminated by [DONE].
// This layer performs no retries and does not validate response shape;
// both belong to its callers.
package generator

import "context"

// Message is one chat turn on the wire.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Fragment is one element of a streamed response. A transport failure
// mid-stream is delivered as a final fragment with Err set rather than
// by silently closing the channel.
type Fragment struct {
	Content string
	Err     error
}

// Client is the generator contract consumed by the planner.
type Client interface {
	// Invoke sends a system prompt and user payload and returns the raw
	// response text. When structured is true the backend is asked to
	// constrain output to JSON; the shape of what comes back is still
	// the caller's problem.
	Invoke(ctx context.Context, systemPrompt, userPayload string, structured bool) (string, error)

	// InvokeStream sends a full message history and returns a finite,
	// non-restartable sequence of text fragments. Single producer,
	// sequential delivery; the channel is closed after the terminal
	// fragment.
	InvokeStream(ctx context.Context, messages []Message) (<-chan Fragment, error)
}
