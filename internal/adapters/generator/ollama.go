package generator

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/merlinhq/merlin/pkg/metrics"
)

// Wire constants for the chat-completions endpoint.
const (
	completionsPath = "/v1/chat/completions"
	formatJSON      = "json"
	dataPrefix      = "data: "
	doneMarker      = "[DONE]"

	roleSystem = "system"
	roleUser   = "user"

	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "llama3.1"

	// streamBufferSize bounds a single SSE line.
	streamBufferSize = 1 << 20
)

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Format   string    `json:"format,omitempty"`
	Stream   bool      `json:"stream,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// OllamaClient implements Client against an ollama-compatible
// chat-completions backend.
type OllamaClient struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaClient creates a client with configuration options.
func NewOllamaClient(opts ...Option) *OllamaClient {
	c := &OllamaClient{
		baseURL: defaultBaseURL,
		model:   defaultModel,
		// No client-level timeout: it would sever long streams. Callers
		// bound every exchange with ctx.
		client: &http.Client{},
	}

	for _, opt := range opts {
		opt(c)
	}

	c.baseURL = strings.TrimRight(c.baseURL, "/")
	return c
}

// Invoke sends one system+user exchange and returns the raw response
// text.
func (c *OllamaClient) Invoke(ctx context.Context, systemPrompt, userPayload string, structured bool) (string, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: roleSystem, Content: systemPrompt},
			{Role: roleUser, Content: userPayload},
		},
	}
	if structured {
		req.Format = formatJSON
	}

	metrics.RecordGeneratorRequest()
	metrics.IncGeneratorInFlight()
	defer metrics.DecGeneratorInFlight()
	start := time.Now()
	defer func() {
		metrics.ObserveGeneratorLatency(time.Since(start).Seconds())
	}()

	resp, err := c.post(ctx, req)
	if err != nil {
		return "", &TransportError{Op: "invoke", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // draining for connection reuse
		return "", &TransportError{Op: "invoke", Status: resp.StatusCode}
	}

	var body chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", &TransportError{Op: "invoke", Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(body.Choices) == 0 {
		return "", &TransportError{Op: "invoke", Err: errors.New("response carried no choices")}
	}
	return body.Choices[0].Message.Content, nil
}

// InvokeStream sends a full message history and streams the reply.
func (c *OllamaClient) InvokeStream(ctx context.Context, messages []Message) (<-chan Fragment, error) {
	req := chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   true,
	}

	metrics.RecordGeneratorRequest()

	resp, err := c.post(ctx, req)
	if err != nil {
		return nil, &TransportError{Op: "stream", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &TransportError{Op: "stream", Status: resp.StatusCode}
	}

	out := make(chan Fragment)
	go func() {
		defer close(out)
		defer resp.Body.Close()

		metrics.IncGeneratorInFlight()
		defer metrics.DecGeneratorInFlight()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), streamBufferSize)

		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || !strings.HasPrefix(line, dataPrefix) {
				continue
			}
			data := strings.TrimPrefix(line, dataPrefix)
			if strings.TrimSpace(data) == doneMarker {
				return
			}

			var chunk streamChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				c.deliver(ctx, out, Fragment{Err: &TransportError{Op: "stream", Err: fmt.Errorf("decode delta: %w", err)}})
				return
			}
			if len(chunk.Choices) == 0 {
				continue
			}

			metrics.RecordStreamFragment()
			if !c.deliver(ctx, out, Fragment{Content: chunk.Choices[0].Delta.Content}) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			c.deliver(ctx, out, Fragment{Err: &TransportError{Op: "stream", Err: err}})
		}
	}()

	return out, nil
}

// deliver sends a fragment unless the consumer is gone. Returns false
// when ctx ended first.
func (c *OllamaClient) deliver(ctx context.Context, out chan<- Fragment, f Fragment) bool {
	select {
	case out <- f:
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *OllamaClient) post(ctx context.Context, body chatRequest) (*http.Response, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.client.Do(req)
}
