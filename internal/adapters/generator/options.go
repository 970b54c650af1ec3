package generator

import "net/http"

// Option applies a configuration option to the OllamaClient.
type Option func(*OllamaClient)

// WithBaseURL sets the backend base URL, e.g. "http://192.168.2.27:11434".
func WithBaseURL(url string) Option {
	return func(c *OllamaClient) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithModel sets the model name requested on every exchange.
func WithModel(model string) Option {
	return func(c *OllamaClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. The client must be
// safe for concurrent use; day tasks share it.
func WithHTTPClient(client *http.Client) Option {
	return func(c *OllamaClient) {
		if client != nil {
			c.client = client
		}
	}
}
