package embedding

import (
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	// DefaultModel is the sentence-embedding model served behind the
	// OpenAI-compatible endpoint. The model identifier is versioned: vectors
	// from a different model are incompatible with an existing collection.
	DefaultModel = "Omartificial-Intelligence-Space/Arabic-Triplet-Matryoshka-V2"

	// DefaultDimension is the vector size produced by DefaultModel.
	// This must match the dimension of the target collection.
	DefaultDimension = 768

	// DefaultAPIKeyEnv names the environment variable holding the API key.
	DefaultAPIKeyEnv = "EMBEDDINGS_API_KEY"
)

// Options configures the embeddings endpoint.
type Options struct {
	// BaseURL points at an OpenAI-compatible embeddings server
	// (text-embeddings-inference, vLLM, or api.openai.com when empty).
	BaseURL string
	// APIKeyEnv names the environment variable with the bearer token.
	// A key is required unless BaseURL targets a self-hosted server.
	APIKeyEnv string
	// Model is the versioned embedding model identifier.
	Model string
	// Dimension is the expected vector length for Model.
	Dimension int
}

// Client wraps the OpenAI-compatible API client for embedding generation.
type Client struct {
	api   *openai.Client
	model string
	dim   int
}

// NewClient creates a client for the configured embeddings endpoint.
func NewClient(opts Options) (*Client, error) {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Dimension <= 0 {
		opts.Dimension = DefaultDimension
	}
	if opts.APIKeyEnv == "" {
		opts.APIKeyEnv = DefaultAPIKeyEnv
	}

	apiKey := os.Getenv(opts.APIKeyEnv)
	if apiKey == "" && opts.BaseURL == "" {
		return nil, fmt.Errorf("%s environment variable not set and no embeddings base URL configured", opts.APIKeyEnv)
	}

	var reqOpts []option.RequestOption
	if apiKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(apiKey))
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}

	api := openai.NewClient(reqOpts...)
	return &Client{
		api:   &api,
		model: opts.Model,
		dim:   opts.Dimension,
	}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.model }

// Dimension returns the vector length the configured model produces.
func (c *Client) Dimension() int { return c.dim }
