package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/jpeg"
	"io"
	"net/http"
	"time"

	"ai-vision-backend/internal/imaging"
)

const (
	// DefaultEndpoint is the chat-completions endpoint of the Llama API.
	DefaultEndpoint = "https://api.llama.com/v1/chat/completions"
	// DefaultModel is the multimodal model used for image analysis.
	DefaultModel = "Llama-4-Scout-17B-16E-Instruct-FP8"
	// DefaultTimeout bounds the wait on a single remote call.
	DefaultTimeout = 60 * time.Second
)

const systemPrompt = "You are a helpful assistant that understands the image given to you and helps vision-impaired people navigate their environment."

const defaultUserPrompt = "Please describe this image and provide navigation guidance for a vision-impaired person."

// Message is one turn in the chat-completions request. Content is either
// a plain string or a slice of typed content parts for multimodal turns.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type ImageURL struct {
	URL string `json:"url"`
}

type ImageContent struct {
	Type     string   `json:"type"`
	ImageURL ImageURL `json:"image_url"`
}

// ChatRequest is the JSON body posted to the chat-completions endpoint.
// Sampling parameters are fixed policy, not caller-configurable.
type ChatRequest struct {
	Model               string    `json:"model"`
	Messages            []Message `json:"messages"`
	Stream              bool      `json:"stream"`
	Temperature         float64   `json:"temperature"`
	TopP                float64   `json:"top_p"`
	MaxCompletionTokens int       `json:"max_completion_tokens"`
}

// ChatResponse covers both the Llama API shape (completion_message) and
// the OpenAI-compatible shape (choices), whichever the endpoint returns.
type ChatResponse struct {
	CompletionMessage *struct {
		Content struct {
			Text string `json:"text"`
		} `json:"content"`
	} `json:"completion_message"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client wraps the remote vision-language model behind an
// always-answers contract: Query never fails, it degrades.
type Client struct {
	apiKey   string
	endpoint string
	model    string
	client   *http.Client
}

// NewClient creates a gateway client. Empty endpoint, model or timeout
// fall back to the package defaults.
func NewClient(apiKey, endpoint, model string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		apiKey:   apiKey,
		endpoint: endpoint,
		model:    model,
		client:   &http.Client{Timeout: timeout},
	}
}

// Query analyzes the image with the remote model and always returns a
// non-empty answer. Any transport error, non-200 status, malformed body
// or empty completion is absorbed into a fallback string carrying the
// error and the image's basic descriptor, so the end user still gets a
// textual answer. One attempt per call, no retries.
func (c *Client) Query(ctx context.Context, img *imaging.DecodedImage, userMessage string) string {
	text, err := c.query(ctx, img, userMessage)
	if err != nil {
		d := img.Descriptor
		return fmt.Sprintf("Error calling LLM API: %v. Basic info: %s image with dimensions %dx%d.",
			err, d.Format, d.Width, d.Height)
	}
	return text
}

func (c *Client) query(ctx context.Context, img *imaging.DecodedImage, userMessage string) (string, error) {
	dataURL, err := encodeImageToDataURL(img)
	if err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	prompt := userMessage
	if prompt == "" {
		prompt = defaultUserPrompt
	}

	reqBody := ChatRequest{
		Model: c.model,
		Messages: []Message{
			{
				Role:    "system",
				Content: systemPrompt,
			},
			{
				Role: "user",
				Content: []any{
					TextContent{Type: "text", Text: prompt},
					ImageContent{Type: "image_url", ImageURL: ImageURL{URL: dataURL}},
				},
			},
		},
		Stream:              false,
		Temperature:         0.5,
		TopP:                0.9,
		MaxCompletionTokens: 2048,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	text := ""
	switch {
	case chatResp.CompletionMessage != nil:
		text = chatResp.CompletionMessage.Content.Text
	case len(chatResp.Choices) > 0:
		text = chatResp.Choices[0].Message.Content
	}
	// An empty completion is a failure, not a vacuous success.
	if text == "" {
		return "", fmt.Errorf("no completion in response")
	}

	return text, nil
}

// encodeImageToDataURL re-encodes the decoded pixels as JPEG and wraps
// them in a base64 data URL. JPEG is the single transport format sent to
// the model regardless of the original container; transparency and
// metadata are dropped.
func encodeImageToDataURL(img *imaging.DecodedImage) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img.Pixels, nil); err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
