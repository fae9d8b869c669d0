package review

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

	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/Birukzex/NCS/internal/domain"
)

// ChatRole identifies the author of a chat turn.
type ChatRole string

const (
	RoleUser  ChatRole = "user"
	RoleModel ChatRole = "model"
)

// ChatMessage is one turn of the clinician/collaborator conversation.
type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}

// Config holds the collaborator connection settings.
type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	Timeout   time.Duration
	RateLimit int // requests per second
	CacheSize int // completed reviews kept in memory
}

// Client talks to the AI review collaborator over its generateContent API.
// Calls go through a circuit breaker and a rate limiter; completed reviews
// are cached in memory keyed by prompt so an unchanged session doesn't spend
// another request.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	cache      *lru.Cache
	log        *logrus.Logger
}

// NewClient creates a collaborator client.
func NewClient(cfg Config, logger *logrus.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("review client: base URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 2
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 64
	}

	cache, err := lru.New(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("review client: failed to create cache: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ReviewCollaborator",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
		// A caller aborting its own stream is not a collaborator failure.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var cbErr *callbackError
			return errors.As(err, &cbErr)
		},
	})

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		breaker: breaker,
		cache:   cache,
		log:     logger,
	}, nil
}

// generateRequest is the collaborator's generateContent request body.
type generateRequest struct {
	SystemInstruction *contentPart `json:"systemInstruction,omitempty"`
	Contents          []content    `json:"contents"`
}

type content struct {
	Role  string        `json:"role,omitempty"`
	Parts []contentPart `json:"parts"`
}

type contentPart struct {
	Text string `json:"text"`
}

// generateResponse is the collaborator's reply envelope.
type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateReview formats the session and requests one completed review text.
// Errors come back as plain messages for reviewState.error; the engine never
// retries on the caller's behalf.
func (c *Client) GenerateReview(ctx context.Context, data *domain.PatientData) (string, error) {
	prompt := BuildReviewPrompt(data)

	if cached, ok := c.cache.Get(prompt); ok {
		c.log.Debug("Review served from cache")
		return cached.(string), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.generate(ctx, prompt)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return "", fmt.Errorf("review service unavailable, please try again later")
		}
		return "", fmt.Errorf("failed to get expert review: %w", err)
	}

	text := result.(string)
	c.cache.Add(prompt, text)
	return text, nil
}

// generate performs one generateContent call.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []contentPart{{Text: prompt}}},
		},
	}

	var resp generateResponse
	if err := c.post(ctx, c.endpoint("generateContent"), &reqBody, func(body io.Reader) error {
		return json.NewDecoder(body).Decode(&resp)
	}); err != nil {
		return "", err
	}

	if resp.Error != nil {
		return "", fmt.Errorf("collaborator error: %s", resp.Error.Message)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("collaborator returned an empty response")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// callbackError wraps an error returned by the stream callback so it can be
// told apart from a transport or collaborator failure.
type callbackError struct {
	err error
}

func (e *callbackError) Error() string { return e.err.Error() }

func (e *callbackError) Unwrap() error { return e.err }

// StreamChat sends a chat turn with the prior transcript and delivers reply
// fragments to fn in arrival order. fn returning an error stops the stream.
func (c *Client) StreamChat(ctx context.Context, history []ChatMessage, message string, fn func(fragment string) error) error {
	reqBody := generateRequest{
		SystemInstruction: &contentPart{Text: SystemInstruction},
	}
	for _, m := range history {
		reqBody.Contents = append(reqBody.Contents, content{
			Role:  string(m.Role),
			Parts: []contentPart{{Text: m.Text}},
		})
	}
	reqBody.Contents = append(reqBody.Contents, content{
		Role:  "user",
		Parts: []contentPart{{Text: message}},
	})

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	// alt=sse makes the collaborator frame the stream as server-sent events;
	// without it the endpoint answers with one JSON array.
	url := c.endpoint("streamGenerateContent") + "?alt=sse"

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.post(ctx, url, &reqBody, func(body io.Reader) error {
			return c.consumeStream(body, fn)
		})
	})
	if err != nil {
		var cbErr *callbackError
		if errors.As(err, &cbErr) {
			return cbErr.err
		}
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return fmt.Errorf("chat service unavailable, please try again later")
		}
		return fmt.Errorf("failed to get chat response: %w", err)
	}
	return nil
}

// consumeStream reads reply chunks off the response body and hands each
// fragment to fn. The body is server-sent events when the collaborator honors
// alt=sse, or a plain JSON array of chunks when it does not; both framings
// are handled.
func (c *Client) consumeStream(body io.Reader, fn func(fragment string) error) error {
	br := bufio.NewReaderSize(body, 64*1024)

	first, err := peekNonSpace(br)
	if err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("failed to read stream: %w", err)
	}
	if first == '[' {
		return c.consumeJSONArray(br, fn)
	}
	return c.consumeSSE(br, fn)
}

// consumeSSE decodes one reply chunk per SSE data line.
func (c *Client) consumeSSE(body io.Reader, fn func(fragment string) error) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}

		var chunk generateResponse
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			return fmt.Errorf("malformed stream chunk: %w", err)
		}
		if err := c.deliverChunk(&chunk, fn); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// consumeJSONArray decodes the collaborator's non-SSE framing: a single JSON
// array holding one chunk per element.
func (c *Client) consumeJSONArray(body io.Reader, fn func(fragment string) error) error {
	dec := json.NewDecoder(body)

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("malformed stream response: %w", err)
	}
	for dec.More() {
		var chunk generateResponse
		if err := dec.Decode(&chunk); err != nil {
			return fmt.Errorf("malformed stream chunk: %w", err)
		}
		if err := c.deliverChunk(&chunk, fn); err != nil {
			return err
		}
	}
	return nil
}

// deliverChunk relays one chunk's fragment to fn, surfacing collaborator
// errors and skipping empty chunks.
func (c *Client) deliverChunk(chunk *generateResponse, fn func(fragment string) error) error {
	if chunk.Error != nil {
		return fmt.Errorf("collaborator error: %s", chunk.Error.Message)
	}
	if len(chunk.Candidates) == 0 || len(chunk.Candidates[0].Content.Parts) == 0 {
		return nil
	}
	if err := fn(chunk.Candidates[0].Content.Parts[0].Text); err != nil {
		return &callbackError{err: err}
	}
	return nil
}

// peekNonSpace returns the first non-whitespace byte without consuming it.
func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		if err := br.UnreadByte(); err != nil {
			return 0, err
		}
		return b, nil
	}
}

// endpoint builds the model method URL.
func (c *Client) endpoint(method string) string {
	return fmt.Sprintf("%s/v1beta/models/%s:%s", c.baseURL, c.model, method)
}

// post sends one JSON request and hands the response body to decode.
func (c *Client) post(ctx context.Context, url string, reqBody interface{}, decode func(io.Reader) error) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-goog-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("collaborator returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return decode(resp.Body)
}
