package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// minOllamaContext is the smallest context window requested from Ollama.
// Its own default of 2048 tokens cuts off prompts that quote site files.
const minOllamaContext = 4096

// OllamaProvider talks to a local Ollama server over its chat API.
type OllamaProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaProvider creates a provider for the Ollama server at baseURL.
// model is used when a request names none.
func NewOllamaProvider(baseURL string, model string) *OllamaProvider {
	return &OllamaProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: 10 * time.Minute},
	}
}

func (p *OllamaProvider) Name() string { return "ollama" }

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options,omitempty"`
	Format   string          `json:"format,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
	NumCtx      int     `json:"num_ctx,omitempty"`
}

type ollamaChatResponse struct {
	Message         ollamaMessage `json:"message"`
	Model           string        `json:"model"`
	DoneReason      string        `json:"done_reason"`
	PromptEvalCount int           `json:"prompt_eval_count"`
	EvalCount       int           `json:"eval_count"`
	Error           string        `json:"error"`
}

// ollamaRequest maps req onto the chat API. The context window is sized to
// hold the estimated prompt plus the requested output.
func ollamaRequest(req CompletionRequest, defaultModel string) ollamaChatRequest {
	out := ollamaChatRequest{
		Model:    req.Model,
		Messages: make([]ollamaMessage, len(req.Messages)),
		Options: ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	}
	if out.Model == "" {
		out.Model = defaultModel
	}
	if req.JSONMode {
		out.Format = "json"
	}

	prompt := 0
	for i, m := range req.Messages {
		out.Messages[i] = ollamaMessage{Role: string(m.Role), Content: m.Content}
		prompt += EstimateTokens(m.Content)
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	out.Options.NumCtx = max(minOllamaContext, prompt+maxTokens)
	return out
}

func (p *OllamaProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	body, err := json.Marshal(ollamaRequest(req, p.model))
	if err != nil {
		return nil, fmt.Errorf("encoding ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating ollama request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading ollama response: %w", err)
	}

	var chat ollamaChatResponse
	decodeErr := json.Unmarshal(respBody, &chat)

	if httpResp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(respBody))
		if decodeErr == nil && chat.Error != "" {
			msg = chat.Error
		}
		return nil, &StatusError{Provider: "ollama", StatusCode: httpResp.StatusCode, Body: msg}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decoding ollama response: %w", decodeErr)
	}
	if chat.Error != "" {
		return nil, fmt.Errorf("ollama: %s", chat.Error)
	}

	return &CompletionResponse{
		Content:      chat.Message.Content,
		InputTokens:  chat.PromptEvalCount,
		OutputTokens: chat.EvalCount,
		Model:        chat.Model,
		FinishReason: chat.DoneReason,
	}, nil
}
