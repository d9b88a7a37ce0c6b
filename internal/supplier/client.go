package supplier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"supplycraft/internal/negotiation"
)

// ErrNoContent is returned when the model answers with no usable text.
var ErrNoContent = errors.New("supplier: model returned no content")

// Config points the client at an OpenAI-compatible chat completions
// endpoint. An empty APIKey disables the client entirely.
type Config struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:        "https://api.openai.com/v1",
		Model:          "gpt-4o-mini",
		TimeoutSeconds: 30,
	}
}

// Enabled reports whether the remote model should be used at all.
func (c Config) Enabled() bool { return c.APIKey != "" }

// Client talks to an OpenAI-compatible chat completions API.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultConfig().BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultConfig().Model
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = DefaultConfig().TimeoutSeconds
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, msgs []chatMessage, maxTokens int, temperature float64) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:       c.cfg.Model,
		Messages:    msgs,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error %d: %s", resp.StatusCode, raw)
	}

	var cr completionResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(cr.Choices) == 0 || strings.TrimSpace(cr.Choices[0].Message.Content) == "" {
		return "", ErrNoContent
	}
	return cr.Choices[0].Message.Content, nil
}

var (
	decisionRe = regexp.MustCompile(`(?i)DECISION:\s*(accept|reject)`)
	messageRe  = regexp.MustCompile(`(?is)MESSAGE:\s*(.+?)(?:\n|$)`)
)

// Evaluate asks the model to accept or reject a first proposal. A low
// temperature keeps verdicts consistent across similar proposals.
func (c *Client) Evaluate(ctx context.Context, req EvalContext) (Evaluation, error) {
	out, err := c.complete(ctx, []chatMessage{
		{Role: "system", Content: "You are a supplier evaluating contract proposals. Be educational and helpful."},
		{Role: "user", Content: evaluationPrompt(req)},
	}, 150, 0.3)
	if err != nil {
		return Evaluation{}, err
	}

	dm := decisionRe.FindStringSubmatch(out)
	mm := messageRe.FindStringSubmatch(out)
	if dm == nil || mm == nil {
		return Evaluation{}, fmt.Errorf("unparseable evaluation: %.80q", out)
	}

	return Evaluation{
		Decision: Decision(strings.ToLower(dm[1])),
		Message:  CleanMessage(mm[1]),
	}, nil
}

// chatEnvelope is the structured reply format the system prompt asks
// the model to produce.
type chatEnvelope struct {
	Response            string          `json:"response"`
	Contract            json.RawMessage `json:"contract"`
	NegotiationComplete bool            `json:"negotiation_complete"`
}

// Chat runs one negotiation turn against the model.
func (c *Client) Chat(ctx context.Context, req ChatContext) (ChatReply, error) {
	msgs := []chatMessage{{Role: "system", Content: systemPrompt(req)}}

	// Only the tail of the transcript goes to the model.
	transcript := req.Messages
	if len(transcript) > chatContextLimit {
		transcript = transcript[len(transcript)-chatContextLimit:]
	}
	for _, m := range transcript {
		role := "assistant"
		if m.Role == RoleStudent {
			role = "user"
		}
		msgs = append(msgs, chatMessage{Role: role, Content: m.Content})
	}

	if studentMayHaveAgreed(req.Messages) && req.Draft == nil {
		msgs = append(msgs, chatMessage{Role: "user", Content: agreementCheckPrompt(req.ContractType)})
	}

	out, err := c.complete(ctx, msgs, 350, 0.7)
	if err != nil {
		return ChatReply{}, err
	}
	return parseChatReply(out)
}

var fenceTrimRe = regexp.MustCompile("(?m)^```(?:json)?\\s*|```\\s*$")

func parseChatReply(out string) (ChatReply, error) {
	clean := strings.TrimSpace(fenceTrimRe.ReplaceAllString(strings.TrimSpace(out), ""))

	var env chatEnvelope
	if err := json.Unmarshal([]byte(clean), &env); err != nil || strings.TrimSpace(env.Response) == "" {
		// Not the structured envelope. Keep the conversation alive and
		// let the extractor chain scavenge any terms from the prose.
		reply := ChatReply{Message: CleanMessage(out)}
		if cand, ok := negotiation.ExtractCandidate(out); ok {
			reply.Candidate = &cand
		}
		if reply.Message == "" {
			return ChatReply{}, ErrNoContent
		}
		return reply, nil
	}

	reply := ChatReply{
		Message:  CleanMessage(env.Response),
		Complete: env.NegotiationComplete,
	}
	if len(env.Contract) > 0 && string(env.Contract) != "null" {
		if cand, ok := negotiation.ExtractCandidate(string(env.Contract)); ok {
			reply.Candidate = &cand
		}
	}
	return reply, nil
}

var agreementIndicators = []string{
	"sounds good", "that works", "yes", "yeah", "ok", "okay", "sure",
	"lock in", "lock it in", "accept", "deal", "agreed", "let's proceed",
}

func studentMayHaveAgreed(msgs []Message) bool {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role != RoleStudent {
			continue
		}
		content := strings.ToLower(msgs[i].Content)
		for _, phrase := range agreementIndicators {
			if strings.Contains(content, phrase) {
				return true
			}
		}
		return false
	}
	return false
}
