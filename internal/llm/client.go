package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cognicore/chorus/pkg/chorus"
)

// Prompt limits keep the request small on large batches.
const (
	promptKeywords = 15
	promptInsights = 10
	promptExamples = 3
)

// Client calls an OpenAI-compatible chat completion endpoint.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string

	HTTPClient *http.Client
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Report asks the model for a written summary of an analysis result.
// topic names the discussion the comments came from.
func (c *Client) Report(ctx context.Context, topic string, res chorus.Result) (string, error) {
	system := "You are a community feedback analyst. Summarize ONLY what the provided statistics and insights support. Do not invent numbers."
	user := formatPrompt(topic, res)
	return c.Chat(ctx, system, user)
}

func (c *Client) Chat(ctx context.Context, system, user string) (string, error) {
	if c.BaseURL == "" || c.Model == "" {
		return "", fmt.Errorf("llm: base URL and model required")
	}
	messages := []chatMessage{{Role: "system", Content: system}, {Role: "user", Content: user}}
	payload, err := c.send(ctx, messages)
	if err != nil {
		return "", err
	}
	if len(payload.Choices) == 0 {
		return "", fmt.Errorf("llm: empty response")
	}
	return payload.Choices[0].Message.Content, nil
}

func (c *Client) send(ctx context.Context, messages []chatMessage) (*chatResponse, error) {
	reqBody, err := json.Marshal(chatRequest{Model: c.Model, Messages: messages})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	var payload chatResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("llm: status %d", resp.StatusCode)
		}
		return nil, err
	}
	if payload.Error != nil {
		return nil, fmt.Errorf("llm error: %s", payload.Error.Message)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("llm: status %d", resp.StatusCode)
	}
	return &payload, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 60 * time.Second}
}

func formatPrompt(topic string, res chorus.Result) string {
	var buf bytes.Buffer
	if topic != "" {
		fmt.Fprintf(&buf, "Discussion: %s\n", topic)
	}

	s := res.Sentiment
	fmt.Fprintf(&buf, "Comments analyzed: %d\n", s.Total())
	fmt.Fprintf(&buf, "Sentiment: %d%% positive, %d%% negative, %d%% neutral\n",
		s.PositivePercent, s.NegativePercent, s.NeutralPercent)

	if len(res.Keywords) > 0 {
		fmt.Fprintf(&buf, "\nTop keywords:\n")
		for i, kw := range res.Keywords {
			if i == promptKeywords {
				break
			}
			fmt.Fprintf(&buf, "- %s (%d mentions, %s)\n", kw.Word, kw.Count, kw.Sentiment)
		}
	}

	if len(res.Insights) > 0 {
		bodies := make(map[string]string, len(res.Comments))
		for _, c := range res.Comments {
			bodies[c.ID] = c.Body
		}

		fmt.Fprintf(&buf, "\nInsights:\n")
		for i, in := range res.Insights {
			if i == promptInsights {
				break
			}
			fmt.Fprintf(&buf, "%d. [%s] %s (%d comments, confidence %.2f)\n", i+1, in.Type, in.Title, in.Count, in.Confidence)
			for j, id := range in.RelatedComments {
				if j == promptExamples {
					break
				}
				if body, ok := bodies[id]; ok {
					fmt.Fprintf(&buf, "   > %s\n", body)
				}
			}
		}
	}

	fmt.Fprintf(&buf, "\nWrite a short report: overall mood, the main pain points, requested features and what users like.\n")
	return buf.String()
}
