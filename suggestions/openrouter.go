package suggestions

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	stdlibtime "time"

	"github.com/goccy/go-json"
	"github.com/imroc/req/v3"
	"github.com/pkg/errors"

	"cadet_app_backend/quiz"
	"cadet_app_backend/scoring"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "openai/gpt-4"

	requestDeadline = 60 * stdlibtime.Second
	systemPrompt    = "You are a helpful assistant specialized in military career guidance."
)

var (
	ErrDisabled      = errors.New("suggestions are disabled")
	ErrEmptyResponse = errors.New("empty completion")
)

// Client produces free-text profession suggestions from raw answers.
type Client interface {
	Suggest(ctx context.Context, ds *quiz.Dataset, answers []scoring.Answer) (string, error)
}

type (
	OpenRouterClient struct {
		client      *req.Client
		apiKey      string
		model       string
		professions []scoring.Profession
	}
	chatMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	chatRequest struct {
		Model    string        `json:"model"`
		Messages []chatMessage `json:"messages"`
	}
	chatResponse struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error,omitempty"`
	}
	answerView struct {
		QuestionID string `json:"questionId"`
		Question   string `json:"question,omitempty"`
		OptionID   string `json:"optionId"`
		Answer     string `json:"answer,omitempty"`
	}
)

func NewOpenRouterClient(baseURL, apiKey, model string) *OpenRouterClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}

	return &OpenRouterClient{
		client: req.C().
			SetBaseURL(baseURL).
			SetTimeout(requestDeadline).
			SetJsonMarshal(json.Marshal).
			SetJsonUnmarshal(json.Unmarshal),
		apiKey:      apiKey,
		model:       model,
		professions: scoring.Default.Professions(),
	}
}

func (c *OpenRouterClient) Suggest(ctx context.Context, ds *quiz.Dataset, answers []scoring.Answer) (string, error) {
	if c.apiKey == "" {
		return "", ErrDisabled
	}
	prompt, err := c.buildPrompt(ds, answers)
	if err != nil {
		return "", err
	}

	var out chatResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBearerAuthToken(c.apiKey).
		SetBody(&chatRequest{
			Model: c.model,
			Messages: []chatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: prompt},
			},
		}).
		SetSuccessResult(&out).
		SetErrorResult(&out).
		Post("/chat/completions")
	if err != nil {
		return "", errors.Wrap(err, "failed to call completion endpoint")
	}
	if resp.GetStatusCode() != http.StatusOK {
		msg := resp.Status
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return "", errors.Errorf("completion endpoint returned %v: %v", resp.GetStatusCode(), msg)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}

	return out.Choices[0].Message.Content, nil
}

// buildPrompt lists the raw answers, resolved to their texts where possible,
// and the profession catalogue.
func (c *OpenRouterClient) buildPrompt(ds *quiz.Dataset, answers []scoring.Answer) (string, error) {
	views := make([]answerView, 0, len(answers))
	for _, a := range answers {
		v := answerView{QuestionID: a.QuestionID, OptionID: a.OptionID}
		for _, q := range ds.Questions {
			if q.ID != a.QuestionID {
				continue
			}
			v.Question = q.Text
			for _, o := range q.Options {
				if o.ID == a.OptionID {
					v.Answer = o.Text
				}
			}
		}
		views = append(views, v)
	}
	answersJSON, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to encode answers")
	}

	var catalogue strings.Builder
	for _, p := range c.professions {
		desc := ds.Descriptions[p]
		fmt.Fprintf(&catalogue, "%s: %s - %s\n", p, desc.Title, desc.Description)
	}

	return fmt.Sprintf(`Based on the following user answers to a military profession test, suggest the most suitable military professions.
Provide a brief explanation for each suggestion.

User Answers:
%s

Available Military Professions:
%s
Please provide your suggestions in the following format:
1. [Profession Key]: Brief explanation
2. [Profession Key]: Brief explanation
3. [Profession Key]: Brief explanation

Respond in Ukrainian language.`, answersJSON, catalogue.String()), nil
}
