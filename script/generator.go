package script

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"smart-tutor-pipeline/config"
	"smart-tutor-pipeline/logger"
	"smart-tutor-pipeline/types"
)

// ErrMalformedScript means the model response did not parse as the expected
// segment array. The caller aborts generation; there is no automatic retry.
var ErrMalformedScript = errors.New("script response is not a segment array")

// ErrProvider means the language-model call itself failed.
var ErrProvider = errors.New("script provider request failed")

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"

// Generator writes explainer scripts with Gemini. The model is instructed
// to answer with nothing but a JSON array of {text, query} objects.
type Generator struct {
	apiKey     string
	model      string
	count      int
	endpoint   string
	httpClient *http.Client
}

// New creates a script Generator.
func New(apiKey string, cfg config.Script) *Generator {
	return &Generator{
		apiKey:     apiKey,
		model:      cfg.GeminiModel,
		count:      cfg.SegmentCount,
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig map[string]interface{} `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate writes the script for a topic and validates its shape.
func (g *Generator) Generate(ctx context.Context, topic string) ([]types.Segment, error) {
	logger.Info("writing script", logger.String("topic", topic))

	prompt := g.buildPrompt(topic)
	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: map[string]interface{}{
			"responseMimeType": "application/json",
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", g.endpoint, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return nil, fmt.Errorf("%w: unreadable response", ErrProvider)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrProvider, parsed.Error.Message)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: no candidates", ErrProvider)
	}

	content := cleanJSON(parsed.Candidates[0].Content.Parts[0].Text)

	var segments []types.Segment
	if err := json.Unmarshal([]byte(content), &segments); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedScript, err)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: empty array", ErrMalformedScript)
	}
	for i, s := range segments {
		if strings.TrimSpace(s.Text) == "" && strings.TrimSpace(s.Query) == "" {
			return nil, fmt.Errorf("%w: segment %d is blank", ErrMalformedScript, i)
		}
	}

	logger.Info("script ready", logger.Int("segments", len(segments)))
	return segments, nil
}

func (g *Generator) buildPrompt(topic string) string {
	var sb strings.Builder
	sb.WriteString("You are a documentary director. Explain the topic ")
	sb.WriteString(fmt.Sprintf("%q in %d short scenes.\n", topic, g.count))
	sb.WriteString("Respond with ONLY a JSON array. Each element has:\n")
	sb.WriteString("1. \"text\": the narration sentence (engaging, short).\n")
	sb.WriteString("2. \"query\": an English search phrase describing the scene (for finding a video/image).\n")
	sb.WriteString(`Format: [{"text": "...", "query": "..."}, ...]`)
	return sb.String()
}

// cleanJSON strips markdown fences in case the model wraps its answer in
// ```json ... ``` despite the JSON response mime type.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
