package audio

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"smart-tutor-pipeline/config"
	"smart-tutor-pipeline/logger"
)

// ErrNoAudio means the speech provider returned no audio payload.
// Generation aborts: a script without narration cannot be timed.
var ErrNoAudio = errors.New("speech provider returned no audio payload")

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"

// Track is the synthesized narration: the playable WAV container on disk
// plus its exact duration derived from the PCM sample count.
type Track struct {
	Path        string
	WAV         []byte
	DurationSec float64
}

// Synthesizer converts the concatenated script text into a single narration
// track via the Gemini speech model.
type Synthesizer struct {
	apiKey     string
	model      string
	voice      string
	endpoint   string
	httpClient *http.Client
}

// New creates a Synthesizer.
func New(apiKey string, cfg config.Speech) *Synthesizer {
	return &Synthesizer{
		apiKey:     apiKey,
		model:      cfg.GeminiModel,
		voice:      cfg.Voice,
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type ttsRequest struct {
	Contents         []ttsContent           `json:"contents"`
	GenerationConfig map[string]interface{} `json:"generationConfig"`
}

type ttsContent struct {
	Parts []ttsPart `json:"parts"`
}

type ttsPart struct {
	Text string `json:"text"`
}

type ttsResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				InlineData struct {
					Data string `json:"data"`
				} `json:"inlineData"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Synthesize requests raw s16le/24kHz mono PCM for the full narration text,
// wraps it in a WAV container and writes it under outDir.
func (s *Synthesizer) Synthesize(ctx context.Context, fullText, outDir string) (*Track, error) {
	logger.Info("generating narration", logger.Int("chars", len(fullText)))

	reqBody := ttsRequest{
		Contents: []ttsContent{{Parts: []ttsPart{{Text: fullText}}}},
		GenerationConfig: map[string]interface{}{
			"responseModalities": []string{"AUDIO"},
			"speechConfig": map[string]interface{}{
				"voiceConfig": map[string]interface{}{
					"prebuiltVoiceConfig": map[string]interface{}{"voiceName": s.voice},
				},
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", s.endpoint, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read speech response: %w", err)
	}

	var parsed ttsResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return nil, fmt.Errorf("parse speech response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("speech provider: %s", parsed.Error.Message)
	}

	b64 := ""
	if len(parsed.Candidates) > 0 && len(parsed.Candidates[0].Content.Parts) > 0 {
		b64 = parsed.Candidates[0].Content.Parts[0].InlineData.Data
	}
	if b64 == "" {
		return nil, ErrNoAudio
	}

	pcm, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: undecodable payload", ErrNoAudio)
	}
	if len(pcm) == 0 {
		return nil, ErrNoAudio
	}

	wav := EncodeWAV(pcm)
	path := filepath.Join(outDir, "narration.wav")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}
	if err := os.WriteFile(path, wav, 0644); err != nil {
		return nil, fmt.Errorf("write narration: %w", err)
	}

	track := &Track{Path: path, WAV: wav, DurationSec: PCMDuration(pcm)}
	logger.Info("narration ready",
		logger.String("path", path),
		logger.Float64("seconds", track.DurationSec))
	return track, nil
}
