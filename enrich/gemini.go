package enrich

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.azadstudio.dev/pulsefeed/internal/types"
	"go.azadstudio.dev/pulsefeed/langdetect"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultGeminiModel   = "gemini-2.5-flash"
)

// Gemini implements Provider against the Gemini generateContent API.
type Gemini struct {
	http    *http.Client
	apiKey  string
	baseURL string
	model   string
}

// NewGemini creates a Gemini provider with the given API key.
func NewGemini(apiKey string) *Gemini {
	return &Gemini{
		http:   &http.Client{},
		apiKey: apiKey,
		model:  defaultGeminiModel,
	}
}

// Gemini request/response types
type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig *geminiConfig   `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiConfig struct {
	ResponseMimeType string        `json:"responseMimeType,omitempty"`
	ResponseSchema   *geminiSchema `json:"responseSchema,omitempty"`
}

type geminiSchema struct {
	Type       string                  `json:"type"`
	Properties map[string]geminiSchema `json:"properties,omitempty"`
	Required   []string                `json:"required,omitempty"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
	Error      *geminiError      `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// resultSchema constrains the model to the fixed provider contract.
func resultSchema() *geminiSchema {
	str := geminiSchema{Type: "STRING"}
	return &geminiSchema{
		Type: "OBJECT",
		Properties: map[string]geminiSchema{
			"original": str,
			"hindi":    str,
			"urdu":     str,
			"telugu":   str,
		},
		Required: []string{"original", "hindi", "urdu", "telugu"},
	}
}

func (g *Gemini) endpoint() string {
	base := g.baseURL
	if base == "" {
		base = defaultGeminiBaseURL
	}
	return fmt.Sprintf("%s/%s:generateContent?key=%s", base, g.model, g.apiKey)
}

// generate performs one generateContent call and returns the first
// candidate's text.
func (g *Gemini) generate(ctx context.Context, reqBody geminiRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", providerErr(fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.endpoint(), bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", networkErr(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return "", networkErr(fmt.Errorf("do request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", networkErr(fmt.Errorf("read response: %w", err))
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", providerErr(fmt.Errorf("unmarshal response: %w", err))
	}

	if geminiResp.Error != nil {
		return "", providerErr(fmt.Errorf("api error: %d - %s", geminiResp.Error.Code, geminiResp.Error.Message))
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", providerErr(fmt.Errorf("no candidates returned"))
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

// generateResult runs a schema-constrained call and parses the payload.
func (g *Gemini) generateResult(ctx context.Context, parts []geminiPart) (resultPayload, error) {
	text, err := g.generate(ctx, geminiRequest{
		Contents: []geminiContent{{Parts: parts}},
		GenerationConfig: &geminiConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   resultSchema(),
		},
	})
	if err != nil {
		return resultPayload{}, err
	}

	var payload resultPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return resultPayload{}, providerErr(fmt.Errorf("unmarshal payload: %w", err))
	}
	return payload, nil
}

func (g *Gemini) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (types.EnrichmentResult, error) {
	parts := []geminiPart{
		{InlineData: &geminiInlineData{
			MimeType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(audio),
		}},
		{Text: "Transcribe the audio accurately. Automatically detect the language. " +
			"Return the transcription in the original language. Also provide translations " +
			"of the transcription into Hindi, Urdu, and Telugu. If the original language " +
			"is one of these, still provide it in the respective field."},
	}

	payload, err := g.generateResult(ctx, parts)
	if err != nil {
		return types.EnrichmentResult{}, err
	}
	if err := payload.validate(); err != nil {
		return types.EnrichmentResult{}, providerErr(err)
	}

	result := payload.toResult()
	result.DetectedLanguage, _ = langdetect.Detect(result.Original)
	return result, nil
}

func (g *Gemini) TranscribeVideo(ctx context.Context, mediaURL string) (types.EnrichmentResult, error) {
	parts := []geminiPart{
		{Text: fmt.Sprintf("Analyze the audio track of the video at %s and transcribe its "+
			"spoken content. Provide translations of the transcription into Hindi, Urdu, "+
			"and Telugu. If the content cannot be analyzed, describe the video instead.", mediaURL)},
	}

	payload, err := g.generateResult(ctx, parts)
	if err != nil {
		return types.EnrichmentResult{}, err
	}
	if err := payload.validate(); err != nil {
		return types.EnrichmentResult{}, providerErr(err)
	}

	result := payload.toResult()
	result.DetectedLanguage, _ = langdetect.Detect(result.Original)
	return result, nil
}

func (g *Gemini) TranslateText(ctx context.Context, text string) (types.EnrichmentResult, error) {
	parts := []geminiPart{
		{Text: fmt.Sprintf("Translate the following text into Hindi, Urdu, and Telugu.\n\nText: %q", text)},
	}

	payload, err := g.generateResult(ctx, parts)
	if err != nil {
		return types.EnrichmentResult{}, err
	}
	// Callers rely on round-tripping the exact input, not whatever the
	// model echoed back.
	payload.Original = text
	if err := payload.validate(); err != nil {
		return types.EnrichmentResult{}, providerErr(err)
	}

	return payload.toResult(), nil
}

func (g *Gemini) Summarize(ctx context.Context, texts []string) (string, error) {
	prompt := "Summarize the following channel messages into a concise daily update bullet list:\n\n" +
		strings.Join(texts, "\n---\n")

	text, err := g.generate(ctx, geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}
	return text, nil
}
