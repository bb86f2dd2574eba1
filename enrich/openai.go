package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"go.azadstudio.dev/pulsefeed/internal/types"
	"go.azadstudio.dev/pulsefeed/langdetect"
)

// OpenAI implements Provider on the official SDK. Audio goes through
// the transcription endpoint; translation and summaries go through
// chat completions.
type OpenAI struct {
	client    openai.Client
	chatModel openai.ChatModel
}

// NewOpenAI creates an OpenAI provider with the given API key.
func NewOpenAI(apiKey string) *OpenAI {
	return &OpenAI{
		client:    openai.NewClient(option.WithAPIKey(apiKey)),
		chatModel: openai.ChatModelGPT4o,
	}
}

const translatePromptFormat = "Translate the following text into Hindi, Urdu, and Telugu. " +
	"Respond with only a JSON object of the form " +
	`{"original": string, "hindi": string, "urdu": string, "telugu": string} ` +
	"where original is the input text verbatim.\n\nText: %q"

// complete performs one chat completion and returns the response text.
func (o *OpenAI) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: o.chatModel,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", networkErr(fmt.Errorf("chat completion: %w", err))
	}
	if len(resp.Choices) == 0 {
		return "", providerErr(fmt.Errorf("no choices returned"))
	}
	return resp.Choices[0].Message.Content, nil
}

// completeResult runs a completion expected to yield a result payload.
func (o *OpenAI) completeResult(ctx context.Context, prompt string) (resultPayload, error) {
	text, err := o.complete(ctx, prompt)
	if err != nil {
		return resultPayload{}, err
	}

	// Models occasionally fence their JSON even when told not to.
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.Trim(text, "`\n ")

	var payload resultPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return resultPayload{}, providerErr(fmt.Errorf("unmarshal payload: %w", err))
	}
	return payload, nil
}

func (o *OpenAI) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (types.EnrichmentResult, error) {
	tctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	transcription, err := o.client.Audio.Transcriptions.New(tctx, openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(audio), "audio.webm", mimeType),
		Model: openai.AudioModelWhisper1,
	})
	if err != nil {
		return types.EnrichmentResult{}, networkErr(fmt.Errorf("transcribe audio: %w", err))
	}
	if transcription.Text == "" {
		return types.EnrichmentResult{}, providerErr(fmt.Errorf("empty transcription"))
	}

	result, err := o.TranslateText(ctx, transcription.Text)
	if err != nil {
		return types.EnrichmentResult{}, err
	}
	result.DetectedLanguage, _ = langdetect.Detect(result.Original)
	return result, nil
}

func (o *OpenAI) TranscribeVideo(ctx context.Context, mediaURL string) (types.EnrichmentResult, error) {
	prompt := fmt.Sprintf("Analyze the audio track of the video at %s and transcribe its spoken "+
		"content, describing the video if it cannot be analyzed. Respond with only a JSON object "+
		`of the form {"original": string, "hindi": string, "urdu": string, "telugu": string} `+
		"where hindi, urdu and telugu are translations of original.", mediaURL)

	payload, err := o.completeResult(ctx, prompt)
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

func (o *OpenAI) TranslateText(ctx context.Context, text string) (types.EnrichmentResult, error) {
	payload, err := o.completeResult(ctx, fmt.Sprintf(translatePromptFormat, text))
	if err != nil {
		return types.EnrichmentResult{}, err
	}

	payload.Original = text
	if err := payload.validate(); err != nil {
		return types.EnrichmentResult{}, providerErr(err)
	}

	return payload.toResult(), nil
}

func (o *OpenAI) Summarize(ctx context.Context, texts []string) (string, error) {
	prompt := "Summarize the following channel messages into a concise daily update bullet list:\n\n" +
		strings.Join(texts, "\n---\n")
	return o.complete(ctx, prompt)
}
