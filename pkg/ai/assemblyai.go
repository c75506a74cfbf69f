package ai

import (
	"context"
	"fmt"
	"os"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"go.uber.org/zap"

	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/domain/entities"
	"github.com/DIZ-admin/meeting-minutes-generator-v2/pkg/config"
	"github.com/DIZ-admin/meeting-minutes-generator-v2/pkg/transcript"
)

// Transcriber turns remote audio recordings into transcript segments
// using the official AssemblyAI SDK.
type Transcriber struct {
	client *aai.Client
	logger *zap.Logger
}

// NewTranscriber creates a Transcriber using the provided config.
// If cfg is nil, falls back to environment variables.
func NewTranscriber(cfg *config.AssemblyAIConfig, logger *zap.Logger) *Transcriber {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}
	return &Transcriber{
		client: aai.NewClient(apiKey),
		logger: logger,
	}
}

// TranscribeURL submits the audio URL with speaker diarization and
// blocks until the transcript is ready.
func (t *Transcriber) TranscribeURL(ctx context.Context, audioURL, language string) ([]entities.TranscriptSegment, error) {
	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
	}
	if language != "" {
		params.LanguageCode = aai.TranscriptLanguageCode(language)
	} else {
		params.LanguageDetection = aai.Bool(true)
	}

	result, err := t.client.Transcripts.TranscribeFromURL(ctx, audioURL, params)
	if err != nil {
		return nil, fmt.Errorf("assemblyai transcription failed: %w", err)
	}
	if result.Status == aai.TranscriptStatusError {
		msg := "unknown error"
		if result.Error != nil {
			msg = *result.Error
		}
		return nil, fmt.Errorf("assemblyai transcription failed: %s", msg)
	}

	segments := make([]entities.TranscriptSegment, 0, len(result.Utterances))
	for _, utt := range result.Utterances {
		seg := entities.TranscriptSegment{}
		if utt.Text != nil {
			seg.Text = *utt.Text
		}
		if utt.Speaker != nil {
			seg.Speaker = transcript.NormalizeSpeaker("speaker_" + *utt.Speaker)
		}
		if utt.Start != nil {
			seg.Start = float64(*utt.Start) / 1000.0 // ms to seconds
		}
		if utt.End != nil {
			seg.End = float64(*utt.End) / 1000.0
		}
		if seg.Text == "" {
			continue
		}
		segments = append(segments, seg)
	}

	// Without diarization the transcript arrives as a single blob.
	if len(segments) == 0 && result.Text != nil && *result.Text != "" {
		segments = transcript.FromPlainText(*result.Text)
	}

	if t.logger != nil {
		t.logger.Info("✅ Transcription completed",
			zap.String("audio_url", audioURL),
			zap.Int("segments", len(segments)))
	}
	return segments, nil
}
