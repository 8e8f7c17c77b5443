package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
)

// VoiceEntryService turns spoken phrases like "expense 90000 food" into
// a record draft the client can confirm before submitting.
type VoiceEntryService struct {
	client *speech.Client
}

type TranscribeRequest struct {
	Audio        string `json:"audio" validate:"required"`
	Encoding     string `json:"encoding"`
	SampleRate   int    `json:"sample_rate"`
	LanguageCode string `json:"language_code"`
}

type TranscribeResponse struct {
	Transcript string       `json:"transcript"`
	Confidence float32      `json:"confidence"`
	Duration   float64      `json:"duration_seconds"`
	Draft      *RecordDraft `json:"draft,omitempty"`
}

// RecordDraft is the structured guess parsed out of a transcript.
type RecordDraft struct {
	Mode     string `json:"mode"`
	Value    int64  `json:"value"`
	Category string `json:"category"`
}

func NewVoiceEntryService() *VoiceEntryService {
	ctx := context.Background()
	client, err := speech.NewClient(ctx)
	if err != nil {
		log.Printf("Warning: Failed to initialize speech client: %v", err)
		return &VoiceEntryService{client: nil}
	}
	return &VoiceEntryService{client: client}
}

func (s *VoiceEntryService) TranscribeAudio(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	maxBytes := 10 * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req TranscribeRequest
	if err := dec.Decode(&req); err != nil {
		SendErrorResponse(w, "Invalid request", http.StatusBadRequest, nil)
		return
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}

	if req.Audio == "" {
		SendErrorResponse(w, "Audio is required", http.StatusBadRequest, nil)
		return
	}

	if req.Encoding == "" {
		req.Encoding = "LINEAR16"
	}
	if req.SampleRate == 0 {
		req.SampleRate = 16000
	}
	if req.LanguageCode == "" {
		req.LanguageCode = "en-US"
	}

	startTime := time.Now()
	transcript, confidence, err := s.Transcribe(r.Context(), req)
	duration := time.Since(startTime).Seconds()

	if err != nil {
		log.Printf("[VOICE] Transcription failed for user %s: %v", userID, err)
		SendErrorResponse(w, "Failed to transcribe audio", http.StatusInternalServerError, nil)
		return
	}

	log.Printf("[VOICE] Transcription successful for user %s, confidence: %.2f", userID, confidence)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TranscribeResponse{
		Transcript: transcript,
		Confidence: confidence,
		Duration:   duration,
		Draft:      ParseRecordDraft(transcript),
	})
}

func (s *VoiceEntryService) Transcribe(ctx context.Context, req TranscribeRequest) (string, float32, error) {
	if s.client == nil {
		return s.mockTranscribe(req)
	}

	audioBytes, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil {
		return "", 0, fmt.Errorf("failed to decode audio: %w", err)
	}

	if len(audioBytes) == 0 {
		return "", 0, errors.New("audio data is empty")
	}

	encoding, err := parseEncoding(req.Encoding)
	if err != nil {
		return "", 0, err
	}

	speechReq := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   encoding,
			SampleRateHertz:            int32(req.SampleRate),
			LanguageCode:               req.LanguageCode,
			EnableAutomaticPunctuation: true,
			Model:                      "latest_long",
			UseEnhanced:                true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{
				Content: audioBytes,
			},
		},
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := s.client.Recognize(timeoutCtx, speechReq)
	if err != nil {
		return "", 0, fmt.Errorf("recognition failed: %w", err)
	}

	if len(resp.Results) == 0 {
		return "", 0, errors.New("no transcription results")
	}

	var transcript strings.Builder
	var totalConfidence float32
	var count int

	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			alternative := result.Alternatives[0]
			transcript.WriteString(alternative.Transcript)
			transcript.WriteString(" ")
			totalConfidence += alternative.Confidence
			count++
		}
	}

	if count == 0 {
		return "", 0, errors.New("no alternatives in results")
	}

	avgConfidence := totalConfidence / float32(count)
	finalTranscript := strings.TrimSpace(transcript.String())
	return finalTranscript, avgConfidence, nil
}

// ParseRecordDraft scans a transcript for "<mode> <value> <category>".
// Word order is free; the first mode keyword, first integer and first
// remaining word win. Returns nil when no mode or value is present.
func ParseRecordDraft(transcript string) *RecordDraft {
	draft := &RecordDraft{}
	filler := map[string]bool{"on": true, "for": true, "of": true, "a": true, "an": true, "the": true, "my": true, "i": true}

	for _, word := range strings.Fields(strings.ToLower(transcript)) {
		word = strings.Trim(word, ".,!?")
		if word == "" || filler[word] {
			continue
		}
		switch {
		case draft.Mode == "" && (word == ModeExpense || word == "spent" || word == "spend" || word == "paid"):
			draft.Mode = ModeExpense
		case draft.Mode == "" && (word == ModeIncome || word == "earned" || word == "received"):
			draft.Mode = ModeIncome
		case draft.Value == 0:
			if v, err := strconv.ParseInt(strings.ReplaceAll(word, ",", ""), 10, 64); err == nil && v > 0 {
				draft.Value = v
			}
		case draft.Category == "":
			draft.Category = word
		}
	}

	if draft.Mode == "" || draft.Value == 0 {
		return nil
	}
	return draft
}

func parseEncoding(encoding string) (speechpb.RecognitionConfig_AudioEncoding, error) {
	switch strings.ToUpper(encoding) {
	case "LINEAR16":
		return speechpb.RecognitionConfig_LINEAR16, nil
	case "FLAC":
		return speechpb.RecognitionConfig_FLAC, nil
	case "MULAW":
		return speechpb.RecognitionConfig_MULAW, nil
	case "AMR":
		return speechpb.RecognitionConfig_AMR, nil
	case "AMR_WB":
		return speechpb.RecognitionConfig_AMR_WB, nil
	case "OGG_OPUS":
		return speechpb.RecognitionConfig_OGG_OPUS, nil
	case "SPEEX_WITH_HEADER_BYTE":
		return speechpb.RecognitionConfig_SPEEX_WITH_HEADER_BYTE, nil
	case "WEBM_OPUS":
		return speechpb.RecognitionConfig_WEBM_OPUS, nil
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, fmt.Errorf("unsupported encoding: %s", encoding)
	}
}

func (s *VoiceEntryService) mockTranscribe(req TranscribeRequest) (string, float32, error) {
	audioBytes, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil {
		return "", 0, fmt.Errorf("failed to decode audio: %w", err)
	}

	if len(audioBytes) == 0 {
		return "", 0, errors.New("audio data is empty")
	}

	return "Mock transcription: expense 500 food", 0.95, nil
}

func (s *VoiceEntryService) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
