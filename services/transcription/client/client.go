// Package client speaks to the ASR collaborator: an external
// whisper-style service that turns an audio file into timestamped
// transcript segments.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/callsight/backend/services/analysis/entity"
)

type Client interface {
	Transcribe(ctx context.Context, audioPath string) (*entity.Transcript, error)
}

type wireWord struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type wireSegment struct {
	Text  string     `json:"text"`
	Start float64    `json:"start"`
	End   float64    `json:"end"`
	Words []wireWord `json:"words,omitempty"`
}

type wireResponse struct {
	Segments []wireSegment `json:"segments"`
	Text     string        `json:"text"`
	Language string        `json:"language"`
}

type HTTP struct {
	baseURL string
	c       *http.Client
}

func NewHTTP(baseURL string, timeout time.Duration) *HTTP {
	return &HTTP{
		baseURL: baseURL,
		c:       &http.Client{Timeout: timeout},
	}
}

// Transcribe uploads the audio file as multipart form data and decodes
// the timestamped transcript. This is the pipeline's single suspend
// point; the request honors ctx cancellation.
func (h *HTTP) Transcribe(ctx context.Context, audioPath string) (*entity.Transcript, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	fw, err := w.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, err
	}
	fd, err := os.Open(audioPath)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	if _, err = io.Copy(fw, fd); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/transcribe", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("asr request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("asr %s: %s", resp.Status, string(b))
	}

	var out wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("asr decode: %w", err)
	}

	return toTranscript(&out), nil
}

func toTranscript(resp *wireResponse) *entity.Transcript {
	t := &entity.Transcript{
		Text:     resp.Text,
		Language: resp.Language,
		Segments: make([]entity.Segment, 0, len(resp.Segments)),
	}
	for _, s := range resp.Segments {
		seg := entity.Segment{
			Text:  s.Text,
			Start: s.Start,
			End:   s.End,
		}
		for _, w := range s.Words {
			seg.Words = append(seg.Words, entity.Word{Text: w.Text, Start: w.Start, End: w.End})
		}
		t.Segments = append(t.Segments, seg)
	}
	return t
}
