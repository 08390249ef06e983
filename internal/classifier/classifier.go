package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// prompt is the fixed yes/no question sent with every image.
const prompt = "Is this image a payment QR code? Answer exactly yes or no."

// Screener asks the external multimodal classification service whether an
// uploaded image is a payment QR code. Only an exact affirmative reply
// approves the upload; any other reply, a non-2xx status, or a transport
// error rejects it. Fail closed.
type Screener struct {
	endpoint string
	client   *http.Client
	log      *slog.Logger
}

func NewScreener(endpoint string, log *slog.Logger) *Screener {
	if log == nil {
		log = slog.Default()
	}
	return &Screener{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
		log:      log,
	}
}

type classifyRequest struct {
	Prompt      string `json:"prompt"`
	ImageBase64 string `json:"image_base64"`
}

type classifyResponse struct {
	Answer string `json:"answer"`
}

// Approve reports whether the service confirmed the image. Never returns
// an error: every failure mode is a rejection.
func (s *Screener) Approve(ctx context.Context, imageBase64 string) bool {
	if s.endpoint == "" {
		return false
	}
	body, err := json.Marshal(classifyRequest{Prompt: prompt, ImageBase64: imageBase64})
	if err != nil {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn("classifier call failed, rejecting upload", "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.log.Warn("classifier returned non-2xx, rejecting upload", "status", resp.StatusCode)
		return false
	}
	var out classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false
	}
	return strings.TrimSpace(strings.ToLower(out.Answer)) == "yes"
}
