package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/questforge/questforge/internal/metrics"
)

const (
	defaultImageWidth  = 1024
	defaultImageHeight = 1024

	comfyPollInterval = 2 * time.Second
	comfyPollTimeout  = 3 * time.Minute
)

// ComfyUIService implements ImageService against a ComfyUI server using
// its HTTP prompt/history/view API.
type ComfyUIService struct {
	baseURL    string
	clientID   string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ImageService = (*ComfyUIService)(nil)

// NewComfyUIService creates a ComfyUI-backed image service. address is
// host:port of the ComfyUI server.
func NewComfyUIService(address string, logger *slog.Logger) *ComfyUIService {
	return &ComfyUIService{
		baseURL:  "http://" + address,
		clientID: uuid.NewString(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Render queues a txt2img workflow, waits for it to finish, and returns
// the first output image.
func (s *ComfyUIService) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	promptID, err := s.queuePrompt(ctx, req)
	if err != nil {
		metrics.ImagesGenerated.WithLabelValues("error").Inc()
		return nil, err
	}

	output, err := s.waitForOutput(ctx, promptID)
	if err != nil {
		metrics.ImagesGenerated.WithLabelValues("error").Inc()
		return nil, err
	}

	img, err := s.fetchImage(ctx, output)
	if err != nil {
		metrics.ImagesGenerated.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.ImagesGenerated.WithLabelValues("success").Inc()
	return img, nil
}

// workflow builds the minimal txt2img node graph: checkpoint loader,
// positive/negative CLIP encodes, empty latent, KSampler, VAE decode,
// and image save.
func workflow(req RenderRequest) map[string]any {
	width, height := req.Width, req.Height
	if width <= 0 {
		width = defaultImageWidth
	}
	if height <= 0 {
		height = defaultImageHeight
	}

	return map[string]any{
		"3": map[string]any{
			"class_type": "KSampler",
			"inputs": map[string]any{
				"model":        []any{"4", 0},
				"positive":     []any{"6", 0},
				"negative":     []any{"7", 0},
				"latent_image": []any{"5", 0},
				"seed":         rand.Int64N(1 << 62),
				"steps":        req.Steps,
				"cfg":          req.CFGScale,
				"sampler_name": "euler",
				"scheduler":    "normal",
				"denoise":      1.0,
			},
		},
		"4": map[string]any{
			"class_type": "CheckpointLoaderSimple",
			"inputs":     map[string]any{"ckpt_name": req.Model},
		},
		"5": map[string]any{
			"class_type": "EmptyLatentImage",
			"inputs": map[string]any{
				"width":      width,
				"height":     height,
				"batch_size": 1,
			},
		},
		"6": map[string]any{
			"class_type": "CLIPTextEncode",
			"inputs": map[string]any{
				"text": req.PositivePrompt,
				"clip": []any{"4", 1},
			},
		},
		"7": map[string]any{
			"class_type": "CLIPTextEncode",
			"inputs": map[string]any{
				"text": req.NegativePrompt,
				"clip": []any{"4", 1},
			},
		},
		"8": map[string]any{
			"class_type": "VAEDecode",
			"inputs": map[string]any{
				"samples": []any{"3", 0},
				"vae":     []any{"4", 2},
			},
		},
		"9": map[string]any{
			"class_type": "SaveImage",
			"inputs": map[string]any{
				"images":          []any{"8", 0},
				"filename_prefix": "questforge",
			},
		},
	}
}

func (s *ComfyUIService) queuePrompt(ctx context.Context, req RenderRequest) (string, error) {
	body, err := json.Marshal(map[string]any{
		"prompt":    workflow(req),
		"client_id": s.clientID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal workflow: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/prompt", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("comfyui queue failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var queued struct {
		PromptID string `json:"prompt_id"`
	}
	if err := json.Unmarshal(respBody, &queued); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if queued.PromptID == "" {
		return "", fmt.Errorf("%w: missing prompt_id", ErrMalformedResponse)
	}
	return queued.PromptID, nil
}

// imageRef identifies one generated image on the ComfyUI server.
type imageRef struct {
	Filename  string `json:"filename"`
	Subfolder string `json:"subfolder"`
	Type      string `json:"type"`
}

// waitForOutput polls the history endpoint until the prompt has
// produced an image or the poll window expires.
func (s *ComfyUIService) waitForOutput(ctx context.Context, promptID string) (*imageRef, error) {
	deadline := time.Now().Add(comfyPollTimeout)

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled while waiting for comfyui: %w", ctx.Err())
		case <-time.After(comfyPollInterval):
		}

		ref, done, err := s.checkHistory(ctx, promptID)
		if err != nil {
			return nil, err
		}
		if done {
			return ref, nil
		}
	}

	return nil, fmt.Errorf("comfyui prompt %s did not complete in time", promptID)
}

func (s *ComfyUIService) checkHistory(ctx context.Context, promptID string) (*imageRef, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/history/"+promptID, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read history body: %w", err)
	}

	var history map[string]struct {
		Outputs map[string]struct {
			Images []imageRef `json:"images"`
		} `json:"outputs"`
	}
	if err := json.Unmarshal(body, &history); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	entry, ok := history[promptID]
	if !ok {
		return nil, false, nil // still running
	}
	for _, out := range entry.Outputs {
		if len(out.Images) > 0 {
			return &out.Images[0], true, nil
		}
	}
	return nil, false, fmt.Errorf("comfyui prompt %s finished with no images", promptID)
}

func (s *ComfyUIService) fetchImage(ctx context.Context, ref *imageRef) ([]byte, error) {
	q := url.Values{}
	q.Set("filename", ref.Filename)
	q.Set("subfolder", ref.Subfolder)
	q.Set("type", ref.Type)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/view?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("comfyui view failed with status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
