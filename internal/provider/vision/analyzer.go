package vision

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dddeeprog/NutrientTracker/internal/model"
)

type AnalyzeInput struct {
	Image   io.Reader
	Note    string
	Setting model.ProviderSetting
}

type Analysis struct {
	RequestID  string
	Provider   string
	Model      string
	UserPrompt string
	Raw        string
	Result     AIResult
	Duration   time.Duration
}

// Analyzer runs compress, send and parse for one image at a time.
type Analyzer struct {
	client *Client
	image  ImageOptions
	logger *slog.Logger
	busy   sync.Mutex
}

func NewAnalyzer(client *Client, image ImageOptions, logger *slog.Logger) *Analyzer {
	if client == nil {
		client = NewClient(ClientOptions{})
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{client: client, image: image, logger: logger}
}

func ValidateSetting(s model.ProviderSetting) error {
	var missing []string
	if strings.TrimSpace(s.APIKey) == "" {
		missing = append(missing, "api key")
	}
	if strings.TrimSpace(s.Model) == "" {
		missing = append(missing, "model")
	}
	if strings.TrimSpace(s.Endpoint) == "" {
		missing = append(missing, "endpoint")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: provider %q is missing %s", ErrInvalidSetting, s.Provider, strings.Join(missing, ", "))
	}
	return nil
}

// Analyze returns ErrAnalysisInProgress immediately when another call is running.
// A response without choices or with unparseable text yields an empty result, not an error.
func (a *Analyzer) Analyze(ctx context.Context, in AnalyzeInput) (Analysis, error) {
	if !a.busy.TryLock() {
		return Analysis{}, ErrAnalysisInProgress
	}
	defer a.busy.Unlock()

	if err := ValidateSetting(in.Setting); err != nil {
		return Analysis{}, err
	}
	if in.Image == nil {
		return Analysis{}, fmt.Errorf("image is required")
	}

	out := Analysis{
		RequestID:  uuid.NewString(),
		Provider:   in.Setting.Provider,
		Model:      in.Setting.Model,
		UserPrompt: UserPrompt(in.Note),
	}
	log := a.logger.With("request_id", out.RequestID, "provider", out.Provider, "model", out.Model)
	start := time.Now()

	jpegBytes, err := CompressImage(ctx, in.Image, a.image)
	if err != nil {
		return Analysis{}, fmt.Errorf("prepare image: %w", err)
	}
	log.Debug("image compressed", "bytes", len(jpegBytes))

	req := BuildRequest(in.Setting.Model, DataURI(jpegBytes), in.Note)
	raw, err := a.client.Send(ctx, in.Setting.Endpoint, in.Setting.APIKey, req)
	out.Duration = time.Since(start)
	switch {
	case errors.Is(err, ErrNoChoices):
		log.Warn("ai response carried no choices", "duration", out.Duration)
		out.Result = AIResult{Items: []AIItem{}}
		return out, nil
	case err != nil:
		log.Error("ai request failed", "duration", out.Duration, "error", err)
		return Analysis{}, err
	}

	out.Raw = raw
	out.Result = ParseResponse(raw)
	if out.Result.Empty() {
		log.Warn("ai response yielded no result", "duration", out.Duration, "raw_bytes", len(raw))
	} else {
		log.Info("ai analysis finished", "duration", out.Duration, "items", len(out.Result.Items))
	}
	return out, nil
}
