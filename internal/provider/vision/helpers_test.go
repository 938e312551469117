package vision

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"

	"github.com/dddeeprog/NutrientTracker/internal/model"
)

const testEndpoint = "https://ai.example.test/v1/chat/completions"

func testSetting() model.ProviderSetting {
	return model.ProviderSetting{
		Provider: "moonshot",
		APIKey:   "sk-test-key",
		Model:    "vision-test",
		Endpoint: testEndpoint,
	}
}

// newMockClient returns a Client whose transport is an isolated httpmock transport.
func newMockClient(t *testing.T) (*Client, *httpmock.MockTransport) {
	t.Helper()
	mt := httpmock.NewMockTransport()
	return NewClientWithHTTP(&http.Client{Transport: mt}), mt
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func completionBody(t *testing.T, content string) string {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"id": "chatcmpl-1",
		"choices": []map[string]any{
			{"index": 0, "message": map[string]any{"role": "assistant", "content": content}},
		},
	})
	require.NoError(t, err)
	return string(payload)
}

const mealJSON = `{
  "items": [
    {"name": "Rice", "estimated_weight_g": 150, "confidence": 0.9, "notes": "steamed",
     "calories_kcal": 195, "protein_g": 4, "carbs_g": 42, "fat_g": 0.4},
    {"name": "Egg", "estimated_weight_g": 50, "confidence": 0.8,
     "calories_kcal": 72, "protein_g": 6.3, "fat_g": 4.8, "vitamin_c_mg": 0}
  ],
  "serving_context": "one bowl",
  "error_margin_pct": 15,
  "advice": "add vegetables"
}`
