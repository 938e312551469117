package vision

import (
	"encoding/base64"
	"strings"
)

const (
	rolePreamble = "# Role: Nutrition analysis expert\n" +
		"You are a professional nutrition analysis assistant. Analyse the image strictly and return a structured result."

	schemaInstruction = "Output strictly UTF-8 JSON containing only the keys: items (list), serving_context (string), " +
		"error_margin_pct (number), advice (string). " +
		"Each items[i] contains: name, estimated_weight_g, confidence (0-1), notes, " +
		"and calories_kcal, protein_g, carbs_g, fat_g, fiber_g, sugar_g, sodium_mg, calcium_mg, iron_mg, vitamin_c_mg " +
		"(values are totals for the estimated portion, not per 100 g)."

	defaultUserNote = "Identify the food in the image, estimate the weight in grams and return structured JSON."
)

type ImageURL struct {
	URL string `json:"url"`
}

type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type Message struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ChatRequest is the chat-completion body. Temperature is serialised even when zero.
type ChatRequest struct {
	Model       string    `json:"model"`
	Temperature float64   `json:"temperature"`
	Messages    []Message `json:"messages"`
}

func SystemPrompt() string {
	return rolePreamble + "\n\n" + schemaInstruction
}

// UserPrompt falls back to the default instruction when note is blank.
func UserPrompt(note string) string {
	if strings.TrimSpace(note) == "" {
		note = defaultUserNote
	}
	return note + "\n" + schemaInstruction
}

func BuildRequest(model, imageDataURI, userNote string) ChatRequest {
	return ChatRequest{
		Model:       model,
		Temperature: 0,
		Messages: []Message{
			{
				Role:    "system",
				Content: []ContentPart{{Type: "text", Text: SystemPrompt()}},
			},
			{
				Role: "user",
				Content: []ContentPart{
					{Type: "text", Text: UserPrompt(userNote)},
					{Type: "image_url", ImageURL: &ImageURL{URL: imageDataURI}},
				},
			},
		},
	}
}

func DataURI(jpeg []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpeg)
}
