package vision

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequestShape(t *testing.T) {
	t.Parallel()

	req := BuildRequest("vision-test", "data:image/jpeg;base64,AAAA", "lunch plate")

	require.Len(t, req.Messages, 2)
	assert.Equal(t, "vision-test", req.Model)
	assert.Zero(t, req.Temperature)

	system := req.Messages[0]
	assert.Equal(t, "system", system.Role)
	require.Len(t, system.Content, 1)
	assert.Equal(t, rolePreamble+"\n\n"+schemaInstruction, system.Content[0].Text)

	user := req.Messages[1]
	assert.Equal(t, "user", user.Role)
	require.Len(t, user.Content, 2)
	assert.Equal(t, "text", user.Content[0].Type)
	assert.Equal(t, "lunch plate\n"+schemaInstruction, user.Content[0].Text)
	assert.Equal(t, "image_url", user.Content[1].Type)
	require.NotNil(t, user.Content[1].ImageURL)
	assert.Equal(t, "data:image/jpeg;base64,AAAA", user.Content[1].ImageURL.URL)
}

func TestBuildRequestBlankNoteUsesDefault(t *testing.T) {
	t.Parallel()

	req := BuildRequest("m", "data:image/jpeg;base64,", "   ")
	assert.True(t, strings.HasPrefix(req.Messages[1].Content[0].Text, defaultUserNote+"\n"))
}

func TestSchemaInstructionNamesEveryKey(t *testing.T) {
	t.Parallel()

	for _, key := range []string{
		"items", "serving_context", "error_margin_pct", "advice",
		"name", "estimated_weight_g", "confidence", "notes",
		"calories_kcal", "protein_g", "carbs_g", "fat_g", "fiber_g",
		"sugar_g", "sodium_mg", "calcium_mg", "iron_mg", "vitamin_c_mg",
	} {
		assert.Contains(t, schemaInstruction, key)
	}
}

func TestChatRequestWireFormat(t *testing.T) {
	t.Parallel()

	payload, err := json.Marshal(BuildRequest("m", "data:image/jpeg;base64,QQ==", "x"))
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(payload, &wire))
	assert.Equal(t, float64(0), wire["temperature"])

	messages := wire["messages"].([]any)
	system := messages[0].(map[string]any)["content"].([]any)[0].(map[string]any)
	assert.NotContains(t, system, "image_url")

	imagePart := messages[1].(map[string]any)["content"].([]any)[1].(map[string]any)
	assert.Equal(t, "image_url", imagePart["type"])
	assert.NotContains(t, imagePart, "text")
	assert.Equal(t, "data:image/jpeg;base64,QQ==", imagePart["image_url"].(map[string]any)["url"])
}

func TestDataURI(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "data:image/jpeg;base64,/9j/", DataURI([]byte{0xff, 0xd8, 0xff}))
}
