package nutri

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dddeeprog/NutrientTracker/internal/service"
)

const flowDate = "2026-01-02"

func TestFoodEntryTodayFlow(t *testing.T) {
	path := testDBPath(t)
	mustRunCLI(t, "--db", path, "food", "add", "--name", "Oats", "--serving", "40",
		"--calories_kcal", "380", "--protein_g", "13", "--carbs_g", "67", "--fat_g", "7")

	out := mustRunCLI(t, "--db", path, "entry", "add", "--food", "Oats", "--grams", "50", "--date", flowDate)
	assert.Contains(t, out, "Day total: 190.0 kcal | P 6.5g | C 33.5g | F 3.5g")

	out = mustRunCLI(t, "--db", path, "entry", "add", "--food", "Oats", "--servings", "1", "--date", flowDate)
	assert.Contains(t, out, "40.0 g Oats")

	out = mustRunCLI(t, "--db", path, "today", "--date", flowDate, "--json")
	var report service.DayReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, flowDate, report.Date)
	assert.Equal(t, 2, report.EntryCount)
	require.Len(t, report.Nutrients, 10)
	assert.InDelta(t, 342.0, report.Nutrients[0].Total, 1e-9)
	require.NotNil(t, report.CaloriesLeft)
	assert.InDelta(t, 1658.0, *report.CaloriesLeft, 1e-9)
	assert.False(t, report.MacrosMet)

	out = mustRunCLI(t, "--db", path, "today", "--date", flowDate)
	assert.Contains(t, out, "Remaining: 1658.0 kcal")
}

func TestEntryAddRequiresExactlyOneAmount(t *testing.T) {
	path := testDBPath(t)
	mustRunCLI(t, "--db", path, "food", "add", "--name", "Apple", "--calories_kcal", "52")

	_, err := runCLI(t, "--db", path, "entry", "add", "--food", "Apple")
	require.Error(t, err)
	_, err = runCLI(t, "--db", path, "entry", "add", "--food", "Apple", "--grams", "10", "--servings", "1")
	require.Error(t, err)
	_, err = runCLI(t, "--db", path, "entry", "add", "--food", "Pear", "--grams", "10")
	require.Error(t, err)
}

func TestCelebrationPrintedOnlyOnTransition(t *testing.T) {
	path := testDBPath(t)
	mustRunCLI(t, "--db", path, "goal", "set", "--reset",
		"--calories_kcal", "100", "--protein_g", "1", "--carbs_g", "1", "--fat_g", "1")

	add := func(kcal string) string {
		return mustRunCLI(t, "--db", path, "custom", "add", "--label", "Snack", "--date", flowDate,
			"--calories_kcal", kcal, "--protein_g", "1", "--carbs_g", "1", "--fat_g", "1")
	}
	assert.NotContains(t, add("60"), celebrationLine)
	assert.Contains(t, add("50"), celebrationLine)
	assert.NotContains(t, add("10"), celebrationLine)
}

func TestGoalSetKeepsUnchangedTargets(t *testing.T) {
	path := testDBPath(t)
	out := mustRunCLI(t, "--db", path, "goal", "set", "--protein_g", "150", "--clear", "sugar_g")
	assert.Contains(t, out, "Saved goal")

	out = mustRunCLI(t, "--db", path, "goal", "show", "--json")
	var targets map[string]*float64
	require.NoError(t, json.Unmarshal([]byte(out), &targets))
	require.NotNil(t, targets["protein_g"])
	assert.Equal(t, 150.0, *targets["protein_g"])
	require.NotNil(t, targets["calories_kcal"])
	assert.Equal(t, 2000.0, *targets["calories_kcal"])
	assert.Nil(t, targets["sugar_g"])

	_, err := runCLI(t, "--db", path, "goal", "set")
	require.Error(t, err)
	_, err = runCLI(t, "--db", path, "goal", "set", "--clear", "bogus")
	require.Error(t, err)
}

func TestExportCSVToStdoutAndFile(t *testing.T) {
	path := testDBPath(t)
	mustRunCLI(t, "--db", path, "food", "add", "--name", "Rice", "--calories_kcal", "130", "--carbs_g", "28")
	mustRunCLI(t, "--db", path, "entry", "add", "--food", "Rice", "--grams", "200", "--date", flowDate)
	mustRunCLI(t, "--db", path, "custom", "add", "--label", "Latte", "--calories_kcal", "120", "--date", flowDate, "--notes", "oat, large")

	out := mustRunCLI(t, "--db", path, "export", "csv", "--date", flowDate, "--out", "-")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "goal_id,kcal_goal,type,label,amount_g,calories_kcal"))
	assert.True(t, strings.HasPrefix(lines[1], "1,2000.0,food,Rice,200.0,260.00,0.00,56.00"))
	assert.True(t, strings.HasPrefix(lines[2], "1,2000.0,custom,Latte,,120.00"))
	assert.True(t, strings.HasSuffix(lines[2], `"oat, large"`))

	target := filepath.Join(t.TempDir(), "day.csv")
	out = mustRunCLI(t, "--db", path, "export", "csv", "--date", flowDate, "--out", target)
	assert.Contains(t, out, "Exported 2 rows")
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(string(data)), strings.Join(lines, "\n"))
}

func TestTrendDenseJSON(t *testing.T) {
	path := testDBPath(t)
	mustRunCLI(t, "--db", path, "custom", "add", "--label", "A", "--calories_kcal", "300", "--date", "2026-01-01")
	mustRunCLI(t, "--db", path, "custom", "add", "--label", "B", "--calories_kcal", "200", "--date", "2026-01-01")
	mustRunCLI(t, "--db", path, "custom", "add", "--label", "Old", "--calories_kcal", "999", "--date", "2025-12-20")

	out := mustRunCLI(t, "--db", path, "trend", "--end", "2026-01-03", "--json")
	var sparse []service.TrendPoint
	require.NoError(t, json.Unmarshal([]byte(out), &sparse))
	require.Len(t, sparse, 1)
	assert.Equal(t, 500.0, sparse[0].Totals.CaloriesKcal)

	out = mustRunCLI(t, "--db", path, "trend", "--end", "2026-01-03", "--dense", "--json")
	var dense []service.TrendPoint
	require.NoError(t, json.Unmarshal([]byte(out), &dense))
	require.Len(t, dense, 7)
	assert.Equal(t, "2025-12-28", dense[0].Date)
	assert.Equal(t, "2026-01-03", dense[6].Date)

	out = mustRunCLI(t, "--db", path, "trend", "--end", "2026-01-03", "--nutrient", "calories_kcal")
	assert.Contains(t, out, "2026-01-01")
	_, err := runCLI(t, "--db", path, "trend", "--nutrient", "zinc_mg")
	require.Error(t, err)
}

func TestProviderCommandsMaskKeys(t *testing.T) {
	path := testDBPath(t)
	out := mustRunCLI(t, "--db", path, "provider", "set", "moonshot", "--key", "sk-secret-9876", "--model", "m1", "--endpoint", "https://x.test/v1")
	assert.Contains(t, out, "**********9876")
	assert.NotContains(t, out, "sk-secret")

	mustRunCLI(t, "--db", path, "provider", "set", "moonshot", "--model", "m2")
	out = mustRunCLI(t, "--db", path, "provider", "list")
	assert.Contains(t, out, "m2")
	assert.Contains(t, out, "https://x.test/v1")
	assert.NotContains(t, out, "sk-secret")

	mustRunCLI(t, "--db", path, "provider", "delete", "moonshot")
	_, err := runCLI(t, "--db", path, "provider", "delete", "moonshot")
	require.Error(t, err)
}

func TestAIAnalyzeAddsSelectedItems(t *testing.T) {
	content := `Here you go: {"items": [
  {"name": "Rice", "estimated_weight_g": 150, "confidence": 0.9, "notes": "steamed", "calories_kcal": 195, "carbs_g": 42},
  {"name": "Egg", "estimated_weight_g": 50, "confidence": 0.8, "calories_kcal": 72, "protein_g": 6.3}
], "advice": "add greens"}`
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		payload, _ := json.Marshal(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"role": "assistant", "content": content}}},
		})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(payload)
	}))
	defer ts.Close()

	path := testDBPath(t)
	imgPath := writePNG(t)
	mustRunCLI(t, "--db", path, "provider", "set", "moonshot", "--key", "sk-test", "--model", "vision", "--endpoint", ts.URL)

	out := mustRunCLI(t, "--db", path, "ai", "analyze", imgPath, "--provider", "moonshot", "--select", "1,1,7", "--date", flowDate)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Contains(t, out, "Rice")
	assert.Contains(t, out, "Advice: add greens")
	assert.Contains(t, out, "Added 1 custom entries")

	out = mustRunCLI(t, "--db", path, "custom", "list", "--date", flowDate)
	assert.Contains(t, out, "Egg")
	assert.Contains(t, out, "AI:moonshot")
	assert.NotContains(t, out, "Rice")

	out = mustRunCLI(t, "--db", path, "ai", "sessions")
	assert.Contains(t, out, "moonshot")
	assert.Contains(t, out, "vision")
}

func TestAIAnalyzeRequiresConfiguredProvider(t *testing.T) {
	path := testDBPath(t)
	imgPath := writePNG(t)

	_, err := runCLI(t, "--db", path, "ai", "analyze", imgPath)
	require.Error(t, err)
	_, err = runCLI(t, "--db", path, "ai", "analyze", imgPath, "--provider", "nobody")
	require.Error(t, err)
}

func writePNG(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 10), B: 90, A: 255})
		}
	}
	p := filepath.Join(t.TempDir(), "meal.png")
	f, err := os.Create(p)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return p
}
