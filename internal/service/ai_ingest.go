package service

import (
	"database/sql"
	"fmt"

	"github.com/dddeeprog/NutrientTracker/internal/provider/vision"
)

const (
	aiNotePrefix   = "AI: "
	aiSourcePrefix = "AI:"
)

// AIDrafts maps the selected result items to custom entry drafts. Out-of-range
// indices are skipped and repeated indices are used once, in first-seen order.
func AIDrafts(result vision.AIResult, selected []int, providerLabel, date string) []CreateCustomEntryInput {
	seen := make(map[int]bool, len(selected))
	out := make([]CreateCustomEntryInput, 0, len(selected))
	for _, idx := range selected {
		if idx < 0 || idx >= len(result.Items) || seen[idx] {
			continue
		}
		seen[idx] = true
		item := result.Items[idx]
		out = append(out, CreateCustomEntryInput{
			Date:      date,
			Label:     item.Name,
			Nutrients: item.Nutrients,
			Notes:     aiNotePrefix + item.Notes,
			Source:    aiSourcePrefix + providerLabel,
		})
	}
	return out
}

// AllIndices selects every item of a result.
func AllIndices(result vision.AIResult) []int {
	out := make([]int, len(result.Items))
	for i := range out {
		out[i] = i
	}
	return out
}

// AddAIDrafts inserts each draft as a custom entry and returns the new ids.
func AddAIDrafts(db *sql.DB, drafts []CreateCustomEntryInput) ([]int64, error) {
	ids := make([]int64, 0, len(drafts))
	for _, d := range drafts {
		id, err := CreateCustomEntry(db, d)
		if err != nil {
			return ids, fmt.Errorf("add ai item %q: %w", d.Label, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// RecordAnalysis stores an analysis in ai_sessions. The result is kept in the
// model's flat output shape so vision.ParseResponse can read it back.
func RecordAnalysis(db *sql.DB, a vision.Analysis, note string) (string, error) {
	payload, err := vision.EncodeResult(a.Result)
	if err != nil {
		return "", err
	}
	return RecordAISession(db, AISessionInput{
		Provider:   a.Provider,
		Model:      a.Model,
		PromptHash: PromptHash(a.UserPrompt),
		ResultJSON: string(payload),
		Note:       note,
	})
}
