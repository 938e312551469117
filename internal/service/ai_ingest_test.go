package service_test

import (
	"testing"

	"github.com/dddeeprog/NutrientTracker/internal/model"
	"github.com/dddeeprog/NutrientTracker/internal/provider/vision"
	"github.com/dddeeprog/NutrientTracker/internal/service"
)

func sampleAIResult() vision.AIResult {
	return vision.AIResult{Items: []vision.AIItem{
		{Name: "Rice", Notes: "steamed", Nutrients: model.NutrientVector{CaloriesKcal: 195, CarbsG: 42}},
		{Name: "Egg", Nutrients: model.NutrientVector{CaloriesKcal: 72, ProteinG: 6.3}},
		{Name: "Broccoli", Notes: "side", Nutrients: model.NutrientVector{VitaminCMg: 80}},
	}}
}

func TestAIDraftsMapsSelectedItems(t *testing.T) {
	t.Parallel()

	drafts := service.AIDrafts(sampleAIResult(), []int{2, 0, 2, 7, -1}, "moonshot", "2026-02-10")

	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(drafts))
	}
	if drafts[0].Label != "Broccoli" || drafts[1].Label != "Rice" {
		t.Fatalf("expected selection order preserved, got %s, %s", drafts[0].Label, drafts[1].Label)
	}
	if drafts[0].Notes != "AI: side" || drafts[0].Source != "AI:moonshot" || drafts[0].Date != "2026-02-10" {
		t.Fatalf("unexpected draft: %+v", drafts[0])
	}
	if drafts[1].Nutrients.CaloriesKcal != 195 {
		t.Fatalf("expected item totals to be used unscaled, got %+v", drafts[1].Nutrients)
	}
}

func TestAIDraftsKeepsPrefixForEmptyNotes(t *testing.T) {
	t.Parallel()

	drafts := service.AIDrafts(sampleAIResult(), []int{1}, "deepseek", "")
	if len(drafts) != 1 || drafts[0].Notes != "AI: " {
		t.Fatalf("expected literal prefix for empty notes, got %+v", drafts)
	}
}

func TestAddAIDraftsPersistsCustomEntries(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	result := sampleAIResult()
	ids, err := service.AddAIDrafts(db, service.AIDrafts(result, service.AllIndices(result), "moonshot", "2026-02-10"))
	if err != nil {
		t.Fatalf("add ai drafts: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 ids, got %d", len(ids))
	}

	customs, err := service.CustomEntriesByDate(db, "2026-02-10")
	if err != nil {
		t.Fatalf("custom entries by date: %v", err)
	}
	byLabel := map[string]model.CustomEntry{}
	for _, c := range customs {
		byLabel[c.Label] = c
	}
	egg, ok := byLabel["Egg"]
	if !ok || egg.Notes != "AI: " || egg.Source != "AI:moonshot" {
		t.Fatalf("unexpected persisted egg entry: %+v", egg)
	}
}

func TestRecordAnalysisAndListSessions(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	analysis := vision.Analysis{
		Provider:   "moonshot",
		Model:      "vision-test",
		UserPrompt: "dinner\nschema",
		Result:     sampleAIResult(),
	}
	id, err := service.RecordAnalysis(db, analysis, "dinner")
	if err != nil {
		t.Fatalf("record analysis: %v", err)
	}
	if _, err := service.RecordAISession(db, service.AISessionInput{Provider: "deepseek"}); err != nil {
		t.Fatalf("record second session: %v", err)
	}

	sessions, err := service.ListAISessions(db, 10)
	if err != nil {
		t.Fatalf("list ai sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	var found *model.AISession
	for i := range sessions {
		if sessions[i].ID == id {
			found = &sessions[i]
		}
	}
	if found == nil {
		t.Fatalf("recorded session %s not listed", id)
	}
	if found.PromptHash != service.PromptHash("dinner\nschema") || len(found.PromptHash) != 64 {
		t.Fatalf("unexpected prompt hash %q", found.PromptHash)
	}
	stored := vision.ParseResponse(found.ResultJSON)
	if len(stored.Items) != 3 || stored.Items[0].Name != "Rice" {
		t.Fatalf("unexpected stored result: %+v", stored)
	}
	if !vectorsEqual(stored.Items[0].Nutrients, sampleAIResult().Items[0].Nutrients) {
		t.Fatalf("stored nutrients did not round-trip: %+v", stored.Items[0].Nutrients)
	}

	limited, err := service.ListAISessions(db, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("expected limit to apply, got %d sessions, err=%v", len(limited), err)
	}
}
