package service

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/dddeeprog/NutrientTracker/internal/model"
)

type AISessionInput struct {
	Provider   string
	Model      string
	PromptHash string
	ResultJSON string
	Note       string
}

func RecordAISession(db *sql.DB, in AISessionInput) (string, error) {
	id := uuid.NewString()
	_, err := db.Exec(`
INSERT INTO ai_sessions(id, created_at, provider, model, prompt_hash, result_json, note)
VALUES(?, ?, ?, ?, ?, ?, ?)
`, id, time.Now().UTC().Format(time.RFC3339), strings.TrimSpace(in.Provider), strings.TrimSpace(in.Model),
		in.PromptHash, in.ResultJSON, nullableString(in.Note))
	if err != nil {
		return "", fmt.Errorf("record ai session: %w", err)
	}
	return id, nil
}

// ListAISessions returns the most recent sessions first; limit <= 0 means 20.
func ListAISessions(db *sql.DB, limit int) ([]model.AISession, error) {
	if limit <= 0 {
		limit = 20
	}
	query, args, err := sq.Select(
		"id", "created_at", "IFNULL(provider, '')", "IFNULL(model, '')",
		"IFNULL(prompt_hash, '')", "IFNULL(result_json, '')", "IFNULL(note, '')",
	).
		From("ai_sessions").
		OrderBy("created_at DESC", "rowid DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ai sessions query: %w", err)
	}
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ai sessions: %w", err)
	}
	defer rows.Close()

	out := make([]model.AISession, 0)
	for rows.Next() {
		var s model.AISession
		var createdAtRaw string
		if err := rows.Scan(&s.ID, &createdAtRaw, &s.Provider, &s.Model, &s.PromptHash, &s.ResultJSON, &s.Note); err != nil {
			return nil, fmt.Errorf("scan ai session: %w", err)
		}
		createdAt, err := time.Parse(time.RFC3339, createdAtRaw)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for ai session %s: %w", s.ID, err)
		}
		s.CreatedAt = createdAt
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ai sessions: %w", err)
	}
	return out, nil
}

// PromptHash is the hex SHA-256 of the user text sent to the model.
func PromptHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
