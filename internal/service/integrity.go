package service

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dddeeprog/NutrientTracker/internal/model"
)

type BackupInfo struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size_bytes"`
}

type DoctorReport struct {
	OrphanEntries     int `json:"orphan_entries"`
	InvalidDates      int `json:"invalid_dates"`
	NegativeValues    int `json:"negative_values"`
	NonPositiveAmount int `json:"non_positive_amount"`
	RemovedOrphans    int `json:"removed_orphans,omitempty"`
}

// NonPositiveAmount is informational: entries accept any amount.
func (r DoctorReport) Clean() bool {
	return r.OrphanEntries == 0 && r.InvalidDates == 0 && r.NegativeValues == 0
}

// CreateBackup writes a consistent snapshot of the open database to outPath
// with VACUUM INTO and stores its checksum next to it.
func CreateBackup(db *sql.DB, outPath string) (BackupInfo, error) {
	if strings.TrimSpace(outPath) == "" {
		return BackupInfo{}, fmt.Errorf("backup output path is required")
	}
	if _, err := os.Stat(outPath); err == nil {
		return BackupInfo{}, fmt.Errorf("backup %s already exists", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return BackupInfo{}, fmt.Errorf("create backup directory: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf(`VACUUM INTO '%s'`, strings.ReplaceAll(outPath, "'", "''"))); err != nil {
		return BackupInfo{}, fmt.Errorf("snapshot database: %w", err)
	}
	checksum, err := fileSHA256(outPath)
	if err != nil {
		return BackupInfo{}, err
	}
	if err := os.WriteFile(outPath+".sha256", []byte(checksum+"\n"), 0o644); err != nil {
		return BackupInfo{}, fmt.Errorf("write checksum file: %w", err)
	}
	st, err := os.Stat(outPath)
	if err != nil {
		return BackupInfo{}, fmt.Errorf("stat backup: %w", err)
	}
	return BackupInfo{Path: outPath, Checksum: checksum, CreatedAt: st.ModTime(), SizeBytes: st.Size()}, nil
}

// RestoreBackup copies backupPath over dbPath after verifying the stored checksum, if any.
func RestoreBackup(backupPath, dbPath string, force bool) error {
	if strings.TrimSpace(backupPath) == "" || strings.TrimSpace(dbPath) == "" {
		return fmt.Errorf("backup path and db path are required")
	}
	if !force {
		if _, err := os.Stat(dbPath); err == nil {
			return fmt.Errorf("target db already exists; use --force to overwrite")
		}
	}
	if expected, err := os.ReadFile(backupPath + ".sha256"); err == nil {
		actual, err := fileSHA256(backupPath)
		if err != nil {
			return err
		}
		if strings.TrimSpace(string(expected)) != actual {
			return fmt.Errorf("backup checksum mismatch")
		}
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	return copyFile(backupPath, dbPath)
}

// ListBackups returns *.db files in dir, newest first. A missing dir yields no backups.
func ListBackups(dir string) ([]BackupInfo, error) {
	files, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}
	out := make([]BackupInfo, 0)
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".db") {
			continue
		}
		full := filepath.Join(dir, f.Name())
		st, err := os.Stat(full)
		if err != nil {
			continue
		}
		checksum := ""
		if b, err := os.ReadFile(full + ".sha256"); err == nil {
			checksum = strings.TrimSpace(string(b))
		}
		out = append(out, BackupInfo{Path: full, Checksum: checksum, CreatedAt: st.ModTime(), SizeBytes: st.Size()})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// RunDoctor counts rows that break the ledger's invariants. With fix, entries
// whose food no longer exists are deleted; other findings are left for the user.
func RunDoctor(db *sql.DB, fix bool) (DoctorReport, error) {
	report := DoctorReport{}
	if err := db.QueryRow(`
SELECT COUNT(1) FROM entries e LEFT JOIN foods f ON f.id = e.food_id WHERE f.id IS NULL
`).Scan(&report.OrphanEntries); err != nil {
		return report, fmt.Errorf("doctor orphan check: %w", err)
	}
	if err := db.QueryRow(`
SELECT
  (SELECT COUNT(1) FROM entries WHERE date(eat_date) IS NULL OR date(eat_date) != eat_date) +
  (SELECT COUNT(1) FROM custom_entries WHERE date(eat_date) IS NULL OR date(eat_date) != eat_date)
`).Scan(&report.InvalidDates); err != nil {
		return report, fmt.Errorf("doctor date check: %w", err)
	}
	if err := db.QueryRow(`SELECT COUNT(1) FROM entries WHERE amount_g <= 0`).Scan(&report.NonPositiveAmount); err != nil {
		return report, fmt.Errorf("doctor amount check: %w", err)
	}

	negFoods := make([]string, 0, len(model.NutrientKeys))
	negCustoms := make([]string, 0, len(model.NutrientKeys))
	for _, key := range model.NutrientKeys {
		meta, _ := model.MetaFor(key)
		negFoods = append(negFoods, meta.Per100Column+" < 0")
		negCustoms = append(negCustoms, string(key)+" < 0")
	}
	if err := db.QueryRow(`
SELECT
  (SELECT COUNT(1) FROM foods WHERE ` + strings.Join(negFoods, " OR ") + `) +
  (SELECT COUNT(1) FROM custom_entries WHERE ` + strings.Join(negCustoms, " OR ") + `)
`).Scan(&report.NegativeValues); err != nil {
		return report, fmt.Errorf("doctor negative value check: %w", err)
	}

	if fix && report.OrphanEntries > 0 {
		res, err := db.Exec(`DELETE FROM entries WHERE food_id NOT IN (SELECT id FROM foods)`)
		if err != nil {
			return report, fmt.Errorf("doctor remove orphan entries: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return report, fmt.Errorf("read affected rows: %w", err)
		}
		report.RemovedOrphans = int(n)
	}
	return report, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	if err := out.Sync(); err != nil {
		return fmt.Errorf("sync destination file: %w", err)
	}
	return nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for checksum: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
