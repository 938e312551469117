package nutri

import (
	"database/sql"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dddeeprog/NutrientTracker/internal/app"
	"github.com/dddeeprog/NutrientTracker/internal/db"
	"github.com/dddeeprog/NutrientTracker/internal/model"
)

func withDB(run func(*sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	return run(sqldb)
}

func parseInt64Arg(name, value string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be > 0", name)
	}
	return v, nil
}

func dateOrToday(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Now().Format("2006-01-02"), nil
	}
	if _, err := time.ParseInLocation("2006-01-02", date, time.Local); err != nil {
		return "", fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", date)
	}
	return date, nil
}

// parseSelection turns "0,2, 3" into indices. Blank input selects nothing.
func parseSelection(value string) ([]int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		idx, err := strconv.Atoi(p)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("invalid --select index %q", p)
		}
		out = append(out, idx)
	}
	return out, nil
}

// nutrientFlags registers one float flag per nutrient key, e.g. --calories_kcal.
type nutrientFlags map[model.NutrientKey]*float64

func addNutrientFlags(fs *pflag.FlagSet, suffix string) nutrientFlags {
	out := nutrientFlags{}
	for _, key := range model.NutrientKeys {
		meta, _ := model.MetaFor(key)
		v := new(float64)
		fs.Float64Var(v, string(key), 0, fmt.Sprintf("%s (%s)%s", meta.Label, meta.Unit, suffix))
		out[key] = v
	}
	return out
}

func (n nutrientFlags) vector() model.NutrientVector {
	var v model.NutrientVector
	for key, p := range n {
		v.Set(key, *p)
	}
	return v
}

func (n nutrientFlags) changed(cmd *cobra.Command) []model.NutrientKey {
	out := make([]model.NutrientKey, 0)
	for key := range n {
		if cmd.Flags().Changed(string(key)) {
			out = append(out, key)
		}
	}
	sort.Slice(out, func(i, j int) bool { return keyIndex(out[i]) < keyIndex(out[j]) })
	return out
}

func keyIndex(key model.NutrientKey) int {
	for i, k := range model.NutrientKeys {
		if k == key {
			return i
		}
	}
	return len(model.NutrientKeys)
}

func printVector(w io.Writer, v model.NutrientVector) {
	for _, key := range model.NutrientKeys {
		meta, _ := model.MetaFor(key)
		fmt.Fprintf(w, "  %-10s %10.2f %s\n", meta.Label, v.Get(key), meta.Unit)
	}
}

func macroLine(v model.NutrientVector) string {
	return fmt.Sprintf("%.1f kcal | P %.1fg | C %.1fg | F %.1fg", v.CaloriesKcal, v.ProteinG, v.CarbsG, v.FatG)
}

func progressBar(ratio float64, width int) string {
	filled := int(ratio*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
