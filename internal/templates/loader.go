package templates

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lunyk/kindred/internal/models"
)

// Column headers of the template CSV format.
const (
	colNavType  = "Navigation type"
	colCategory = "Category"
	colEnabled  = "Is enabled"
	colURL      = "URL"
	colComment  = "Comment"
)

// ParseFile reads one template CSV file into rows.
func ParseFile(f File, logger *slog.Logger) ([]models.TemplateRow, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("templates: open %s: %w", f.Name, err)
	}
	defer fh.Close()
	return Parse(fh, f, logger)
}

// Parse reads template rows from r. Rows missing a required column are
// skipped with a warning; a row whose navigation type is "*" or a comma
// list expands to one row per type.
func Parse(r io.Reader, f File, logger *slog.Logger) ([]models.TemplateRow, error) {
	if logger == nil {
		logger = slog.Default()
	}
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("templates: read header of %s: %w", f.Name, err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}

	field := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []models.TemplateRow
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("templates: read %s: %w", f.Name, err)
		}

		navRaw := field(row, colNavType)
		category := field(row, colCategory)
		enabledRaw := field(row, colEnabled)
		url := field(row, colURL)
		comment := field(row, colComment)

		if navRaw == "" || category == "" || enabledRaw == "" || url == "" {
			logger.Warn("templates: skipping incomplete row",
				slog.String("file", f.Name),
				slog.Any("row", row))
			continue
		}

		for _, nav := range expandNavTypes(navRaw) {
			out = append(out, models.TemplateRow{
				NavType:  nav,
				Locale:   f.Locale,
				Category: category,
				Enabled:  isTrue(enabledRaw),
				URL:      url,
				Comment:  comment,
				IsCustom: f.Custom,
			})
		}
	}
	return out, nil
}

// expandNavTypes parses the navigation type column: "*" means every
// supported type, otherwise a comma-separated list. Unknown names are
// dropped.
func expandNavTypes(raw string) []models.NavType {
	if strings.TrimSpace(raw) == "*" {
		return models.AllNavTypes
	}
	var out []models.NavType
	for _, part := range strings.Split(raw, ",") {
		if nav, ok := models.ParseNavType(part); ok {
			out = append(out, nav)
		}
	}
	return out
}

func isTrue(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
