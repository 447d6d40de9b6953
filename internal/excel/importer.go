package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/example/verbbot/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath          string // Path to the Excel or CSV file
	InfinitiveColumn  string // Column with the infinitive
	PastColumn        string // Column with the past forms, alternates separated by "/"
	ParticipleColumn  string // Column with the participle forms
	TranslationColumn string // Column with the translation
	TierColumn        string // Column with the difficulty tier, optional
	SheetName         string // Name of the sheet to import
	StartRow          int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		InfinitiveColumn:  "A",
		PastColumn:        "B",
		ParticipleColumn:  "C",
		TranslationColumn: "D",
		TierColumn:        "E",
		SheetName:         "Sheet1",
		StartRow:          2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Imported       int
	Skipped        int
	Errors         []string
}

// ImportVerbs reads verbs from an Excel or CSV file. A verb without a tier
// column value gets Tier 0 and is left for the caller to classify.
func ImportVerbs(config ImportConfig) ([]models.Verb, *ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	var rows [][]string
	var err error
	if ext == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config.FilePath, config.SheetName)
	}
	if err != nil {
		return nil, nil, err
	}

	result := &ImportResult{
		Errors: make([]string, 0),
	}
	verbs := make([]models.Verb, 0, len(rows))

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}
		if isBlankRow(row) {
			result.Skipped++
			continue
		}

		result.TotalProcessed++

		verb, err := processRow(row, config)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		verbs = append(verbs, verb)
		result.Imported++
	}

	return verbs, result, nil
}

// readExcel returns all rows of a sheet
func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

// readCSV returns all records of a CSV file
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// processRow turns a single row into a verb
func processRow(row []string, config ImportConfig) (models.Verb, error) {
	infinitive := cleanWord(cell(row, config.InfinitiveColumn))
	past := models.SplitForms(strings.ToLower(cell(row, config.PastColumn)))
	participle := models.SplitForms(strings.ToLower(cell(row, config.ParticipleColumn)))
	translation := strings.TrimSpace(cell(row, config.TranslationColumn))

	if infinitive == "" {
		return models.Verb{}, fmt.Errorf("infinitive cannot be empty")
	}
	if len(past) == 0 {
		return models.Verb{}, fmt.Errorf("past forms cannot be empty for %q", infinitive)
	}
	if len(participle) == 0 {
		return models.Verb{}, fmt.Errorf("participle forms cannot be empty for %q", infinitive)
	}

	tier := 0
	if raw := strings.TrimSpace(cell(row, config.TierColumn)); raw != "" {
		val, err := strconv.Atoi(raw)
		if err != nil || val < models.MinTier || val > models.MaxTier {
			return models.Verb{}, fmt.Errorf("invalid tier %q for %q", raw, infinitive)
		}
		tier = val
	}

	return models.Verb{
		Infinitive:      strings.ToLower(infinitive),
		PastForms:       past,
		ParticipleForms: participle,
		Translation:     translation,
		Tier:            tier,
	}, nil
}

// cell returns the trimmed value of a lettered column, or "" when the row is short
func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// cleanWord drops trailing notes in brackets, e.g. "go (went, gone)"
func cleanWord(word string) string {
	indexOpenParen := strings.Index(word, "(")
	if indexOpenParen > 0 {
		return strings.TrimSpace(word[:indexOpenParen])
	}
	return strings.TrimSpace(word)
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
