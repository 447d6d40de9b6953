package excel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cellName, &row))
	}

	path := filepath.Join(t.TempDir(), "verbs.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestImportVerbsFromExcel(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Infinitive", "Past", "Participle", "Translation", "Tier"},
		{"go (идти)", "went", "gone", "идти, ходить", 1},
		{"Be", "Was/Were", "been", "быть", ""},
		{},
		{"get", "got", "got/gotten", "получать", 2},
	})

	config := DefaultImportConfig()
	config.FilePath = path

	verbs, result, err := ImportVerbs(config)
	require.NoError(t, err)
	require.Len(t, verbs, 3)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 1, result.Skipped)

	assert.Equal(t, "go", verbs[0].Infinitive)
	assert.Equal(t, 1, verbs[0].Tier)
	assert.Equal(t, []string{"was", "were"}, verbs[1].PastForms)
	assert.Equal(t, 0, verbs[1].Tier)
	assert.Equal(t, []string{"got", "gotten"}, verbs[2].ParticipleForms)
}

func TestImportVerbsReportsBadRows(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Infinitive", "Past", "Participle", "Translation", "Tier"},
		{"go", "", "gone", "идти", 1},
		{"see", "saw", "seen", "видеть", 9},
	})

	config := DefaultImportConfig()
	config.FilePath = path

	verbs, result, err := ImportVerbs(config)
	require.NoError(t, err)
	assert.Empty(t, verbs)
	assert.Len(t, result.Errors, 2)
}

func TestImportVerbsFromCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verbs.csv")
	content := "infinitive,past,participle,translation,tier\n" +
		"take,took,taken,\"брать, взять\",1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config := DefaultImportConfig()
	config.FilePath = path

	verbs, result, err := ImportVerbs(config)
	require.NoError(t, err)
	require.Len(t, verbs, 1)
	assert.Equal(t, 1, result.TotalProcessed)
	assert.Equal(t, "брать, взять", verbs[0].Translation)
}

func TestImportVerbsMissingFile(t *testing.T) {
	config := DefaultImportConfig()
	config.FilePath = filepath.Join(t.TempDir(), "missing.xlsx")

	_, _, err := ImportVerbs(config)
	assert.Error(t, err)
}

func TestColumnToIndex(t *testing.T) {
	assert.Equal(t, 0, columnToIndex("A"))
	assert.Equal(t, 4, columnToIndex("e"))
	assert.Equal(t, 26, columnToIndex("AA"))
}
