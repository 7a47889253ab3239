package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "evaluation_records.json", cfg.Records.Path)
	assert.Equal(t, "Papers", cfg.Sheets.PapersWorksheetName)
	assert.Equal(t, "Results", cfg.Sheets.ResultsWorksheetName)
	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.Model)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 9000
records:
  path: /data/records.json
catalog:
  pdf_dir: /data/pdf
  papers:
    - id: "1"
      pdf_filename: one.pdf
    - id: "2"
      pdf_filename: two.pdf
sheets:
  results_spreadsheet_id: sheet-id-xyz
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "/data/records.json", cfg.Records.Path)
	assert.Equal(t, "sheet-id-xyz", cfg.Sheets.ResultsSpreadsheetID)
	assert.Equal(t, []string{"1", "2"}, cfg.PaperIDs())
	// ファイルに書いていない項目は既定値を維持する
	assert.Equal(t, "Results", cfg.Sheets.ResultsWorksheetName)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0644))

	t.Setenv("PORT", "3000")
	t.Setenv("RESULTS_SPREADSHEET_ID", "env-sheet")
	t.Setenv("GEMINI_API_KEY", "env-key")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "env-sheet", cfg.Sheets.ResultsSpreadsheetID)
	assert.Equal(t, "env-key", cfg.Gemini.APIKey)
}

func TestResultsHeadersOrder(t *testing.T) {
	// 分析・復元コードが位置依存で読むため列順は固定
	assert.Equal(t, []string{
		"participant_name", "has_summary", "paper_id",
		"start_time", "end_time", "answer_time",
		"action", "evaluation", "summary", "timestamp",
	}, ResultsHeaders)
}
