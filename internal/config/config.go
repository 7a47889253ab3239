package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ResultsHeaders Resultsワークシートの列順（変更禁止：分析スクリプトが依存）
var ResultsHeaders = []string{
	"participant_name", "has_summary", "paper_id",
	"start_time", "end_time", "answer_time",
	"action", "evaluation", "summary", "timestamp",
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Records RecordsConfig `yaml:"records"`
	Catalog CatalogConfig `yaml:"catalog"`
	Sheets  SheetsConfig  `yaml:"sheets"`
	Mirror  MirrorConfig  `yaml:"mirror"`
	Gemini  GeminiConfig  `yaml:"gemini"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type RecordsConfig struct {
	// 評価レコードJSONファイルのパス
	Path string `yaml:"path"`
}

type CatalogConfig struct {
	// 論文PDFの格納ディレクトリ
	PDFDir string `yaml:"pdf_dir"`
	// 論文ID → PDFファイル名
	Papers []PaperEntry `yaml:"papers"`
}

type PaperEntry struct {
	ID          string `yaml:"id"`
	PDFFilename string `yaml:"pdf_filename"`
}

type SheetsConfig struct {
	PapersSpreadsheetID  string `yaml:"papers_spreadsheet_id"`
	PapersWorksheetName  string `yaml:"papers_worksheet_name"`
	ResultsSpreadsheetID string `yaml:"results_spreadsheet_id"`
	ResultsWorksheetName string `yaml:"results_worksheet_name"`
	// OAuth2トークンファイル（ローカル開発用）
	TokenFile string `yaml:"token_file"`
	// サービスアカウント鍵ファイル
	CredentialsFile string `yaml:"credentials_file"`
}

type MirrorConfig struct {
	// Sheetsに接続できない場合のローカルミラーDB（SQLite）
	SQLitePath string `yaml:"sqlite_path"`
}

type GeminiConfig struct {
	APIKey            string `yaml:"api_key"`
	Model             string `yaml:"model"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
}

type LogConfig struct {
	Mode string `yaml:"mode"` // dev / prod
}

func LoadConfig(path string) (*Config, error) {
	var config Config
	config.applyDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
		}
		// ファイルなしでも環境変数だけで起動できる（Heroku運用）
	} else {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("設定ファイルの解析に失敗: %w", err)
		}
	}

	config.applyEnv()
	return &config, nil
}

func (c *Config) applyDefaults() {
	c.Server.Port = 8080
	c.Records.Path = "evaluation_records.json"
	c.Catalog.PDFDir = "static/pdf"
	c.Sheets.PapersWorksheetName = "Papers"
	c.Sheets.ResultsWorksheetName = "Results"
	c.Sheets.TokenFile = "config/token.json"
	c.Sheets.CredentialsFile = "config/credentials.json"
	c.Mirror.SQLitePath = "results_mirror.db"
	c.Gemini.Model = "gemini-2.5-pro"
	c.Gemini.RequestsPerMinute = 10
	c.Log.Mode = "dev"
}

// applyEnv 環境変数はファイルより優先（Heroku環境では環境変数が正）
func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	setIfEnv(&c.Records.Path, "EVAL_RECORDS_PATH")
	setIfEnv(&c.Sheets.PapersSpreadsheetID, "PAPERS_SPREADSHEET_ID")
	setIfEnv(&c.Sheets.PapersWorksheetName, "PAPERS_WORKSHEET_NAME")
	setIfEnv(&c.Sheets.ResultsSpreadsheetID, "RESULTS_SPREADSHEET_ID")
	setIfEnv(&c.Sheets.ResultsWorksheetName, "RESULTS_WORKSHEET_NAME")
	setIfEnv(&c.Mirror.SQLitePath, "MIRROR_DB_PATH")
	setIfEnv(&c.Gemini.APIKey, "GEMINI_API_KEY")
	setIfEnv(&c.Gemini.Model, "GEMINI_MODEL")
	setIfEnv(&c.Log.Mode, "LOG_MODE")
}

func setIfEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// PaperIDs カタログの論文IDリスト（定義順）
func (c *Config) PaperIDs() []string {
	ids := make([]string, 0, len(c.Catalog.Papers))
	for _, p := range c.Catalog.Papers {
		ids = append(ids, p.ID)
	}
	return ids
}
