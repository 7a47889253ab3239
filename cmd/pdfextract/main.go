package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/config"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/extract"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/logger"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/model"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	configPath string
	outJSON    string
	outCSV     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pdfextract <pdf-dir>",
		Short: "論文PDFから構造化データを抽出する",
		Long: `指定ディレクトリ内の論文PDFからテキストを抽出し、
Geminiで構造化データ（thema/category/place/time/person/summary）を生成して
JSONとCSVに書き出します。CSVはPapersワークシートへの取り込み形式です。`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}
	rootCmd.Flags().StringVar(&configPath, "config", "config/config.yaml", "設定ファイルのパス")
	rootCmd.Flags().StringVar(&outJSON, "out-json", "structured_papers.json", "構造化JSONの出力先")
	rootCmd.Flags().StringVar(&outCSV, "out-csv", "papers.csv", "カタログCSVの出力先")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	zl, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return err
	}
	defer zl.Sync()

	ctx := context.Background()
	extractor, err := extract.NewExtractor(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.RequestsPerMinute, zl)
	if err != nil {
		return err
	}

	pdfs, err := listPDFs(args[0])
	if err != nil {
		return err
	}
	if len(pdfs) == 0 {
		return fmt.Errorf("PDFファイルが見つかりません: %s", args[0])
	}

	bar := progressbar.Default(int64(len(pdfs)), "構造化抽出")
	var results []model.ExtractedPaper
	var failures []string
	for _, path := range pdfs {
		filename := filepath.Base(path)
		text, err := extract.ExtractText(path)
		if err != nil {
			zl.Error("テキスト抽出に失敗", "filename", filename, "error", err)
			failures = append(failures, filename)
			_ = bar.Add(1)
			continue
		}
		extracted, err := extractor.Extract(ctx, text, filename)
		if err != nil {
			zl.Error("構造化抽出に失敗", "filename", filename, "error", err)
			failures = append(failures, filename)
			_ = bar.Add(1)
			continue
		}
		results = append(results, *extracted)
		_ = bar.Add(1)
	}

	if err := writeJSON(outJSON, results); err != nil {
		return err
	}
	if err := writeCSV(outCSV, results); err != nil {
		return err
	}

	zl.Info("抽出完了", "succeeded", len(results), "failed", len(failures))
	if len(failures) > 0 {
		zl.Warn("失敗したファイル", "filenames", strings.Join(failures, ", "))
	}
	return nil
}

func listPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ディレクトリを読めません: %w", err)
	}
	var pdfs []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		pdfs = append(pdfs, filepath.Join(dir, e.Name()))
	}
	sort.Strings(pdfs)
	return pdfs, nil
}

func writeJSON(path string, results []model.ExtractedPaper) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func writeCSV(path string, results []model.ExtractedPaper) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"filename", "thema", "category", "place", "time", "person", "summary"}); err != nil {
		return err
	}
	for _, r := range results {
		if err := w.Write([]string{r.Filename, r.Thema, r.Category, r.Place, r.Time, r.Person, r.Summary}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
