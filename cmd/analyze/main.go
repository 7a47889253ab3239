package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/analysis"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/config"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/db"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/model"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/store"

	"github.com/spf13/cobra"
)

var (
	dbPath   string
	outPath  string
	plotsDir string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "analyze [results.csv]",
		Short: "RCT結果の条件間比較レポートを生成する",
		Long: `ResultsワークシートからエクスポートしたCSV（またはローカルミラーDB）を読み込み、
LLM要約あり/なし条件の作業時間を比較したMarkdownレポートとグラフを生成します。`,
		Args: cobra.MaximumNArgs(1),
		RunE: run,
	}
	rootCmd.Flags().StringVar(&dbPath, "db", "", "CSVの代わりにミラーDB（SQLite）から読み込む")
	rootCmd.Flags().StringVar(&outPath, "out", "report.md", "レポートの出力先")
	rootCmd.Flags().StringVar(&plotsDir, "plots", "", "グラフPNGの出力先ディレクトリ（省略時は出力しない）")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	obs, err := loadObservations(args)
	if err != nil {
		return err
	}
	if len(obs) == 0 {
		return fmt.Errorf("有効な観測データがありません")
	}

	stats := analysis.Describe(obs)
	welch := analysis.WelchTTest(
		analysis.TimesByCondition(obs, analysis.CondLLM),
		analysis.TimesByCondition(obs, analysis.CondNoLLM),
	)

	report := analysis.RenderReportMarkdown(obs, stats, welch)
	if err := os.WriteFile(outPath, []byte(report), 0644); err != nil {
		return fmt.Errorf("レポートの書き込みに失敗: %w", err)
	}
	fmt.Printf("レポートを出力しました: %s\n", outPath)

	if plotsDir != "" {
		if err := writePlots(obs, stats); err != nil {
			return err
		}
	}
	return nil
}

func loadObservations(args []string) ([]analysis.Observation, error) {
	if dbPath != "" {
		if err := db.InitDB(dbPath); err != nil {
			return nil, err
		}
		mirror := store.NewDBMirror(db.DB)
		rows, err := mirror.Rows(context.Background())
		if err != nil {
			return nil, fmt.Errorf("ミラーDBの読み込みに失敗: %w", err)
		}
		col := make(map[string]int, len(config.ResultsHeaders))
		for i, h := range config.ResultsHeaders {
			col[h] = i
		}
		return analysis.FromRows(rows, col), nil
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("results.csv のパスか --db を指定してください")
	}
	return analysis.LoadCSV(args[0])
}

func writePlots(obs []analysis.Observation, stats map[string]analysis.CondStats) error {
	if err := os.MkdirAll(plotsDir, 0755); err != nil {
		return err
	}

	timePath := filepath.Join(plotsDir, "time_by_condition.png")
	if err := analysis.SaveTimeBarChart(stats, timePath); err != nil {
		return fmt.Errorf("作業時間グラフの出力に失敗: %w", err)
	}

	completed := make(map[string]int)
	for _, o := range obs {
		completed[o.ParticipantID]++
	}
	progressPath := filepath.Join(plotsDir, "progress.png")
	if err := analysis.SaveProgressChart(completed, model.TotalSlots, progressPath); err != nil {
		return fmt.Errorf("進捗グラフの出力に失敗: %w", err)
	}

	fmt.Printf("グラフを出力しました: %s\n", plotsDir)
	return nil
}
