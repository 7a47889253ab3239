package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/catalog"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/config"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/seed"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/store"

	"github.com/spf13/cobra"
)

var (
	configPath string
	outPath    string
	seedValue  int64
	force      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "seed <参加者名>...",
		Short: "クロスオーバーRCTの初期割り付けを生成する",
		Long: `参加者ごとに4slot分の評価レコード（サマリーあり2・なし2、論文重複なし）を
無作為に割り付けてevaluation_records.jsonに書き出します。`,
		Args: cobra.MinimumNArgs(1),
		RunE: run,
	}
	rootCmd.Flags().StringVar(&configPath, "config", "config/config.yaml", "設定ファイルのパス")
	rootCmd.Flags().StringVar(&outPath, "out", "", "出力先（省略時は設定のrecords.path）")
	rootCmd.Flags().Int64Var(&seedValue, "seed", 0, "乱数シード（0なら現在時刻）")
	rootCmd.Flags().BoolVar(&force, "force", false, "既存の割り付けファイルを上書きする")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	path := outPath
	if path == "" {
		path = cfg.Records.Path
	}

	// 割り付け済みファイルの誤上書きは実験を壊すので明示フラグ必須
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("割り付けファイルが既に存在します（--forceで上書き）: %s", path)
	}

	if seedValue == 0 {
		seedValue = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seedValue))

	records, err := seed.GenerateRecords(args, catalog.New(cfg.Catalog).IDs(), rng)
	if err != nil {
		return err
	}
	if err := store.NewJSONFileStore(path).Save(records); err != nil {
		return fmt.Errorf("割り付けの保存に失敗: %w", err)
	}

	fmt.Printf("%d名 × %dslot の割り付けを出力しました: %s（seed=%d）\n",
		len(args), len(records)/len(args), path, seedValue)
	return nil
}
