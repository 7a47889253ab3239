package main

import (
	"context"
	"fmt"
	"log"

	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/catalog"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/config"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/db"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/handler"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/logger"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/router"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/service"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/session"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/sheets"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/store"
)

func main() {
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	zl, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("ロガーの初期化に失敗: %v", err)
	}
	defer zl.Sync()

	// ローカルミラーDB（Sheetsが使えない場合のフォールバック先）
	if err := db.InitDB(cfg.Mirror.SQLitePath); err != nil {
		zl.Fatal("ミラーDBの初期化に失敗", "error", err)
	}

	ctx := context.Background()
	recordStore := store.NewJSONFileStore(cfg.Records.Path)
	cat := catalog.New(cfg.Catalog)

	// 監査ミラー：Sheets認証チェーンを試し、ダメならローカルDBミラーへ
	var mirror service.AuditMirror
	var reader service.AuditReader
	dbMirror := store.NewDBMirror(db.DB)
	if srv, strategy, err := sheets.NewService(ctx, cfg.Sheets, zl); err != nil {
		zl.Warn("Sheets認証に失敗。ローカルミラーDBに切り替えます", "error", err)
		mirror = dbMirror
		reader = dbMirror
	} else {
		results := sheets.NewResultsClient(srv, cfg.Sheets.ResultsSpreadsheetID, cfg.Sheets.ResultsWorksheetName, zl)
		if err := results.Ensure(ctx); err != nil {
			zl.Warn("Resultsワークシートの準備に失敗。ローカルミラーDBに切り替えます", "error", err)
			mirror = dbMirror
			reader = dbMirror
		} else {
			mirror = results
			reader = results
			zl.Info("Resultsワークシートをミラーとして使用", "strategy", strategy)
		}

		// 論文メタデータを起動時に1回だけ取り込む（失敗してもカタログ既定値で続行）
		papers := sheets.NewPapersClient(srv, cfg.Sheets.PapersSpreadsheetID, cfg.Sheets.PapersWorksheetName)
		if fetched, err := papers.FetchAll(ctx); err != nil {
			zl.Warn("論文メタデータの取得に失敗。既定のカタログを使用します", "error", err)
		} else {
			zl.Info("論文メタデータを更新", "merged", cat.Merge(fetched))
		}
	}

	svc := service.NewEvaluationService(recordStore, mirror, cat.IDs(), zl)

	// 取り込んだメタデータを各レコードの_csv_infoへ書き戻す
	if _, err := svc.SyncPaperInfo(cat); err != nil {
		zl.Warn("論文メタデータの書き戻しに失敗", "error", err)
	}

	// 再起動でローカルの完了情報が失われていればミラーから復元する
	if restored, err := svc.RestoreProgress(ctx, reader); err != nil {
		zl.Warn("進捗復元に失敗", "error", err)
	} else if restored > 0 {
		zl.Info("進捗を復元しました", "rows", restored)
	}

	sessions := session.NewRegistry()
	sessionHandler := handler.NewSessionHandler(svc, sessions, cat, zl)
	paperHandler := handler.NewPaperHandler(cat)

	r := router.SetupRouter(sessionHandler, paperHandler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	zl.Info("評価フォームサーバーを起動", "addr", addr)
	if err := r.Run(addr); err != nil {
		zl.Fatal("サーバーの起動に失敗", "error", err)
	}
}
