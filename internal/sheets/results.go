package sheets

import (
	"context"
	"fmt"

	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/config"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/logger"

	"google.golang.org/api/sheets/v4"
)

// ResultsClient 結果・進捗を管理するResultsワークシートへの追記クライアント。
// service.AuditMirror / service.AuditReader の実装。
type ResultsClient struct {
	srv           *sheets.Service
	spreadsheetID string
	worksheet     string
	log           *logger.Logger
}

func NewResultsClient(srv *sheets.Service, spreadsheetID, worksheet string, log *logger.Logger) *ResultsClient {
	return &ResultsClient{srv: srv, spreadsheetID: spreadsheetID, worksheet: worksheet, log: log}
}

// Ensure ワークシートがなければ作成してヘッダー行を書き込む
func (c *ResultsClient) Ensure(ctx context.Context) error {
	ss, err := c.srv.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("結果保存用スプレッドシートの取得に失敗: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == c.worksheet {
			return nil
		}
	}

	c.log.Info("結果保存用ワークシートを作成", "worksheet", c.worksheet)
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: c.worksheet},
			}},
		},
	}
	if _, err := c.srv.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("ワークシートの作成に失敗: %w", err)
	}

	header := make([]string, len(config.ResultsHeaders))
	copy(header, config.ResultsHeaders)
	return c.AppendRow(ctx, header)
}

// AppendRow 1行追記する（ResultsHeaders順の10列）
func (c *ResultsClient) AppendRow(ctx context.Context, row []string) error {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	vr := &sheets.ValueRange{Values: [][]interface{}{cells}}
	_, err := c.srv.Spreadsheets.Values.
		Append(c.spreadsheetID, c.worksheet+"!A1", vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("結果行の追記に失敗: %w", err)
	}
	return nil
}

// Rows ヘッダーを除く全行を返す（進捗復元用）
func (c *ResultsClient) Rows(ctx context.Context) ([][]string, error) {
	resp, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, c.worksheet).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("結果行の取得に失敗: %w", err)
	}
	if len(resp.Values) < 2 {
		return [][]string{}, nil
	}
	rows := make([][]string, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		row := make([]string, len(config.ResultsHeaders))
		for i := range row {
			if i < len(raw) {
				row[i] = fmt.Sprint(raw[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
