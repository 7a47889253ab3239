package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/model"

	"google.golang.org/api/sheets/v4"
)

// PapersClient 論文メタデータ（Papersワークシート）の読み取り
type PapersClient struct {
	srv           *sheets.Service
	spreadsheetID string
	worksheet     string
}

func NewPapersClient(srv *sheets.Service, spreadsheetID, worksheet string) *PapersClient {
	return &PapersClient{srv: srv, spreadsheetID: spreadsheetID, worksheet: worksheet}
}

// FetchAll ヘッダー行をキーに全論文メタデータを取得する。
// paper_id列がなければエラー。
func (c *PapersClient) FetchAll(ctx context.Context) (map[string]model.Paper, error) {
	resp, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, c.worksheet).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("論文データシートの取得に失敗: %w", err)
	}
	if len(resp.Values) < 2 {
		return map[string]model.Paper{}, nil
	}

	headers := make([]string, len(resp.Values[0]))
	idCol := -1
	for i, h := range resp.Values[0] {
		headers[i] = strings.TrimSpace(fmt.Sprint(h))
		if headers[i] == "paper_id" {
			idCol = i
		}
	}
	if idCol < 0 {
		return nil, fmt.Errorf("論文データシートに 'paper_id' 列が見つかりません")
	}

	papers := make(map[string]model.Paper)
	for _, raw := range resp.Values[1:] {
		row := rowToMap(headers, raw)
		id := strings.TrimSpace(row["paper_id"])
		if id == "" {
			continue
		}
		papers[id] = model.Paper{
			ID:          id,
			Title:       row["title"],
			Authors:     row["authors"],
			Journal:     row["journal"],
			Year:        row["year"],
			DOI:         row["doi"],
			Abstract:    row["abstract"],
			PDFFilename: row["pdf_filename"],
			PDFLink:     row["pdf_link"],
			Info: model.PaperInfo{
				Thema:    row["thema"],
				Category: row["category"],
				Place:    row["place"],
				Time:     row["time"],
				Person:   row["person"],
				Summary:  row["summary"],
			},
		}
	}
	return papers, nil
}

func rowToMap(headers []string, raw []interface{}) map[string]string {
	row := make(map[string]string, len(headers))
	for i, h := range headers {
		if i < len(raw) {
			row[h] = fmt.Sprint(raw[i])
		} else {
			row[h] = ""
		}
	}
	return row
}
