package catalog

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/config"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/model"
)

// defaultPapers サンプルカタログの論文ID → PDFファイル名
var defaultPapers = []config.PaperEntry{
	{ID: "1", PDFFilename: "2023_EID_Teco.pdf"},
	{ID: "2", PDFFilename: "2022_NEJM_Review.pdf"},
	{ID: "3", PDFFilename: "2023_MMWR_Vaccine.pdf"},
	{ID: "4", PDFFilename: "2023_Lancet Microbe_respiratory.pdf"},
	{ID: "5", PDFFilename: "2022_Eurosuveilance_Pet.pdf"},
	{ID: "6", PDFFilename: "2022_CID_self swab.pdf"},
}

// Catalog 割り当て・代替選択の対象となる論文の固定集合。
// 書誌メタデータは起動時にPapersシートから取り込む（取れなければ最小情報のまま）。
type Catalog struct {
	mu     sync.RWMutex
	pdfDir string
	order  []string
	papers map[string]*model.Paper
}

func New(cfg config.CatalogConfig) *Catalog {
	entries := cfg.Papers
	if len(entries) == 0 {
		entries = defaultPapers
	}

	c := &Catalog{
		pdfDir: cfg.PDFDir,
		papers: make(map[string]*model.Paper, len(entries)),
	}
	for _, e := range entries {
		c.order = append(c.order, e.ID)
		c.papers[e.ID] = &model.Paper{
			ID:          e.ID,
			PDFFilename: e.PDFFilename,
		}
	}
	return c
}

// IDs 論文IDリスト（定義順）
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	return ids
}

// Get 論文メタデータを返す（コピー）
func (c *Catalog) Get(paperID string) (model.Paper, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.papers[paperID]
	if !ok {
		return model.Paper{}, fmt.Errorf("論文ID %s はカタログにありません", paperID)
	}
	return *p, nil
}

// PDFPath 論文PDFのローカルパス
func (c *Catalog) PDFPath(paperID string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.papers[paperID]
	if !ok || p.PDFFilename == "" {
		return "", fmt.Errorf("論文ID %s のPDFがありません", paperID)
	}
	return filepath.Join(c.pdfDir, p.PDFFilename), nil
}

// Merge Papersシートから取得したメタデータを取り込む。
// カタログにないIDは無視する（カタログは固定集合）。
func (c *Catalog) Merge(fetched map[string]model.Paper) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	merged := 0
	for id, src := range fetched {
		dst, ok := c.papers[id]
		if !ok {
			continue
		}
		filename := dst.PDFFilename
		*dst = src
		dst.ID = id
		if dst.PDFFilename == "" {
			dst.PDFFilename = filename
		}
		merged++
	}
	return merged
}
