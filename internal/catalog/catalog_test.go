package catalog

import (
	"path/filepath"
	"testing"

	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/config"
	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogHasSixPapers(t *testing.T) {
	c := New(config.CatalogConfig{})
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, c.IDs())

	p, err := c.Get("1")
	require.NoError(t, err)
	assert.Equal(t, "2023_EID_Teco.pdf", p.PDFFilename)

	_, err = c.Get("99")
	assert.Error(t, err)
}

func TestCatalogFromConfig(t *testing.T) {
	c := New(config.CatalogConfig{
		PDFDir: "/data/pdf",
		Papers: []config.PaperEntry{
			{ID: "a", PDFFilename: "a.pdf"},
			{ID: "b", PDFFilename: "b.pdf"},
		},
	})
	assert.Equal(t, []string{"a", "b"}, c.IDs())

	path, err := c.PDFPath("a")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data/pdf", "a.pdf"), path)

	_, err = c.PDFPath("zzz")
	assert.Error(t, err)
}

func TestMergeKeepsCatalogFixed(t *testing.T) {
	c := New(config.CatalogConfig{})

	merged := c.Merge(map[string]model.Paper{
		"2":  {Title: "Review of emerging pathogens", Info: model.PaperInfo{Thema: "新興病原体"}},
		"99": {Title: "not in catalog"},
	})
	assert.Equal(t, 1, merged)
	assert.Len(t, c.IDs(), 6) // カタログ外のIDは増えない

	p, err := c.Get("2")
	require.NoError(t, err)
	assert.Equal(t, "Review of emerging pathogens", p.Title)
	assert.Equal(t, "新興病原体", p.Info.Thema)
	// PDFファイル名は取り込みで消えない
	assert.Equal(t, "2022_NEJM_Review.pdf", p.PDFFilename)
}

func TestGetReturnsCopy(t *testing.T) {
	c := New(config.CatalogConfig{})
	p, err := c.Get("1")
	require.NoError(t, err)
	p.Title = "書き換え"

	again, err := c.Get("1")
	require.NoError(t, err)
	assert.NotEqual(t, "書き換え", again.Title)
}
