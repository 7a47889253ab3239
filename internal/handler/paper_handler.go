package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/catalog"

	"github.com/gin-gonic/gin"
)

type PaperHandler struct {
	catalog *catalog.Catalog
}

func NewPaperHandler(cat *catalog.Catalog) *PaperHandler {
	return &PaperHandler{catalog: cat}
}

// GetPaper 論文の書誌情報を返す。
// 事前生成サマリーは条件割り付けに関わるためこのエンドポイントでは返さない。
func (h *PaperHandler) GetPaper(c *gin.Context) {
	paper, err := h.catalog.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	paper.Info.Summary = ""
	c.JSON(http.StatusOK, gin.H{"paper": paper})
}

// DownloadPDF 論文PDFをダウンロードさせる
func (h *PaperHandler) DownloadPDF(c *gin.Context) {
	path, err := h.catalog.PDFPath(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "PDFファイルが見つかりません"})
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
