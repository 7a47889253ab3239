package model

// PaperInfo Papersシートの構造化列（PICO相当の抽出項目）
type PaperInfo struct {
	Thema    string `json:"thema"`
	Category string `json:"category"`
	Place    string `json:"place"`
	Time     string `json:"time"`
	Person   string `json:"person"`
	Summary  string `json:"summary"`
}

// Paper 論文カタログの1件。書誌情報＋構造化情報。
type Paper struct {
	ID          string `json:"paper_id"`
	Title       string `json:"title"`
	Authors     string `json:"authors"`
	Journal     string `json:"journal"`
	Year        string `json:"year"`
	DOI         string `json:"doi"`
	Abstract    string `json:"abstract"`
	PDFFilename string `json:"pdf_filename,omitempty"`
	PDFLink     string `json:"pdf_link,omitempty"`
	Info        PaperInfo `json:"info"`
}

// ExtractedPaper Gemini構造化抽出の出力スキーマ
type ExtractedPaper struct {
	Filename string `json:"filename"`
	Thema    string `json:"thema"`
	Category string `json:"category"`
	Place    string `json:"place"`
	Time     string `json:"time"`
	Person   string `json:"person"`
	Summary  string `json:"summary"`
}
