package extract

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// textLimit 構造化抽出に渡す最大文字数（論文の先頭1万文字で十分判定できる）
const textLimit = 10000

// ExtractText PDFから本文テキストを抽出する
func ExtractText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("PDFを開けません (%s): %w", path, err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("PDFテキスト抽出エラー (%s): %w", path, err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("PDFテキスト読み込みエラー (%s): %w", path, err)
	}
	return buf.String(), nil
}

// TruncateForPrompt プロンプトに入れる分だけ先頭から切り出す（rune単位）
func TruncateForPrompt(text string) string {
	runes := []rune(text)
	if len(runes) <= textLimit {
		return text
	}
	return string(runes[:textLimit])
}
