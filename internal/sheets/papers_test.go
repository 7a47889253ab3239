package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowToMapPadsShortRows(t *testing.T) {
	headers := []string{"paper_id", "title", "summary"}
	row := rowToMap(headers, []interface{}{"1", "Emerging infection review"})
	assert.Equal(t, "1", row["paper_id"])
	assert.Equal(t, "Emerging infection review", row["title"])
	assert.Equal(t, "", row["summary"]) // 短い行は空文字で埋める

	row = rowToMap(headers, []interface{}{2, "x", "y"})
	assert.Equal(t, "2", row["paper_id"]) // 数値セルも文字列化
}
