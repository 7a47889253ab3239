package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/SRWS-PSG/emerging-infection-24K13518-open/internal/model"
)

// JSONFileStore evaluation_records.json を丸ごと読み書きするストア。
// 部分更新はしない。Saveは一時ファイル＋renameの単一コミット。
type JSONFileStore struct {
	path string
}

func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{path: path}
}

func (s *JSONFileStore) Load() ([]model.EvaluationRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.EvaluationRecord{}, nil
		}
		return nil, fmt.Errorf("評価レコードファイルの読み込みエラー: %w", err)
	}

	var records []model.EvaluationRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("評価レコードファイルの解析エラー: %w", err)
	}
	return records, nil
}

func (s *JSONFileStore) Save(records []model.EvaluationRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("評価レコードのエンコードエラー: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".evaluation_records-*.json")
	if err != nil {
		return fmt.Errorf("評価レコードファイルの保存エラー: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("評価レコードファイルの保存エラー: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("評価レコードファイルの保存エラー: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("評価レコードファイルの保存エラー: %w", err)
	}
	return nil
}
