package service

import "errors"

var (
	// ErrNotFound 対象の(参加者, slot[, 論文])に一致するレコードがない
	ErrNotFound = errors.New("対象レコードが見つかりません")
	// ErrExhausted 除外後に割り当て可能な代替論文が残っていない
	ErrExhausted = errors.New("利用可能な代替論文がありません")
	// ErrValidation 完了時の必須フィールドが未入力
	ErrValidation = errors.New("必須フィールドが未入力です")
	// ErrPersistence ストアへの保存が失敗した（メモリ上の変更は未コミット扱い）
	ErrPersistence = errors.New("評価レコードの保存に失敗しました")
)
