package repository

import "errors"

var (
	// 対象の行が無い
	ErrNotFound = errors.New("not found")

	// 一意制約違反（username/email/nameの重複など）
	ErrDuplicate = errors.New("duplicate")
)
