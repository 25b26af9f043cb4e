package repository

import "errors"

// 見つからない（0件更新も含む）
var ErrNotFound = errors.New("not found")

// 一意制約違反など
var ErrConflict = errors.New("conflict")
