package repository

import "errors"

var ErrNotFound = errors.New("not found")

// 一意制約違反（同じ決済セッションの二重取り込みなど）
var ErrDuplicate = errors.New("duplicate")
