package usecase

import (
	"encoding/json"
	"strings"

	"gorm.io/datatypes"
)

// 住所などのJSONはそのまま返す
func rawOrNil(j datatypes.JSON) any {
	if len(j) == 0 {
		return nil
	}
	return json.RawMessage(j)
}

// 監査ログ用に文字列をJSONの中身としてエスケープする
func jsonEscape(s string) string {
	b, _ := json.Marshal(s)
	return string(b[1 : len(b)-1])
}

func rawStringOrNil(s string) any {
	if strings.TrimSpace(s) == "" || !json.Valid([]byte(s)) {
		return nil
	}
	return json.RawMessage(s)
}
