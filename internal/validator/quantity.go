package validator

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// 数量が1以上の整数でない
var ErrInvalidQuantity = errors.New("quantity must be an integer >= 1")

// ParseQuantityはJSONの数値・整数の文字列を受け付けて1以上の整数にする
// 1.0のような整数値のfloatも可
func ParseQuantity(v interface{}) (int64, error) {
	var q int64

	switch t := v.(type) {
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) || math.IsNaN(t) || math.Abs(t) > math.MaxInt64/2 {
			return 0, ErrInvalidQuantity
		}
		q = int64(t)
	case int:
		q = int64(t)
	case int64:
		q = t
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			f, ferr := t.Float64()
			if ferr != nil {
				return 0, ErrInvalidQuantity
			}
			return ParseQuantity(f)
		}
		q = i
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, ErrInvalidQuantity
		}
		q = i
	default:
		return 0, ErrInvalidQuantity
	}

	if q < 1 {
		return 0, ErrInvalidQuantity
	}
	return q, nil
}
