package tools

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

func FmtJSONString(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "marshal data fail"
	}
	return string(data)
}

// Splits a comma separated list, trimming blanks around each item
func SplitList(value string) []string {
	items := strings.Split(value, ",")
	for i := range items {
		items[i] = strings.TrimSpace(items[i])
	}
	return items
}

// Parses a comma separated list of exactly n numbers
func ParseFloatList(value string, n int) ([]float64, error) {
	items := SplitList(value)
	if len(items) != n {
		return nil, fmt.Errorf("expected %d comma separated numbers, got %q", n, value)
	}

	values := make([]float64, n)
	for i, item := range items {
		v, err := strconv.ParseFloat(item, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q in %q", item, value)
		}
		values[i] = v
	}
	return values, nil
}
