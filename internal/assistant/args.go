package assistant

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Model arguments arrive as decoded JSON, so integers are usually float64
// but may also be strings or json.Number.

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	}
	return 0, false
}

// intArg reads an optional integer. present is false when the key is absent
// or null.
func intArg(args map[string]any, key string) (value int64, present bool, err error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return 0, false, nil
	}
	v, ok := toInt(raw)
	if !ok {
		return 0, true, dispatchErr(KindInvalidArgument, key+" must be an integer")
	}
	return v, true, nil
}

func requiredIntArg(args map[string]any, key string) (int64, error) {
	v, present, err := intArg(args, key)
	if err != nil {
		return 0, err
	}
	if !present {
		return 0, dispatchErr(KindInvalidArgument, key+" is required")
	}
	return v, nil
}

// stringArg reads an optional string. Empty strings count as absent.
func stringArg(args map[string]any, key string) (*string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, dispatchErr(KindInvalidArgument, key+" must be a string")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	return &s, nil
}

func requiredStringArg(args map[string]any, key string) (string, error) {
	s, err := stringArg(args, key)
	if err != nil {
		return "", err
	}
	if s == nil {
		return "", dispatchErr(KindInvalidArgument, key+" is required")
	}
	return *s, nil
}

func intSliceArg(args map[string]any, key string) ([]int64, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, dispatchErr(KindInvalidArgument, key+" must be a list of integers")
	}

	out := make([]int64, 0, len(list))
	for i, item := range list {
		v, ok := toInt(item)
		if !ok {
			return nil, dispatchErr(KindInvalidArgument, fmt.Sprintf("%s[%d] must be an integer", key, i))
		}
		out = append(out, v)
	}
	return out, nil
}
