package dao

import (
	"time"

	"github.com/Aisenh037/MBC-sub002/auth"
)

// scopeFilter appends the tenant filter for non-global scopes and registers
// its parameter. The returned fragment starts with " AND"; callers open
// their WHERE clause with a tautology so the fragment always composes.
func scopeFilter(alias string, scope auth.ScopedQuery, params map[string]interface{}) string {
	if scope.Global {
		return ""
	}
	params["institutionID"] = scope.InstitutionID
	return " AND " + alias + ".institutionID = $institutionID"
}

func stringProp(props map[string]interface{}, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

func boolProp(props map[string]interface{}, key string) bool {
	if v, ok := props[key].(bool); ok {
		return v
	}
	return false
}

func intProp(props map[string]interface{}, key string) int {
	switch v := props[key].(type) {
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func floatProp(props map[string]interface{}, key string) float64 {
	switch v := props[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

func timeProp(props map[string]interface{}, key string) time.Time {
	t, err := time.Parse(time.RFC3339, stringProp(props, key))
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
