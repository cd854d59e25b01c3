package conv

import (
	"reflect"
	"testing"
)

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"float64", 1.5, 1.5, true},
		{"float32", float32(2), 2, true},
		{"int", 3, 3, true},
		{"int64", int64(4), 4, true},
		{"bool true", true, 1, true},
		{"bool false", false, 0, true},
		{"string", "5", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ToFloat64(%v) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSliceAnyToString(t *testing.T) {
	got := SliceAnyToString([]any{"a", 2, 3.0, true, nil})
	want := []string{"a", "2", "3", "1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SliceAnyToString = %v, want %v", got, want)
	}

	if SliceAnyToString("not a slice") != nil {
		t.Error("non-slice input must return nil")
	}
}

func TestConfigGet(t *testing.T) {
	m := map[string]any{"name": "recent", "limit": 10}

	if got := ConfigGet(m, "name", "fallback"); got != "recent" {
		t.Errorf("ConfigGet name = %q", got)
	}
	if got := ConfigGet(m, "missing", "fallback"); got != "fallback" {
		t.Errorf("ConfigGet missing = %q, want fallback", got)
	}
	// 类型不符回退默认值
	if got := ConfigGet(m, "limit", "fallback"); got != "fallback" {
		t.Errorf("ConfigGet mismatched type = %q, want fallback", got)
	}
}

func TestConfigGetNumeric(t *testing.T) {
	// YAML 解析整数字面量得到 int，浮点字面量得到 float64
	m := map[string]any{"n": 42, "ratio": 0.5, "big": int64(7), "text": "x"}

	if got := ConfigGetInt64(m, "n", 0); got != 42 {
		t.Errorf("ConfigGetInt64 = %d, want 42", got)
	}
	if got := ConfigGetInt64(m, "ratio", 0); got != 0 {
		t.Errorf("ConfigGetInt64 float = %d, want truncated 0", got)
	}
	if got := ConfigGetInt64(m, "text", 9); got != 9 {
		t.Errorf("ConfigGetInt64 mismatched type = %d, want default", got)
	}

	if got := ConfigGetFloat64(m, "n", 0); got != 42 {
		t.Errorf("ConfigGetFloat64 int = %v, want 42", got)
	}
	if got := ConfigGetFloat64(m, "ratio", 0); got != 0.5 {
		t.Errorf("ConfigGetFloat64 = %v, want 0.5", got)
	}
	if got := ConfigGetFloat64(m, "missing", 1.5); got != 1.5 {
		t.Errorf("ConfigGetFloat64 missing = %v, want default", got)
	}
}
