package utils

import (
	"reflect"
	"testing"
)

func TestNormalizeHashtag(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Music", "music"},
		{"#Music", "music"},
		{"  #Rock N Roll  ", "rock n roll"},
		{"# spaced ", "spaced"},
		{"#", ""},
		{"   ", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeHashtag(tt.in); got != tt.want {
			t.Errorf("NormalizeHashtag(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeTagList(t *testing.T) {
	got := NormalizeTagList([]string{"#Music", "music", "", "Art", "#art", "  "})
	want := []string{"music", "art"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeTagList = %v, want %v (dedup, order preserved)", got, want)
	}

	if NormalizeTagList(nil) != nil {
		t.Error("empty input must return nil")
	}
}

func TestNormalizeTagSet(t *testing.T) {
	got := NormalizeTagSet([]string{"#Music", "Art", "music"})
	if len(got) != 2 {
		t.Fatalf("set size = %d, want 2", len(got))
	}
	for _, k := range []string{"music", "art"} {
		if _, ok := got[k]; !ok {
			t.Errorf("missing key %q", k)
		}
	}

	if NormalizeTagSet(nil) != nil {
		t.Error("empty input must return nil")
	}
}
