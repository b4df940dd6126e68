package upgrade

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		line   string
		want   Upgrade
		wantOK bool
	}{
		{
			name:   "well-formed line",
			line:   "bash 5.1-1 -> 5.2-1",
			want:   Upgrade{Name: "bash", OldVersion: "5.1-1", NewVersion: "5.2-1"},
			wantOK: true,
		},
		{
			name:   "epoch and complex version",
			line:   "ffmpeg 2:6.1-1 -> 2:6.1.1-1",
			want:   Upgrade{Name: "ffmpeg", OldVersion: "2:6.1-1", NewVersion: "2:6.1.1-1"},
			wantOK: true,
		},
		{"empty line", "", Upgrade{}, false},
		{"missing arrow", "bash 5.1-1 5.2-1", Upgrade{}, false},
		{"warning text", "warning: config file mismatch", Upgrade{}, false},
		{"trailing garbage", "bash 5.1-1 -> 5.2-1 extra", Upgrade{}, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := Parse(tt.line)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Parse(%q) = %+v, %v, want %+v, %v", tt.line, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseLines(t *testing.T) {
	t.Parallel()

	text := "bash 5.1-1 -> 5.2-1\n\nnot an upgrade line\nvim 9.0-1 -> 9.1-1\n"
	want := []Upgrade{
		{Name: "bash", OldVersion: "5.1-1", NewVersion: "5.2-1"},
		{Name: "vim", OldVersion: "9.0-1", NewVersion: "9.1-1"},
	}

	if got := ParseLines(text); !reflect.DeepEqual(got, want) {
		t.Errorf("ParseLines() = %v, want %v", got, want)
	}
}

func TestCommonPrefixLen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		old, new string
		want     int
	}{
		// shared "5." survives, the differing pkgver does not
		{"5.1-1", "5.2-1", 2},
		// never split inside a component: "1.1" backs off to "1."
		{"1.10-1", "1.11-1", 2},
		{"1.2-1", "1.10-1", 2},
		// nothing in common
		{"2:1.0-1", "3:1.0-1", 0},
		// pkgrel-only bump keeps everything through the hyphen
		{"6.0-1", "6.0-2", 4},
		{"", "", 0},
	}

	for _, tt := range tests {
		u := Upgrade{OldVersion: tt.old, NewVersion: tt.new}
		if got := u.CommonPrefixLen(); got != tt.want {
			t.Errorf("CommonPrefixLen(%q, %q) = %d, want %d", tt.old, tt.new, got, tt.want)
		}
	}
}
