package dom

import (
	"strings"
	"testing"
)

func TestJSString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain",
			in:   "Asha",
			want: `"Asha"`,
		},
		{
			name: "quotes and newline",
			in:   "say \"hi\"\nbye",
			want: `"say \"hi\"\nbye"`,
		},
		{
			name: "empty",
			in:   "",
			want: `""`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := jsString(tt.in); got != tt.want {
				t.Errorf("jsString(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestJSStringAstralRunes(t *testing.T) {
	// Values outside the basic plane must stay valid JS source. Go's %q
	// would emit \U0001F600 here, which JS rejects.
	got := jsString("great fit \U0001F600")
	if strings.Contains(got, `\U`) {
		t.Errorf("jsString emitted a Go-only escape: %s", got)
	}
	if !strings.HasPrefix(got, `"`) || !strings.HasSuffix(got, `"`) {
		t.Errorf("jsString not a quoted literal: %s", got)
	}
	if !strings.Contains(got, "\U0001F600") {
		t.Errorf("rune lost in translation: %s", got)
	}
}
