package constants

import "testing"

func TestResolveColorTag(t *testing.T) {
	tests := []struct {
		input  string
		want   ColorTag
		wantOK bool
	}{
		{input: "yellow", want: ColorYellow, wantOK: true},
		{input: " Dark-Blue ", want: ColorDarkBlue, wantOK: true},
		{input: "#E22028", want: ColorRed, wantOK: true},
		{input: "#e22028", wantOK: false},
		{input: "purple", wantOK: false},
		{input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ResolveColorTag(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ResolveColorTag(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestPaletteIsComplete(t *testing.T) {
	if len(Palette) != 7 || len(PaletteNames) != 7 {
		t.Fatalf("palette sizes = %d/%d, want 7/7", len(Palette), len(PaletteNames))
	}
	for _, c := range Palette {
		if ColorName(c) == string(c) {
			t.Errorf("palette value %s has no short name", c)
		}
	}
}
