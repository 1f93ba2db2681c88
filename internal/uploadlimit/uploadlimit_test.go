package uploadlimit

import "testing"

func TestParseSize(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"8M", 8 * 1024 * 1024},
		{"512k", 512 * 1024},
		{"1G", 1024 * 1024 * 1024},
		{"2048", 2048},
		{"1.5M", 1572864},
		{" 16m ", 16 * 1024 * 1024},
	}
	for _, tc := range cases {
		got, err := ParseSize(tc.in)
		if err != nil {
			t.Fatalf("ParseSize(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseSize(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseSize_Errors(t *testing.T) {
	for _, in := range []string{"", "   ", "MB"} {
		if _, err := ParseSize(in); err == nil {
			t.Fatalf("ParseSize(%q): expected error", in)
		}
	}
}

func TestCeiling(t *testing.T) {
	cases := []struct {
		post, upload, want int64
	}{
		{10 << 20, 8 << 20, 8 << 20},
		{8 << 20, 10 << 20, 8 << 20},
		{0, 8 << 20, 8 << 20},
		{10 << 20, 0, 10 << 20},
		{0, 0, 0},
	}
	for _, tc := range cases {
		if got := Ceiling(tc.post, tc.upload); got != tc.want {
			t.Fatalf("Ceiling(%d, %d) = %d, want %d", tc.post, tc.upload, got, tc.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{8 * 1024 * 1024, "8 MB"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{500, "500"},
		{0, "0"},
	}
	for _, tc := range cases {
		if got := FormatBytes(tc.in); got != tc.want {
			t.Fatalf("FormatBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
