package brand

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Tech Gear", "tech-gear"},
		{"  Audio & Video  ", "audio-video"},
		{"Brand 2000", "brand-2000"},
		{"UPPER", "upper"},
		{"---", ""},
		{"Déjà Vu", "d-j-vu"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
