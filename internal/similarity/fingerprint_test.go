// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package similarity

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lowercases and splits on punctuation",
			text: "Robotic-assisted surgery, 2023!",
			want: []string{"robotic", "assisted", "surgery", "2023"},
		},
		{
			name: "collapses runs of separators",
			text: "a   --  b",
			want: []string{"a", "b"},
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
		{
			name: "only separators",
			text: "... --- !!!",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestFingerprintsShortText(t *testing.T) {
	// Four tokens with k=5: too short to shingle.
	fps := Fingerprints("one two three four", 5, 4)
	if len(fps) != 0 {
		t.Errorf("len(fps) = %d, want 0 for text shorter than k tokens", len(fps))
	}
}

func TestFingerprintsDeterministic(t *testing.T) {
	text := `Patients undergoing robotic gastrectomy had shorter hospital stays
than those undergoing open gastrectomy, with comparable oncologic outcomes
at five years of follow-up in this retrospective cohort.`

	a := Fingerprints(text, 5, 4)
	b := Fingerprints(text, 5, 4)

	if len(a) == 0 {
		t.Fatal("expected non-empty fingerprint set")
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("fingerprinting the same text twice produced different sets")
	}
}

func TestFingerprintsFewShinglesKeepsAll(t *testing.T) {
	// Six tokens, k=5 gives two shingles; window 4 exceeds that, so both
	// shingle hashes are kept verbatim.
	fps := Fingerprints("one two three four five six", 5, 4)
	if len(fps) != 2 {
		t.Errorf("len(fps) = %d, want 2", len(fps))
	}
}

func TestFingerprintsBoundsDensity(t *testing.T) {
	text := ""
	for i := 0; i < 40; i++ {
		text += "alpha beta gamma delta epsilon zeta eta theta "
	}
	fps := Fingerprints(text, 5, 4)
	if len(fps) == 0 {
		t.Fatal("expected non-empty fingerprint set")
	}
	// Winnowing should select far fewer fingerprints than shingles.
	shingles := 40*8 - 5 + 1
	if len(fps) >= shingles/2 {
		t.Errorf("len(fps) = %d, want well under shingle count %d", len(fps), shingles)
	}
}

func TestHashShingleSeparatorMatters(t *testing.T) {
	// ["ab","c"] and ["a","bc"] must hash differently.
	h1 := hashShingle([]string{"ab", "c"}, 0, 2)
	h2 := hashShingle([]string{"a", "bc"}, 0, 2)
	if h1 == h2 {
		t.Error("token boundary did not affect shingle hash")
	}
}

func TestFingerprintsCaseInsensitive(t *testing.T) {
	a := Fingerprints("Robotic Surgery Improves Recovery Time Significantly", 3, 2)
	b := Fingerprints("robotic surgery improves recovery time significantly", 3, 2)
	if !reflect.DeepEqual(a, b) {
		t.Error("fingerprints differ across letter case")
	}
}
