package detector_test

import (
	"testing"

	"setlist/internal/detector"
)

func TestIsMusicLabelMatchesVocabulary(t *testing.T) {
	cases := []struct {
		labels string
		want   bool
	}{
		{"Music:Speech:Silence:Inside, small room:Narration", true},
		{"Electric guitar:Speech:Silence:Vehicle:Inside", true},
		{"SINGING:speech:silence", true},
		{"Orchestra", true},
		{"Speech:Silence:Inside, small room:Narration, monologue:Vehicle", false},
		{"Dog:Bark:Animal:Domestic animals, pets:Wild animals", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := detector.IsMusicLabel(tc.labels); got != tc.want {
			t.Errorf("IsMusicLabel(%q) = %v, want %v", tc.labels, got, tc.want)
		}
	}
}

func TestIsMusicLabelIsSubstringTest(t *testing.T) {
	// Class names are free-form, so partial matches must count.
	if !detector.IsMusicLabel("Background music:Speech") {
		t.Fatal("expected substring match on compound class name")
	}
	if !detector.IsMusicLabel("Bass drum:Speech") {
		t.Fatal("expected instrument name inside compound class to match")
	}
}
