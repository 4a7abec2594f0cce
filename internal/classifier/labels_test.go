package classifier_test

import (
	"testing"

	"setlist/internal/classifier"
)

func TestTopLabelsRanksDescending(t *testing.T) {
	classMap := classifier.ClassMap{
		0: "Speech",
		1: "Music",
		2: "Silence",
		3: "Guitar",
	}
	got := classifier.TopLabels(classMap, []float64{0.1, 0.7, 0.05, 0.4}, 3)
	if got != "Music:Guitar:Speech" {
		t.Fatalf("TopLabels = %q", got)
	}
}

func TestTopLabelsLimitsToAvailableClasses(t *testing.T) {
	classMap := classifier.ClassMap{0: "Speech", 1: "Music"}
	if got := classifier.TopLabels(classMap, []float64{0.2, 0.8}, 5); got != "Music:Speech" {
		t.Fatalf("TopLabels = %q", got)
	}
}

func TestTopLabelsSkipsUnknownIndices(t *testing.T) {
	classMap := classifier.ClassMap{0: "Speech", 2: "Music"}
	if got := classifier.TopLabels(classMap, []float64{0.3, 0.9, 0.5}, 2); got != "Music:Speech" {
		t.Fatalf("TopLabels = %q, want unknown index 1 skipped", got)
	}
}

func TestTopLabelsEmptyInput(t *testing.T) {
	if got := classifier.TopLabels(classifier.ClassMap{}, nil, 5); got != "" {
		t.Fatalf("TopLabels = %q, want empty", got)
	}
	if got := classifier.TopLabels(classifier.ClassMap{0: "Speech"}, []float64{0.5}, 0); got != "" {
		t.Fatalf("TopLabels = %q, want empty for k=0", got)
	}
}
