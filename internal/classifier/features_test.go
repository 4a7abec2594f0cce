package classifier

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestFeatureReaderStreamsFramesInOrder(t *testing.T) {
	stubCommand(t, `printf '0.023,1.0,2.0,3.0\n0.046,0.3,0.3,0.3\n'`)

	reader := NewFeatureReader("mfcc-extract", nil)
	var frames []FeatureFrame
	err := reader.Stream(context.Background(), "/tmp/audio.wav", func(frame FeatureFrame) error {
		frames = append(frames, frame)
		return nil
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[0].Timestamp != 0.023 || math.Abs(frames[0].MFCCMean-2.0) > 1e-9 {
		t.Fatalf("frame 0 = %+v", frames[0])
	}
	if math.Abs(frames[1].MFCCMean-0.3) > 1e-9 {
		t.Fatalf("frame 1 mean = %v", frames[1].MFCCMean)
	}
	if frames[1].Timestamp <= frames[0].Timestamp {
		t.Fatal("frames out of order")
	}
}

func TestFeatureReaderSkipsMalformedRows(t *testing.T) {
	stubCommand(t, `printf '0.023,1.0\nbroken\n0.046,2.0\n'`)

	reader := NewFeatureReader("mfcc-extract", nil)
	var count int
	err := reader.Stream(context.Background(), "/tmp/audio.wav", func(FeatureFrame) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 frames after skipping bad row, got %d", count)
	}
}

func TestFeatureReaderEmitErrorStopsStream(t *testing.T) {
	stubCommand(t, `printf '0.023,1.0\n0.046,2.0\n'`)

	reader := NewFeatureReader("mfcc-extract", nil)
	sentinel := errors.New("stop")
	err := reader.Stream(context.Background(), "/tmp/audio.wav", func(FeatureFrame) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected emit error to propagate, got %v", err)
	}
}

func TestFeatureReaderPropagatesFailure(t *testing.T) {
	stubCommand(t, `exit 2`)

	reader := NewFeatureReader("mfcc-extract", nil)
	err := reader.Stream(context.Background(), "/tmp/audio.wav", func(FeatureFrame) error { return nil })
	if err == nil {
		t.Fatal("expected error from failing feature command")
	}
}
