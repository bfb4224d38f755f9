package generation

import (
	"context"
	"errors"
	"testing"
	"time"

	"server/internal/cache"
	"server/internal/usage"
)

func collectImageEvents(svc *Service, productName string) []ImageEvent {
	var events []ImageEvent
	svc.generateImage(context.Background(), productName, func(ev ImageEvent) {
		events = append(events, ev)
	})
	return events
}

func TestGenerateImageSequence(t *testing.T) {
	t.Parallel()
	imager := &fakeImager{url: "https://img.example.com/kopi.png"}
	tracker := usage.NewCounter()
	svc := newTestService(&fakeStreamer{}, imager, cache.NewMemory(time.Minute), tracker)

	events := collectImageEvents(svc, "Kopi Susu")

	wantPercents := []int{10, 25, 50, 100}
	if len(events) != len(wantPercents) {
		t.Fatalf("got %d events, want %d: %+v", len(events), len(wantPercents), events)
	}
	for i, want := range wantPercents {
		if events[i].Percent != want {
			t.Fatalf("event %d percent = %d, want %d", i, events[i].Percent, want)
		}
	}
	final := events[len(events)-1]
	if final.ImageURL != "https://img.example.com/kopi.png" || final.Error {
		t.Fatalf("final event = %+v", final)
	}
	if !final.Terminal() {
		t.Fatal("final event not terminal")
	}

	stats := tracker.Snapshot()
	if stats.TotalImages != 1 || stats.TotalRequests != 1 {
		t.Fatalf("usage = %+v, want 1 image and 1 request", stats)
	}
}

func TestGenerateImageCacheHit(t *testing.T) {
	t.Parallel()
	imager := &fakeImager{url: "https://img.example.com/cached.png"}
	svc := newTestService(&fakeStreamer{}, imager, cache.NewMemory(time.Minute), usage.NewCounter())

	collectImageEvents(svc, "Nasi Goreng")
	events := collectImageEvents(svc, "Nasi Goreng")

	if len(events) != 2 {
		t.Fatalf("cached run produced %d events, want 2: %+v", len(events), events)
	}
	if events[0].Status != "Using cached image..." || events[0].Percent != 50 {
		t.Fatalf("cache-hit event = %+v", events[0])
	}
	if events[1].ImageURL != "https://img.example.com/cached.png" || events[1].Percent != 100 {
		t.Fatalf("cache-hit completion = %+v", events[1])
	}
	if imager.callCount() != 1 {
		t.Fatalf("provider called %d times, want 1", imager.callCount())
	}
}

// A regenerate-only call shares the cache namespace with the combined path,
// so equal product names short-circuit regardless of which path populated
// the entry. Sanitization happens before fingerprinting, so noisy input
// still collides with the clean form.
func TestGenerateImageSharedNamespaceAfterSanitize(t *testing.T) {
	t.Parallel()
	imager := &fakeImager{url: "https://img.example.com/one.png"}
	svc := newTestService(&fakeStreamer{}, imager, cache.NewMemory(time.Minute), usage.NewCounter())

	collectImageEvents(svc, "Ayam Geprek")
	events := collectImageEvents(svc, "  Ayam   Geprek ")

	if imager.callCount() != 1 {
		t.Fatalf("provider called %d times, want 1", imager.callCount())
	}
	if events[len(events)-1].ImageURL != "https://img.example.com/one.png" {
		t.Fatalf("expected cached url, got %+v", events[len(events)-1])
	}
}

func TestGenerateImageFailure(t *testing.T) {
	t.Parallel()
	imager := &fakeImager{err: errors.New("Request failed: invalid api key provided")}
	svc := newTestService(&fakeStreamer{}, imager, cache.NewMemory(time.Minute), usage.NewCounter())

	events := collectImageEvents(svc, "Martabak")

	final := events[len(events)-1]
	if !final.Error || final.Percent != 100 {
		t.Fatalf("final event = %+v, want terminal error at 100", final)
	}
	if final.ErrorDetails == nil || final.ErrorDetails.Kind != KindAuth {
		t.Fatalf("error kind = %+v, want %s", final.ErrorDetails, KindAuth)
	}
	if final.ImageURL != "" {
		t.Fatalf("failed generation carried an image url: %+v", final)
	}
}

func TestGenerateImageAsyncReturnsImmediately(t *testing.T) {
	t.Parallel()
	imager := &fakeImager{url: "https://img.example.com/async.png"}
	svc := newTestService(&fakeStreamer{}, imager, cache.NewMemory(time.Minute), usage.NewCounter())

	done := make(chan ImageEvent, 8)
	svc.GenerateImageAsync(context.Background(), "Pisang Goreng", func(ev ImageEvent) {
		if ev.Terminal() {
			done <- ev
		}
	})

	select {
	case ev := <-done:
		if ev.ImageURL == "" {
			t.Fatalf("terminal event without url: %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("image task did not complete")
	}
}
