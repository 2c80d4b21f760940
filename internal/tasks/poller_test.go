package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"spotlike/internal/services"
	tu "spotlike/internal/testing"
)

func receiveUpdate(t *testing.T, updates <-chan NowPlayingUpdate) NowPlayingUpdate {
	t.Helper()
	select {
	case update, ok := <-updates:
		if !ok {
			t.Fatal("updates channel closed unexpectedly")
		}
		return update
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
	}
	return NowPlayingUpdate{}
}

func assertNoUpdate(t *testing.T, updates <-chan NowPlayingUpdate, window time.Duration) {
	t.Helper()
	select {
	case update, ok := <-updates:
		if ok {
			t.Fatalf("expected no update, got %+v", update)
		}
	case <-time.After(window):
	}
}

func TestPoller(t *testing.T) {
	newPollerUnderTest := func(t *testing.T, client *tu.MockLibraryClient) (<-chan NowPlayingUpdate, context.CancelFunc) {
		t.Helper()
		ctx, cancel := context.WithCancel(context.Background())
		t.Cleanup(cancel)

		poller := NewPoller(client, newAuthedManager(t, client), 5*time.Millisecond, 1000, nil)
		return poller.Run(ctx), cancel
	}

	t.Run("Emits Track Changes And Dedupes", func(t *testing.T) {
		client := &tu.MockLibraryClient{}
		client.SetPlaying(&services.Track{ID: "track-one", Name: "One", Artist: "A"})
		updates, _ := newPollerUnderTest(t, client)

		first := receiveUpdate(t, updates)
		if first.Err != nil || first.Track == nil || first.Track.ID != "track-one" {
			t.Fatalf("unexpected first update %+v", first)
		}

		// Same track on subsequent samples must not re-emit.
		assertNoUpdate(t, updates, 50*time.Millisecond)

		client.SetPlaying(&services.Track{ID: "track-two", Name: "Two", Artist: "B"})
		second := receiveUpdate(t, updates)
		if second.Track == nil || second.Track.ID != "track-two" {
			t.Fatalf("unexpected second update %+v", second)
		}
	})

	t.Run("Emits Stop Transition Once", func(t *testing.T) {
		client := &tu.MockLibraryClient{}
		client.SetPlaying(&services.Track{ID: "track-one", Name: "One", Artist: "A"})
		updates, _ := newPollerUnderTest(t, client)

		if first := receiveUpdate(t, updates); first.Track == nil {
			t.Fatal("expected a playing update first")
		}

		client.SetPlaying(nil)
		stopped := receiveUpdate(t, updates)
		if stopped.Track != nil || stopped.Err != nil {
			t.Fatalf("expected empty stop update, got %+v", stopped)
		}

		// Still stopped; no duplicate events.
		assertNoUpdate(t, updates, 50*time.Millisecond)
	})

	t.Run("Quiet While Nothing Was Ever Playing", func(t *testing.T) {
		client := &tu.MockLibraryClient{}
		updates, _ := newPollerUnderTest(t, client)

		assertNoUpdate(t, updates, 50*time.Millisecond)
	})

	t.Run("Emits Sampling Errors", func(t *testing.T) {
		client := &tu.MockLibraryClient{PlayingErr: errors.New("network down")}
		updates, _ := newPollerUnderTest(t, client)

		update := receiveUpdate(t, updates)
		if update.Err == nil {
			t.Fatalf("expected error update, got %+v", update)
		}
	})

	t.Run("Closes Channel On Cancel", func(t *testing.T) {
		client := &tu.MockLibraryClient{}
		updates, cancel := newPollerUnderTest(t, client)

		cancel()

		deadline := time.After(2 * time.Second)
		for {
			select {
			case _, ok := <-updates:
				if !ok {
					return
				}
			case <-deadline:
				t.Fatal("expected channel to close after cancellation")
			}
		}
	})
}
