package activity

import (
	"errors"
	"testing"
	"time"
)

func TestBuildDatasetLoadedEvent(t *testing.T) {
	meta := map[string]any{"source": "api"}
	event := BuildDatasetLoadedEvent(DatasetEventInput{
		ActorID:      " actor ",
		Domain:       " hotels ",
		Seed:         42,
		PreviousSeed: 7,
		Records:      3,
		SnapshotID:   "snap-1",
		Duration:     1500 * time.Millisecond,
		Metadata:     meta,
	})

	if event.Verb != VerbDatasetLoaded || event.ObjectType != ObjectTypeDataset || event.ObjectID != "hotels" {
		t.Fatalf("unexpected event header: %+v", event)
	}
	if event.ActorID != "actor" || event.Seed != 42 {
		t.Fatalf("unexpected identity/seed: %+v", event)
	}
	if event.Metadata["records"] != 3 || event.Metadata["previous_seed"] != 7 {
		t.Fatalf("unexpected metadata: %+v", event.Metadata)
	}
	if event.Metadata["snapshot_id"] != "snap-1" || event.Metadata["duration_ms"] != int64(1500) {
		t.Fatalf("unexpected metadata: %+v", event.Metadata)
	}
	if event.Metadata["source"] != "api" {
		t.Fatalf("expected caller metadata kept, got %+v", event.Metadata)
	}
	if _, leaked := meta["records"]; leaked {
		t.Fatalf("caller metadata must not be mutated: %+v", meta)
	}
}

func TestBuildDatasetLoadFailedEventCarriesError(t *testing.T) {
	event := BuildDatasetLoadFailedEvent(DatasetEventInput{
		Domain: "hotels",
		Seed:   9,
		Err:    errors.New("upstream timeout"),
	})
	if event.Verb != VerbDatasetLoadFailed {
		t.Fatalf("unexpected verb %q", event.Verb)
	}
	if event.Metadata["error"] != "upstream timeout" {
		t.Fatalf("expected error metadata, got %+v", event.Metadata)
	}
}

func TestBuildSeedChangedEventDefaultsObjectID(t *testing.T) {
	event := BuildSeedChangedEvent(DatasetEventInput{Seed: 5})
	if event.ObjectType != ObjectTypeSeed || event.ObjectID != ObjectTypeSeed {
		t.Fatalf("expected object id to fall back to the object type, got %+v", event)
	}
	if _, ok := event.Metadata["domain"]; ok {
		t.Fatalf("blank domain must not be recorded")
	}
}

func TestBuildDatasetReloadStartedEvent(t *testing.T) {
	event := BuildDatasetReloadStartedEvent(DatasetEventInput{Domain: "flights", Seed: 12, PreviousSeed: 3})
	if event.Verb != VerbDatasetReloadStarted || event.ObjectID != "flights" || event.Seed != 12 {
		t.Fatalf("unexpected event: %+v", event)
	}
}
