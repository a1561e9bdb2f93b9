package activity

import (
	"strings"
	"time"
)

// Verbs emitted by the dataset coordinator.
const (
	VerbDatasetLoaded        = "dataset.loaded"
	VerbDatasetReloadStarted = "dataset.reload.started"
	VerbDatasetLoadFailed    = "dataset.load.failed"
	VerbSeedChanged          = "seed.changed"
	ObjectTypeDataset        = "dataset"
	ObjectTypeSeed           = "seed"
)

// DatasetEventInput carries the fields shared by dataset lifecycle events.
type DatasetEventInput struct {
	ActorID      string
	TenantID     string
	Domain       string
	Channel      string
	Seed         int
	PreviousSeed int
	Records      int
	SnapshotID   string
	Duration     time.Duration
	Err          error
	Metadata     map[string]any
	OccurredAt   time.Time
}

// BuildDatasetLoadedEvent describes a successful load.
func BuildDatasetLoadedEvent(input DatasetEventInput) Event {
	event := buildDatasetEvent(VerbDatasetLoaded, ObjectTypeDataset, input)
	event.Metadata["records"] = input.Records
	return event
}

// BuildDatasetReloadStartedEvent describes a reload that cleared the dataset.
func BuildDatasetReloadStartedEvent(input DatasetEventInput) Event {
	return buildDatasetEvent(VerbDatasetReloadStarted, ObjectTypeDataset, input)
}

// BuildDatasetLoadFailedEvent describes a failed fetch. The error text is
// kept in metadata under "error".
func BuildDatasetLoadFailedEvent(input DatasetEventInput) Event {
	event := buildDatasetEvent(VerbDatasetLoadFailed, ObjectTypeDataset, input)
	if input.Err != nil {
		event.Metadata["error"] = input.Err.Error()
	}
	event.Metadata["records"] = input.Records
	return event
}

// BuildSeedChangedEvent describes a seed broadcast received by a dataset.
func BuildSeedChangedEvent(input DatasetEventInput) Event {
	return buildDatasetEvent(VerbSeedChanged, ObjectTypeSeed, input)
}

func buildDatasetEvent(verb, objectType string, input DatasetEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}
	domain := strings.TrimSpace(input.Domain)
	if domain != "" {
		metadata["domain"] = domain
	}
	if input.PreviousSeed > 0 {
		metadata["previous_seed"] = input.PreviousSeed
	}
	if input.SnapshotID != "" {
		metadata["snapshot_id"] = input.SnapshotID
	}
	if input.Duration > 0 {
		metadata["duration_ms"] = input.Duration.Milliseconds()
	}

	objectID := domain
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Seed:       input.Seed,
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}
