package file

import (
	"io"
	"time"

	"github.com/google/uuid"
)

type (
	// UploadItem is one file of an upload batch. Open is called once, by the
	// coordinator, when the item is stored.
	UploadItem struct {
		Open         func() (io.ReadCloser, error)
		OriginalName string
		DisplayName  string
		MimeType     string
		SizeBytes    int64
	}
	// ItemResult holds exactly one of Record or Err.
	ItemResult struct {
		Index  int
		Name   string
		Record *Record
		Err    error
	}
	ItemResults []ItemResult
)

func (rs ItemResults) Succeeded() Records {
	out := make(Records, 0, len(rs))
	for _, r := range rs {
		if r.Record != nil {
			out = append(out, r.Record)
		}
	}
	return out
}

func (rs ItemResults) Failed() ItemResults {
	var out ItemResults
	for _, r := range rs {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

const (
	EventCreated = "file.created"
	EventRenamed = "file.renamed"
	EventDeleted = "file.deleted"
)

type Event struct {
	ID          uuid.UUID `json:"event_id"`
	TS          time.Time `json:"time_stamp"`
	Action      string    `json:"event_action"`
	OwnerID     uuid.UUID `json:"owner_id"`
	FileID      ID        `json:"file_id"`
	DisplayName string    `json:"display_name"`
	StorageKey  string    `json:"storage_key"`
	SizeBytes   int64     `json:"size_bytes"`
}

func NewEvent(action string, r *Record) Event {
	return Event{
		ID:          uuid.New(),
		TS:          time.Now().UTC(),
		Action:      action,
		OwnerID:     r.OwnerID,
		FileID:      r.ID,
		DisplayName: r.DisplayName,
		StorageKey:  r.StorageKey,
		SizeBytes:   r.SizeBytes,
	}
}

// EventActions doubles as the list of routing keys file events are published under.
func EventActions() []string {
	return []string{EventCreated, EventRenamed, EventDeleted}
}
