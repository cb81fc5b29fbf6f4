package catalog

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Snapshot is one catalogued scan: the identity and provenance columns plus
// the tree state exactly as the JSON exporter wrote it.
type Snapshot struct {
	ID        uuid.UUID
	RootPath  string
	TakenAt   time.Time
	TreeState []byte
}

type snapshotJSON struct {
	ID        string `json:"id"`
	RootPath  string `json:"root_path"`
	TakenAt   string `json:"taken_at"`
	TreeState []byte `json:"tree_state,omitempty"`
}

func (sn *Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshotJSON{
		ID:        sn.ID.String(),
		RootPath:  sn.RootPath,
		TakenAt:   sn.TakenAt.Format(time.RFC3339),
		TreeState: sn.TreeState,
	})
}

func (sn *Snapshot) UnmarshalJSON(data []byte) error {
	var raw snapshotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := uuid.Parse(raw.ID)
	if err != nil {
		return fmt.Errorf("error parsing snapshot ID: %w", err)
	}

	takenAt, err := time.Parse(time.RFC3339, raw.TakenAt)
	if err != nil {
		return fmt.Errorf("error parsing snapshot timestamp: %w", err)
	}

	sn.ID = id
	sn.RootPath = raw.RootPath
	sn.TakenAt = takenAt
	sn.TreeState = raw.TreeState
	return nil
}
