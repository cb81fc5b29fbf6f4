package catalog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotJSON(t *testing.T) {
	t.Run("marshals identity columns as strings", func(t *testing.T) {
		sn := &Snapshot{
			ID:        uuid.MustParse("a2a7e5b4-2c1d-4f5e-9a3b-8d7c6e5f4a3b"),
			RootPath:  "/srv/data/alpha",
			TakenAt:   time.Unix(1700000000, 0).UTC(),
			TreeState: []byte(`{"alpha":{}}`),
		}

		data, err := json.Marshal(sn)
		require.NoError(t, err)

		assert.Contains(t, string(data), `"id":"a2a7e5b4-2c1d-4f5e-9a3b-8d7c6e5f4a3b"`)
		assert.Contains(t, string(data), `"root_path":"/srv/data/alpha"`)
		assert.Contains(t, string(data), `"taken_at":"2023-11-14T22:13:20Z"`)
	})

	t.Run("omits empty tree state", func(t *testing.T) {
		sn := &Snapshot{ID: uuid.New(), TakenAt: time.Now()}

		data, err := json.Marshal(sn)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "tree_state")
	})

	t.Run("round-trips", func(t *testing.T) {
		original := &Snapshot{
			ID:        uuid.New(),
			RootPath:  "/srv/data/beta",
			TakenAt:   time.Unix(1700003600, 0).UTC(),
			TreeState: []byte(`{"beta":{}}`),
		}

		data, err := json.Marshal(original)
		require.NoError(t, err)

		var restored Snapshot
		require.NoError(t, json.Unmarshal(data, &restored))
		assert.Equal(t, original.ID, restored.ID)
		assert.Equal(t, original.RootPath, restored.RootPath)
		assert.True(t, original.TakenAt.Equal(restored.TakenAt))
		assert.Equal(t, original.TreeState, restored.TreeState)
	})

	t.Run("rejects malformed identity", func(t *testing.T) {
		var sn Snapshot
		err := json.Unmarshal([]byte(`{"id":"not-a-uuid","taken_at":"2023-11-14T22:13:20Z"}`), &sn)
		assert.ErrorContains(t, err, "parsing snapshot ID")

		err = json.Unmarshal([]byte(`{"id":"`+uuid.New().String()+`","taken_at":"yesterday"}`), &sn)
		assert.ErrorContains(t, err, "parsing snapshot timestamp")
	})
}
