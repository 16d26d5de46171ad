package dochub_test

import (
	"testing"

	"collabdocs/backend/internal/dochub"
	"collabdocs/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestPresence_JoinOrderPreserved(t *testing.T) {
	r := dochub.NewPresenceRegistry()

	r.Add("doc1", models.Participant{ConnID: "c1", DisplayName: "alice"})
	r.Add("doc1", models.Participant{ConnID: "c2", DisplayName: "bob"})
	r.Add("doc1", models.Participant{ConnID: "c3", DisplayName: "carol"})

	snapshot := r.Snapshot("doc1")
	assert.Equal(t, []models.Participant{
		{ConnID: "c1", DisplayName: "alice"},
		{ConnID: "c2", DisplayName: "bob"},
		{ConnID: "c3", DisplayName: "carol"},
	}, snapshot)

	// Removing from the middle keeps the join order of the remainder.
	r.Remove("doc1", "c2")
	snapshot = r.Snapshot("doc1")
	assert.Equal(t, []models.Participant{
		{ConnID: "c1", DisplayName: "alice"},
		{ConnID: "c3", DisplayName: "carol"},
	}, snapshot)
}

func TestPresence_RemoveIsIdempotent(t *testing.T) {
	r := dochub.NewPresenceRegistry()

	r.Add("doc1", models.Participant{ConnID: "c1", DisplayName: "alice"})
	r.Remove("doc1", "c1")
	r.Remove("doc1", "c1")
	r.Remove("never-joined", "c1")

	assert.Empty(t, r.Snapshot("doc1"))
	assert.Empty(t, r.Snapshot("never-joined"))
}

func TestPresence_RemoveEverywhereReturnsAffectedRooms(t *testing.T) {
	r := dochub.NewPresenceRegistry()

	r.Add("docA", models.Participant{ConnID: "c1", DisplayName: "alice"})
	r.Add("docB", models.Participant{ConnID: "c1", DisplayName: "alice"})
	r.Add("docB", models.Participant{ConnID: "c2", DisplayName: "bob"})
	r.Add("docC", models.Participant{ConnID: "c2", DisplayName: "bob"})

	affected := r.RemoveEverywhere("c1")
	assert.ElementsMatch(t, []string{"docA", "docB"}, affected)

	assert.Empty(t, r.Snapshot("docA"))
	assert.Equal(t, []models.Participant{{ConnID: "c2", DisplayName: "bob"}}, r.Snapshot("docB"))
	assert.Len(t, r.Snapshot("docC"), 1)

	// Second disconnect of the same connection affects nothing.
	assert.Empty(t, r.RemoveEverywhere("c1"))
}

func TestPresence_SnapshotIsACopy(t *testing.T) {
	r := dochub.NewPresenceRegistry()
	r.Add("doc1", models.Participant{ConnID: "c1", DisplayName: "alice"})

	snapshot := r.Snapshot("doc1")
	snapshot[0].DisplayName = "mallory"

	assert.Equal(t, "alice", r.Snapshot("doc1")[0].DisplayName)
}

func TestPresence_UnknownRoomBehavesAsEmpty(t *testing.T) {
	r := dochub.NewPresenceRegistry()
	assert.Empty(t, r.Snapshot("nope"))
}
