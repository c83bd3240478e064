package split

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func boardFixture() []Split {
	return []Split{
		{ID: 1, User: "alice", IsDown: true, DurationMs: 5230, Timestamp: "t1"},
		{ID: 2, User: "bob", IsDown: true, DurationMs: 4100, Timestamp: "t2"},
		{ID: 3, User: "carol", IsDown: true, DurationMs: 9999, Timestamp: "t3"},
		{ID: 4, User: "dave", IsDown: false, IsElevator: true, DurationMs: 30000, Timestamp: "t4"},
	}
}

func TestWorldRecords(t *testing.T) {
	entries := WorldRecords(boardFixture())

	want := []BoardEntry{
		{Category: Category{IsDown: true}, Split: Split{ID: 2, User: "bob", IsDown: true, DurationMs: 4100, Timestamp: "t2"}},
		{Category: Category{IsElevator: true}, Split: Split{ID: 4, User: "dave", IsElevator: true, DurationMs: 30000, Timestamp: "t4"}},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("WorldRecords mismatch (-want +got):\n%s", diff)
	}
}

func TestSlowestRecords(t *testing.T) {
	entries := SlowestRecords(boardFixture())

	assert.Len(t, entries, 2)
	assert.Equal(t, "carol", entries[0].Split.User)
	assert.Equal(t, "dave", entries[1].Split.User)
}

func TestWorldRecordsTieKeepsEarlier(t *testing.T) {
	splits := []Split{
		{ID: 1, User: "alice", IsDown: true, DurationMs: 5000},
		{ID: 2, User: "bob", IsDown: true, DurationMs: 5000},
	}
	entries := WorldRecords(splits)
	assert.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].Split.User)
}

func TestBoardsEmpty(t *testing.T) {
	assert.Empty(t, WorldRecords(nil))
	assert.Empty(t, SlowestRecords(nil))
}

func TestFormatRecordBoard(t *testing.T) {
	entries := WorldRecords(boardFixture())
	got := FormatRecordBoard("World Records", entries)
	want := "World Records\n" +
		"down the stairs: bob in 4.100s (t2)\n" +
		"up the elevator: dave in 30.000s (t4)"
	assert.Equal(t, want, got)

	assert.Equal(t, "World Records\n(no splits recorded yet)", FormatRecordBoard("World Records", nil))
}
