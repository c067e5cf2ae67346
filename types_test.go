package sdk

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorPageMoreDefaultsToCursorPresence(t *testing.T) {
	var page CursorPage[Look]
	require.NoError(t, json.Unmarshal([]byte(`{"items":[],"nextCursor":"abc"}`), &page))
	assert.True(t, page.More(), "hasMore omitted: presence of nextCursor decides")
	assert.Equal(t, "abc", page.Cursor())

	page = CursorPage[Look]{}
	require.NoError(t, json.Unmarshal([]byte(`{"items":[]}`), &page))
	assert.False(t, page.More())
	assert.Equal(t, "", page.Cursor())
}

func TestCursorPageExplicitHasMoreWins(t *testing.T) {
	var page CursorPage[Look]
	require.NoError(t, json.Unmarshal([]byte(`{"items":[],"nextCursor":"abc","hasMore":false}`), &page))
	assert.False(t, page.More(), "explicit hasMore overrides cursor presence")
}

func TestFlattenPages(t *testing.T) {
	pages := []CursorPage[Look]{
		{Items: []Look{{ID: "1"}, {ID: "2"}}},
		{Items: []Look{{ID: "3"}}},
		{Items: nil},
	}
	flat := FlattenPages(pages)
	require.Len(t, flat, 3)
	assert.Equal(t, "1", flat[0].ID)
	assert.Equal(t, "3", flat[2].ID)
}
