package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	ID        string
	Followers int
}

func TestGetSetDelete(t *testing.T) {
	c := New()

	_, ok := Get[profile](c, "profile:u1")
	assert.False(t, ok)

	Set(c, "profile:u1", profile{ID: "u1", Followers: 3})
	got, ok := Get[profile](c, "profile:u1")
	require.True(t, ok)
	assert.Equal(t, 3, got.Followers)

	c.Delete("profile:u1")
	_, ok = Get[profile](c, "profile:u1")
	assert.False(t, ok)
}

func TestGetWrongTypeReportsMiss(t *testing.T) {
	c := New()
	Set(c, "profile:u1", profile{ID: "u1"})
	_, ok := Get[int](c, "profile:u1")
	assert.False(t, ok)
}

func TestUpdateSkipsMissingKey(t *testing.T) {
	c := New()
	Update(c, "profile:u1", func(p profile) profile {
		p.Followers++
		return p
	})
	_, ok := Get[profile](c, "profile:u1")
	assert.False(t, ok, "update must not create entries")
}

func TestUpdateAppliesInPlace(t *testing.T) {
	c := New()
	Set(c, "profile:u1", profile{ID: "u1", Followers: 5})
	Update(c, "profile:u1", func(p profile) profile {
		p.Followers++
		return p
	})
	got, _ := Get[profile](c, "profile:u1")
	assert.Equal(t, 6, got.Followers)
}

func TestRollbackRestoresValuesAndAbsence(t *testing.T) {
	c := New()
	Set(c, "profile:u1", profile{ID: "u1", Followers: 5})

	m := c.Begin("profile:u1", "profile:u2")

	Update(c, "profile:u1", func(p profile) profile {
		p.Followers = 6
		return p
	})
	Set(c, "profile:u2", profile{ID: "u2", Followers: 1})

	m.Rollback()

	got, ok := Get[profile](c, "profile:u1")
	require.True(t, ok)
	assert.Equal(t, 5, got.Followers)

	_, ok = Get[profile](c, "profile:u2")
	assert.False(t, ok, "absent key must be absent again after rollback")
}

func TestRollbackLeavesUncapturedKeysAlone(t *testing.T) {
	c := New()
	Set(c, "a", 1)
	Set(c, "b", 2)

	m := c.Begin("a")
	Set(c, "a", 10)
	Set(c, "b", 20)
	m.Rollback()

	a, _ := Get[int](c, "a")
	b, _ := Get[int](c, "b")
	assert.Equal(t, 1, a)
	assert.Equal(t, 20, b)
}
