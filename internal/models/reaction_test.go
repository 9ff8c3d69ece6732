package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReactionMap_ToggleTwiceRestores(t *testing.T) {
	m := ReactionMap{"👍": {"u1"}}
	before := m.Clone()

	assert.True(t, m.Toggle("🎉", "u2"))
	assert.Equal(t, []string{"u2"}, m["🎉"])

	assert.False(t, m.Toggle("🎉", "u2"))
	assert.Equal(t, before, m)
	_, present := m["🎉"]
	assert.False(t, present, "empty emoji entry should be pruned")
}

func TestReactionMap_AddDeduplicates(t *testing.T) {
	m := ReactionMap{}
	m.Add("👍", "u1")
	m.Add("👍", "u1")
	m.Add("👍", "u2")

	assert.Equal(t, []string{"u1", "u2"}, m["👍"])
	assert.Equal(t, map[string]int{"👍": 2}, m.Counts())
}

func TestReactionMap_RemoveKeepsOthers(t *testing.T) {
	m := ReactionMap{"👍": {"u1", "u2", "u3"}}
	m.Remove("👍", "u2")
	assert.Equal(t, []string{"u1", "u3"}, m["👍"])

	m.Remove("👍", "missing")
	assert.Len(t, m["👍"], 2)

	m.Remove("❤️", "u1")
	assert.NotContains(t, m, "❤️")
}

func TestReactionMap_CloneIsDeep(t *testing.T) {
	m := ReactionMap{"👍": {"u1"}}
	c := m.Clone()
	c.Add("👍", "u2")
	assert.Equal(t, []string{"u1"}, m["👍"])
}

func TestComment_ReactionMapNeverNil(t *testing.T) {
	var c Comment
	assert.NotNil(t, c.ReactionMap())

	c.SetReactionMap(ReactionMap{"👍": {"u1"}})
	assert.True(t, c.ReactionMap().Has("👍", "u1"))
}
