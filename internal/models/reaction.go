package models

import "slices"

// ReactionMap maps an emoji to the ids of users who reacted with it.
// Empty entries are never kept.
type ReactionMap map[string][]string

// Has reports whether userID reacted with emoji.
func (m ReactionMap) Has(emoji, userID string) bool {
	return slices.Contains(m[emoji], userID)
}

// Add records userID under emoji. Adding twice is a no-op.
func (m ReactionMap) Add(emoji, userID string) {
	if m.Has(emoji, userID) {
		return
	}
	m[emoji] = append(m[emoji], userID)
}

// Remove drops userID from emoji and prunes the entry once it is empty.
func (m ReactionMap) Remove(emoji, userID string) {
	users := slices.DeleteFunc(slices.Clone(m[emoji]), func(id string) bool { return id == userID })
	if len(users) == 0 {
		delete(m, emoji)
		return
	}
	m[emoji] = users
}

// Toggle flips userID's reaction with emoji and reports whether it is now set.
func (m ReactionMap) Toggle(emoji, userID string) bool {
	if m.Has(emoji, userID) {
		m.Remove(emoji, userID)
		return false
	}
	m.Add(emoji, userID)
	return true
}

// Clone returns a deep copy.
func (m ReactionMap) Clone() ReactionMap {
	out := make(ReactionMap, len(m))
	for emoji, users := range m {
		out[emoji] = slices.Clone(users)
	}
	return out
}

// Counts returns the number of users per emoji.
func (m ReactionMap) Counts() map[string]int {
	out := make(map[string]int, len(m))
	for emoji, users := range m {
		out[emoji] = len(users)
	}
	return out
}
