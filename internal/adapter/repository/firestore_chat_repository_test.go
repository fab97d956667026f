package repository

import (
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationUpdatesKeepDottedPaths(t *testing.T) {
	now := time.Now()
	updates := conversationUpdates(map[string]interface{}{
		"lastMessage":      "hey",
		"unreadCount.bob":  3,
		"unreadCount.anna": 0,
	})

	byPath := make(map[string]firestore.Update, len(updates))
	for _, u := range updates {
		byPath[u.Path] = u
	}

	// The counter writes rely on the dotted string surviving as one Update
	// path, which Firestore resolves to the nested unreadCount map entry.
	require.Contains(t, byPath, "unreadCount.bob")
	require.Contains(t, byPath, "unreadCount.anna")
	assert.Equal(t, 3, byPath["unreadCount.bob"].Value)
	assert.Equal(t, 0, byPath["unreadCount.anna"].Value)
	assert.Equal(t, "hey", byPath["lastMessage"].Value)

	require.Contains(t, byPath, "updatedAt")
	stamp, ok := byPath["updatedAt"].Value.(time.Time)
	require.True(t, ok)
	assert.False(t, stamp.Before(now))

	assert.Len(t, updates, 4)
}
