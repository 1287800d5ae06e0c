// Package memory holds in-process repositories used by tests and by DB_DRIVER=memory.
package memory

import (
	"bytes"
	"sort"
	"time"

	"social-backend/internal/repository/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func copyIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, len(ids))
	copy(out, ids)
	return out
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}

func addID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, candidate := range ids {
		if candidate == id {
			return ids
		}
	}
	return append(ids, id)
}

// before orders by creation time, falling back to the id since ObjectIDs grow monotonically per process
func before(at, bt time.Time, a, b primitive.ObjectID) bool {
	if !at.Equal(bt) {
		return at.Before(bt)
	}
	return bytes.Compare(a[:], b[:]) < 0
}

func sortByCreated[T any](items []T, key func(T) (time.Time, primitive.ObjectID), newestFirst bool) {
	sort.SliceStable(items, func(i, j int) bool {
		it, iid := key(items[i])
		jt, jid := key(items[j])
		if newestFirst {
			return before(jt, it, jid, iid)
		}
		return before(it, jt, iid, jid)
	})
}

var (
	_ interfaces.UserRepository         = (*UserMemoryRepository)(nil)
	_ interfaces.PostRepository         = (*PostMemoryRepository)(nil)
	_ interfaces.CommentRepository      = (*CommentMemoryRepository)(nil)
	_ interfaces.MessageRepository      = (*MessageMemoryRepository)(nil)
	_ interfaces.NotificationRepository = (*NotificationMemoryRepository)(nil)
)
