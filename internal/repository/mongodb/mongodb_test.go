package mongodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// newMockDatabase wraps the mock client of a subtest
func newMockDatabase(mt *mtest.T) *Database {
	return &Database{client: mt.Client, db: mt.DB}
}

func namespace(mt *mtest.T, coll string) string {
	return mt.DB.Name() + "." + coll
}

// updateResponse mimics the server reply to an update with n matched documents
func updateResponse(n int) bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: n},
		bson.E{Key: "nModified", Value: n},
	)
}

// statement returns the first entry of the named batch array of the next started command
func statement(mt *mtest.T, commandName, batch string) bson.Raw {
	evt := mt.GetStartedEvent()
	require.NotNil(mt, evt)
	require.Equal(mt, commandName, evt.CommandName)

	docs, err := evt.Command.Lookup(batch).Array().Values()
	require.NoError(mt, err)
	require.NotEmpty(mt, docs)
	return docs[0].Document()
}

func TestPostRepository_ToggleLike(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	postID := primitive.NewObjectID()
	author := primitive.NewObjectID()
	liker := primitive.NewObjectID()

	mt.Run("Like when absent", func(mt *mtest.T) {
		repo := NewPostRepository(newMockDatabase(mt))
		mt.AddMockResponses(
			updateResponse(1),
			mtest.CreateCursorResponse(0, namespace(mt, postsCollection), mtest.FirstBatch, bson.D{
				{Key: "_id", Value: postID},
				{Key: "user", Value: author},
				{Key: "text", Value: "hello"},
				{Key: "likes", Value: bson.A{liker}},
			}),
		)

		post, liked, err := repo.ToggleLike(context.Background(), postID, liker)
		require.NoError(mt, err)
		assert.True(mt, liked)
		assert.Equal(mt, []primitive.ObjectID{liker}, post.Likes)

		update := statement(mt, "update", "updates")
		assert.Equal(mt, postID, update.Lookup("q", "_id").ObjectID())
		assert.Equal(mt, liker, update.Lookup("q", "likes", "$ne").ObjectID())
		assert.Equal(mt, liker, update.Lookup("u", "$addToSet", "likes").ObjectID())
	})

	mt.Run("Unlike when present", func(mt *mtest.T) {
		repo := NewPostRepository(newMockDatabase(mt))
		mt.AddMockResponses(
			updateResponse(0),
			updateResponse(1),
			mtest.CreateCursorResponse(0, namespace(mt, postsCollection), mtest.FirstBatch, bson.D{
				{Key: "_id", Value: postID},
				{Key: "user", Value: author},
				{Key: "text", Value: "hello"},
				{Key: "likes", Value: bson.A{}},
			}),
		)

		post, liked, err := repo.ToggleLike(context.Background(), postID, liker)
		require.NoError(mt, err)
		assert.False(mt, liked)
		assert.Empty(mt, post.Likes)

		statement(mt, "update", "updates")
		pull := statement(mt, "update", "updates")
		assert.Equal(mt, liker, pull.Lookup("q", "likes").ObjectID())
		assert.Equal(mt, liker, pull.Lookup("u", "$pull", "likes").ObjectID())
	})

	mt.Run("Missing post", func(mt *mtest.T) {
		repo := NewPostRepository(newMockDatabase(mt))
		mt.AddMockResponses(
			updateResponse(0),
			updateResponse(0),
			mtest.CreateCursorResponse(0, namespace(mt, postsCollection), mtest.FirstBatch),
		)

		post, liked, err := repo.ToggleLike(context.Background(), postID, liker)
		require.NoError(mt, err)
		assert.Nil(mt, post)
		assert.False(mt, liked)
	})

	mt.Run("Write error", func(mt *mtest.T) {
		repo := NewPostRepository(newMockDatabase(mt))
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad value",
		}))

		_, _, err := repo.ToggleLike(context.Background(), postID, liker)
		assert.Error(mt, err)
	})
}

func TestCommentRepository_DeleteWithReplies(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("Removes comment and replies", func(mt *mtest.T) {
		repo := NewCommentRepository(newMockDatabase(mt))
		commentID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}))

		deleted, err := repo.DeleteWithReplies(context.Background(), commentID)
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), deleted)

		del := statement(mt, "delete", "deletes")
		branches, err := del.Lookup("q", "$or").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, branches, 2)
		assert.Equal(mt, commentID, branches[0].Document().Lookup("_id").ObjectID())
		assert.Equal(mt, commentID, branches[1].Document().Lookup("parentId").ObjectID())
		// deleteMany, not deleteOne
		assert.Equal(mt, int32(0), del.Lookup("limit").AsInt32())
	})
}

func TestMessageRepository_MarkRead(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("Only messages sent to the reader", func(mt *mtest.T) {
		repo := NewMessageRepository(newMockDatabase(mt))
		sender := primitive.NewObjectID()
		reader := primitive.NewObjectID()
		mt.AddMockResponses(updateResponse(2))

		updated, err := repo.MarkRead(context.Background(), sender, reader)
		require.NoError(mt, err)
		assert.Equal(mt, int64(2), updated)

		update := statement(mt, "update", "updates")
		assert.Equal(mt, sender, update.Lookup("q", "sender").ObjectID())
		assert.Equal(mt, reader, update.Lookup("q", "recipient").ObjectID())
		assert.False(mt, update.Lookup("q", "read").Boolean())
		assert.True(mt, update.Lookup("u", "$set", "read").Boolean())
		assert.True(mt, update.Lookup("multi").Boolean())
	})
}

func TestUserRepository_SetFollow(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	follower := primitive.NewObjectID()
	followed := primitive.NewObjectID()

	mt.Run("Follow writes both sides", func(mt *mtest.T) {
		repo := NewUserRepository(newMockDatabase(mt))
		mt.AddMockResponses(updateResponse(1), updateResponse(1))

		require.NoError(mt, repo.SetFollow(context.Background(), follower, followed, true))

		first := statement(mt, "update", "updates")
		assert.Equal(mt, follower, first.Lookup("q", "_id").ObjectID())
		assert.Equal(mt, followed, first.Lookup("u", "$addToSet", "following").ObjectID())

		second := statement(mt, "update", "updates")
		assert.Equal(mt, followed, second.Lookup("q", "_id").ObjectID())
		assert.Equal(mt, follower, second.Lookup("u", "$addToSet", "followers").ObjectID())
	})

	mt.Run("Unfollow pulls both sides", func(mt *mtest.T) {
		repo := NewUserRepository(newMockDatabase(mt))
		mt.AddMockResponses(updateResponse(1), updateResponse(1))

		require.NoError(mt, repo.SetFollow(context.Background(), follower, followed, false))

		first := statement(mt, "update", "updates")
		assert.Equal(mt, followed, first.Lookup("u", "$pull", "following").ObjectID())
		second := statement(mt, "update", "updates")
		assert.Equal(mt, follower, second.Lookup("u", "$pull", "followers").ObjectID())
	})

	mt.Run("Stops after the first failed write", func(mt *mtest.T) {
		repo := NewUserRepository(newMockDatabase(mt))
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad value",
		}))

		assert.Error(mt, repo.SetFollow(context.Background(), follower, followed, true))
		statement(mt, "update", "updates")
		assert.Nil(mt, mt.GetStartedEvent())
	})
}
