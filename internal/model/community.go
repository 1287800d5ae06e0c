package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	ID            primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	UserID        primitive.ObjectID   `json:"user" bson:"user"`
	Text          string               `json:"text" bson:"text"`
	Image         string               `json:"image,omitempty" bson:"image,omitempty"`
	Likes         []primitive.ObjectID `json:"likes" bson:"likes"`
	CreatedAt     time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt" bson:"updatedAt"`
	Author        *UserSummary         `json:"author,omitempty" bson:"-"`
	IsLikedByUser bool                 `json:"isLikedByUser" bson:"-"`
}

// LikedBy reports whether userID is in the like set
func (p *Post) LikedBy(userID primitive.ObjectID) bool {
	return ContainsID(p.Likes, userID)
}

// LikeResult is returned by a like toggle
type LikeResult struct {
	ID         primitive.ObjectID `json:"id"`
	Liked      bool               `json:"liked"`
	LikesCount int                `json:"likesCount"`
}

// Comment is either a top-level comment or, with ParentID set, a reply to one
type Comment struct {
	ID        primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID  `json:"user" bson:"user"`
	PostID    primitive.ObjectID  `json:"post" bson:"post"`
	ParentID  *primitive.ObjectID `json:"parentId" bson:"parentId"`
	Text      string              `json:"text" bson:"text"`
	CreatedAt time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt" bson:"updatedAt"`
	Author    *UserSummary        `json:"author,omitempty" bson:"-"`
}

// IsReply reports whether c hangs under another comment
func (c *Comment) IsReply() bool {
	return c.ParentID != nil && !c.ParentID.IsZero()
}

// FollowResult is returned by a follow toggle
type FollowResult struct {
	Following      []primitive.ObjectID `json:"following"`
	FollowersCount int                  `json:"followersCount"`
	IsFollowing    bool                 `json:"isFollowing"`
}
