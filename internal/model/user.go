package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a registered account
type User struct {
	ID           primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name         string               `json:"name" bson:"name"`
	Email        string               `json:"email" bson:"email"`
	PasswordHash string               `json:"-" bson:"password"`
	Avatar       string               `json:"avatar" bson:"avatar"`
	Followers    []primitive.ObjectID `json:"followers" bson:"followers"`
	Following    []primitive.ObjectID `json:"following" bson:"following"`
	CreatedAt    time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// UserSummary is the public projection used wherever a user is embedded in another resource
type UserSummary struct {
	ID     primitive.ObjectID `json:"id"`
	Name   string             `json:"name"`
	Email  string             `json:"email"`
	Avatar string             `json:"avatar"`
}

// Summary projects u onto its public fields
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Avatar: u.Avatar,
	}
}

// IsFollowing reports whether u follows id
func (u *User) IsFollowing(id primitive.ObjectID) bool {
	return ContainsID(u.Following, id)
}

// Profile is a user with its relationship sets resolved to summaries
type Profile struct {
	ID        primitive.ObjectID `json:"id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Avatar    string             `json:"avatar"`
	Followers []*UserSummary     `json:"followers"`
	Following []*UserSummary     `json:"following"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// SearchResult is a search hit; it keeps the raw relationship ids so clients can render follow state
type SearchResult struct {
	ID        primitive.ObjectID   `json:"id"`
	Name      string               `json:"name"`
	Email     string               `json:"email"`
	Avatar    string               `json:"avatar"`
	Followers []primitive.ObjectID `json:"followers"`
	Following []primitive.ObjectID `json:"following"`
}

// ContainsID reports whether id is in ids
func ContainsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
