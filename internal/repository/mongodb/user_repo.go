package mongodb

import (
	"context"
	"errors"
	"regexp"
	"time"

	"social-backend/internal/model"
	"social-backend/internal/repository/interfaces"
	"social-backend/internal/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// userRepository implements interfaces.UserRepository on the users collection
type userRepository struct {
	db *Database
}

// NewUserRepository creates a userRepository
func NewUserRepository(db *Database) *userRepository {
	return &userRepository{db}
}

func (r *userRepository) coll() *mongo.Collection {
	return r.db.collection(usersCollection)
}

// Create inserts a new user; a taken email yields interfaces.ErrDuplicateKey
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Followers == nil {
		user.Followers = []primitive.ObjectID{}
	}
	if user.Following == nil {
		user.Following = []primitive.ObjectID{}
	}

	if _, err := r.coll().InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return interfaces.ErrDuplicateKey
		}
		util.Logger.Error("failed to create user", zap.String("email", user.Email), zap.Error(err))
		return err
	}
	return nil
}

// FindByID returns nil, nil when no user has the id
func (r *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByEmail returns nil, nil when the email is not registered
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	err := r.coll().FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		util.Logger.Error("failed to find user", zap.Any("filter", filter), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error) {
	if len(ids) == 0 {
		return []*model.User{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

// Search matches name or email case-insensitively and leaves out excludeID
func (r *userRepository) Search(ctx context.Context, query string, excludeID primitive.ObjectID) ([]*model.User, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{
		"_id": bson.M{"$ne": excludeID},
		"$or": bson.A{
			bson.M{"name": pattern},
			bson.M{"email": pattern},
		},
	}
	return r.find(ctx, filter, nil)
}

func (r *userRepository) FindNotIn(ctx context.Context, exclude []primitive.ObjectID, limit int64) ([]*model.User, error) {
	if exclude == nil {
		exclude = []primitive.ObjectID{}
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$nin": exclude}}, options.Find().SetLimit(limit))
}

func (r *userRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.User, error) {
	if opts == nil {
		opts = options.Find()
	}
	cursor, err := r.coll().Find(ctx, filter, opts)
	if err != nil {
		util.Logger.Error("failed to query users", zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []*model.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateAvatar stores the new avatar and returns the updated user, or nil when it does not exist
func (r *userRepository) UpdateAvatar(ctx context.Context, id primitive.ObjectID, avatar string) (*model.User, error) {
	var user model.User
	err := r.coll().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"avatar": avatar, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		util.Logger.Error("failed to update avatar", zap.String("user_id", id.Hex()), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

// SetFollow writes both sides of the edge in one transaction when transactions are enabled
func (r *userRepository) SetFollow(ctx context.Context, followerID, followedID primitive.ObjectID, follow bool) error {
	op := "$pull"
	if follow {
		op = "$addToSet"
	}
	now := time.Now()

	return r.db.withTransaction(ctx, func(ctx context.Context) error {
		if _, err := r.coll().UpdateOne(ctx,
			bson.M{"_id": followerID},
			bson.M{op: bson.M{"following": followedID}, "$set": bson.M{"updatedAt": now}},
		); err != nil {
			util.Logger.Error("failed to update following", zap.String("user_id", followerID.Hex()), zap.Error(err))
			return err
		}
		if _, err := r.coll().UpdateOne(ctx,
			bson.M{"_id": followedID},
			bson.M{op: bson.M{"followers": followerID}, "$set": bson.M{"updatedAt": now}},
		); err != nil {
			util.Logger.Error("failed to update followers", zap.String("user_id", followedID.Hex()), zap.Error(err))
			return err
		}
		return nil
	})
}
