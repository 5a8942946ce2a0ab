package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/brainiacs/portal/internal/model"
)

// UsersCollection is the name of the collection holding user documents.
const UsersCollection = "users"

// userDocument is the stored shape of a user.  Exactly one of the profile
// fields is set for students and teachers; admins have neither.
type userDocument struct {
	ID             string                `bson:"_id"`
	Email          string                `bson:"email"`
	PasswordHash   string                `bson:"passwordHash"`
	Role           string                `bson:"role"`
	StudentProfile *model.StudentProfile `bson:"studentProfile,omitempty"`
	TeacherProfile *model.TeacherProfile `bson:"teacherProfile,omitempty"`
	CreatedAt      time.Time             `bson:"createdAt"`
}

func toDocument(u model.User) userDocument {
	d := userDocument{
		ID:           u.ID,
		Email:        model.NormalizeEmail(u.Email),
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
	}
	if p, ok := u.Student(); ok {
		d.StudentProfile = p
	}
	if p, ok := u.Teacher(); ok {
		d.TeacherProfile = p
	}
	return d
}

// toModel converts d back to a user.  A student or teacher document without
// its profile is rejected.
func (d userDocument) toModel() (model.User, error) {
	u := model.User{
		ID:           d.ID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         model.Role(d.Role),
		CreatedAt:    d.CreatedAt.UTC(),
	}
	switch u.Role {
	case model.RoleStudent:
		if d.StudentProfile == nil {
			return model.User{}, fmt.Errorf("user %s: %w", d.ID, ErrMissingProfile)
		}
		u.Profile = cloneProfile(d.StudentProfile)
	case model.RoleTeacher:
		if d.TeacherProfile == nil {
			return model.User{}, fmt.Errorf("user %s: %w", d.ID, ErrMissingProfile)
		}
		u.Profile = cloneProfile(d.TeacherProfile)
	}
	return u, nil
}

// profileField names the document field holding the profile of role r.
func profileField(r model.Role) string {
	if r == model.RoleTeacher {
		return "teacherProfile"
	}
	return "studentProfile"
}

// MongoUserRepo stores users in a MongoDB collection.
type MongoUserRepo struct{ Coll *mongo.Collection }

func NewMongoUserRepo(coll *mongo.Collection) *MongoUserRepo { return &MongoUserRepo{Coll: coll} }

// EnsureIndexes creates the unique email index that backs ErrEmailExists.
func (r *MongoUserRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.Coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

func (r *MongoUserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = model.NormalizeEmail(u.Email)
	if _, err := r.Coll.InsertOne(ctx, toDocument(*u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *MongoUserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.findOne(ctx, bson.M{"email": model.NormalizeEmail(email)})
}

func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (model.User, error) {
	var d userDocument
	if err := r.Coll.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("find user: %w", err)
	}
	return d.toModel()
}

func (r *MongoUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := r.Coll.CountDocuments(ctx, bson.M{"email": model.NormalizeEmail(email)}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func (r *MongoUserRepo) UpdateProfile(ctx context.Context, id string, p model.Profile) (model.User, error) {
	if p == nil {
		return model.User{}, ErrNotFound
	}
	filter := bson.M{"_id": id, "role": string(p.Role())}
	update := bson.M{"$set": bson.M{profileField(p.Role()): p}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d userDocument
	if err := r.Coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("update profile: %w", err)
	}
	return d.toModel()
}

func (r *MongoUserRepo) CountByRole(ctx context.Context) (map[model.Role]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$role"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := r.Coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate roles: %w", err)
	}
	var rows []struct {
		Role  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode role counts: %w", err)
	}
	out := make(map[model.Role]int64, len(rows))
	for _, row := range rows {
		out[model.Role(row.Role)] = row.Count
	}
	return out, nil
}
