package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"film_catalog_backend/platform/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionUsers = "users"
	msgUserNotFound = "user not found"
)

// Repository is the MongoDB-backed UserRepository.
type Repository struct {
	collection *mongo.Collection
}

// New creates a user repository over the users collection of db.
func New(db *mongo.Database) *Repository {
	return &Repository{collection: db.Collection(collectionUsers)}
}

type userDocument struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	UserName     string               `bson:"userName"`
	Email        string               `bson:"email"`
	PasswordHash string               `bson:"password"`
	Films        []primitive.ObjectID `bson:"films"`
	CreatedAt    time.Time            `bson:"createdAt"`
}

// EnsureIndexes creates the unique indexes backing userName and email.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: KeyUserName, Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: KeyEmail, Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("ensure user indexes: %w", err)
	}
	return nil
}

func (r *Repository) Create(ctx context.Context, user User) (User, error) {
	doc := userDocument{
		ID:           primitive.NewObjectID(),
		UserName:     user.UserName,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Films:        []primitive.ObjectID{},
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return doc.toUser(), nil
}

func (r *Repository) QueryByID(ctx context.Context, id string) (User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return User{}, apperr.NotFound(msgUserNotFound)
	}

	var doc userDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return User{}, apperr.NotFound(msgUserNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return doc.toUser(), nil
}

func (r *Repository) Search(ctx context.Context, key, value string) ([]User, error) {
	if !validSearchKey(key) {
		return nil, apperr.BadRequest(fmt.Sprintf("unsupported search key %q", key))
	}

	cursor, err := r.collection.Find(ctx, bson.M{key: value})
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, doc.toUser())
	}
	return users, nil
}

func (r *Repository) AddFilm(ctx context.Context, userID, filmID string) error {
	return r.updateFilms(ctx, "add user film", userID, filmID, "$addToSet")
}

func (r *Repository) RemoveFilm(ctx context.Context, userID, filmID string) error {
	return r.updateFilms(ctx, "remove user film", userID, filmID, "$pull")
}

func (r *Repository) updateFilms(ctx context.Context, op, userID, filmID, operator string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperr.NotFound(msgUserNotFound)
	}
	fid, err := primitive.ObjectIDFromHex(filmID)
	if err != nil {
		return apperr.BadRequest("invalid film id").WithOp(op)
	}

	res, err := r.collection.UpdateByID(ctx, uid, bson.M{operator: bson.M{"films": fid}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound(msgUserNotFound)
	}
	return nil
}

func (d userDocument) toUser() User {
	films := make([]string, 0, len(d.Films))
	for _, id := range d.Films {
		films = append(films, id.Hex())
	}
	return User{
		ID:           d.ID.Hex(),
		UserName:     d.UserName,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Films:        films,
		CreatedAt:    d.CreatedAt,
	}
}

var _ UserRepository = (*Repository)(nil)
