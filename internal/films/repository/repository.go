package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"film_catalog_backend/platform/apperr"
	"film_catalog_backend/platform/pagination"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionFilms = "films"

// MongoRepository is the MongoDB-backed film Repository.
type MongoRepository struct {
	collection *mongo.Collection
}

// New creates a film repository over the films collection of db.
func New(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection(collectionFilms)}
}

type filmDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Director  string             `bson:"director"`
	Year      int                `bson:"year"`
	Genre     string             `bson:"genre"`
	Owner     primitive.ObjectID `bson:"owner"`
	Comments  []commentDocument  `bson:"comments"`
	Poster    *posterDocument    `bson:"poster,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type commentDocument struct {
	Comment       string             `bson:"comment"`
	OwnerID       primitive.ObjectID `bson:"owner"`
	OwnerUserName string             `bson:"ownerUserName"`
}

type posterDocument struct {
	URLOriginal string `bson:"urlOriginal"`
	URL         string `bson:"url"`
	Mimetype    string `bson:"mimetype"`
	Size        int64  `bson:"size"`
}

// EnsureIndexes creates the genre index used by filtered listings.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "genre", Value: 1}, {Key: "_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("ensure film indexes: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, film Film) (Film, error) {
	now := time.Now().UTC()
	film.CreatedAt = now
	film.UpdatedAt = now

	doc, err := toDocument(film)
	if err != nil {
		return Film{}, err
	}
	doc.ID = primitive.NewObjectID()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return Film{}, fmt.Errorf("create film: %w", err)
	}
	return doc.toFilm(), nil
}

func (r *MongoRepository) QueryByID(ctx context.Context, id string) (Film, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Film{}, apperr.NotFound(msgFilmNotFound)
	}

	var doc filmDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Film{}, apperr.NotFound(msgFilmNotFound)
	}
	if err != nil {
		return Film{}, fmt.Errorf("get film: %w", err)
	}
	return doc.toFilm(), nil
}

func (r *MongoRepository) Query(ctx context.Context, page, pageSize int, filter Filter) ([]Film, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(pagination.Offset(page, pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.collection.Find(ctx, filterDocument(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("query films: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []filmDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode films: %w", err)
	}

	films := make([]Film, 0, len(docs))
	for _, doc := range docs {
		films = append(films, doc.toFilm())
	}
	return films, nil
}

func (r *MongoRepository) Count(ctx context.Context, filter Filter) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, filterDocument(filter))
	if err != nil {
		return 0, fmt.Errorf("count films: %w", err)
	}
	return count, nil
}

func (r *MongoRepository) Update(ctx context.Context, id string, film Film) (Film, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Film{}, apperr.NotFound(msgFilmNotFound)
	}

	film.UpdatedAt = time.Now().UTC()
	doc, err := toDocument(film)
	if err != nil {
		return Film{}, err
	}
	doc.ID = oid

	opts := options.FindOneAndReplace().SetReturnDocument(options.After)
	var updated filmDocument
	err = r.collection.FindOneAndReplace(ctx, bson.M{"_id": oid}, doc, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Film{}, apperr.NotFound(msgFilmNotFound)
	}
	if err != nil {
		return Film{}, fmt.Errorf("update film: %w", err)
	}
	return updated.toFilm(), nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.NotFound(msgFilmNotFound)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete film: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound(msgFilmNotFound)
	}
	return nil
}

func filterDocument(filter Filter) bson.M {
	query := bson.M{}
	if filter.Genre != "" {
		query["genre"] = filter.Genre
	}
	return query
}

func toDocument(film Film) (filmDocument, error) {
	owner, err := primitive.ObjectIDFromHex(film.Owner)
	if err != nil {
		return filmDocument{}, apperr.BadRequest("invalid film owner id")
	}

	comments := make([]commentDocument, 0, len(film.Comments))
	for _, c := range film.Comments {
		commentOwner, err := primitive.ObjectIDFromHex(c.OwnerID)
		if err != nil {
			return filmDocument{}, apperr.BadRequest("invalid comment owner id")
		}
		comments = append(comments, commentDocument{
			Comment:       c.Comment,
			OwnerID:       commentOwner,
			OwnerUserName: c.OwnerUserName,
		})
	}

	doc := filmDocument{
		Title:     film.Title,
		Director:  film.Director,
		Year:      film.Year,
		Genre:     film.Genre,
		Owner:     owner,
		Comments:  comments,
		CreatedAt: film.CreatedAt,
		UpdatedAt: film.UpdatedAt,
	}
	if film.Poster != nil {
		doc.Poster = &posterDocument{
			URLOriginal: film.Poster.URLOriginal,
			URL:         film.Poster.URL,
			Mimetype:    film.Poster.Mimetype,
			Size:        film.Poster.Size,
		}
	}
	return doc, nil
}

func (d filmDocument) toFilm() Film {
	comments := make([]Comment, 0, len(d.Comments))
	for _, c := range d.Comments {
		comments = append(comments, Comment{
			Comment:       c.Comment,
			OwnerID:       c.OwnerID.Hex(),
			OwnerUserName: c.OwnerUserName,
		})
	}

	film := Film{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Director:  d.Director,
		Year:      d.Year,
		Genre:     d.Genre,
		Owner:     d.Owner.Hex(),
		Comments:  comments,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.Poster != nil {
		film.Poster = &Poster{
			URLOriginal: d.Poster.URLOriginal,
			URL:         d.Poster.URL,
			Mimetype:    d.Poster.Mimetype,
			Size:        d.Poster.Size,
		}
	}
	return film
}

var _ Repository = (*MongoRepository)(nil)
