package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/imagevision/vision-api/internal/core/domain"
)

const imageCollection = "images"

// ImageRepository persists classification history records in Mongo.
type ImageRepository struct {
	coll *mongo.Collection
}

func NewImageRepository(db *mongo.Database) *ImageRepository {
	return &ImageRepository{coll: db.Collection(imageCollection)}
}

type mongoImage struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Filename    string             `bson:"filename"`
	Width       int                `bson:"width"`
	Height      int                `bson:"height"`
	Label       string             `bson:"label"`
	Probability *float64           `bson:"probability,omitempty"`
	Username    string             `bson:"username"`
	CreatedAt   int64              `bson:"created_at"`
}

func (r *ImageRepository) Insert(ctx context.Context, image *domain.Image) error {
	doc := mongoImage{
		Filename:    image.Filename,
		Width:       image.Width,
		Height:      image.Height,
		Label:       image.Label,
		Probability: image.Probability,
		Username:    image.Username,
		CreatedAt:   image.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%w: insert image: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *ImageRepository) ListByUsername(ctx context.Context, username string, limit int) ([]domain.Image, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{"username": username}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: list images: %v", domain.ErrStoreUnavailable, err)
	}
	defer cur.Close(ctx)

	var images []domain.Image
	for cur.Next(ctx) {
		var mi mongoImage
		if err := cur.Decode(&mi); err != nil {
			return nil, fmt.Errorf("%w: decode image: %v", domain.ErrStoreUnavailable, err)
		}
		images = append(images, domain.Image{
			ID:          mi.ID.Hex(),
			Filename:    mi.Filename,
			Width:       mi.Width,
			Height:      mi.Height,
			Label:       mi.Label,
			Probability: mi.Probability,
			Username:    mi.Username,
			CreatedAt:   unixToTime(mi.CreatedAt),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%w: list images: %v", domain.ErrStoreUnavailable, err)
	}
	return images, nil
}
