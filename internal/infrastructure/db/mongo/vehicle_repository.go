package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carlot/inventory-api/internal/core/domain"
)

const collectionVehicles = "vehicles"

type VehicleRepository struct {
	col *mongo.Collection
	seq *sequence
}

func NewVehicleRepository(db *mongo.Database) *VehicleRepository {
	return &VehicleRepository{
		col: db.Collection(collectionVehicles),
		seq: newSequence(db, collectionVehicles),
	}
}

type vehicleDocument struct {
	ID        int64     `bson:"_id"`
	Brand     string    `bson:"brand"`
	Model     string    `bson:"model"`
	Year      int       `bson:"year"`
	Price     float64   `bson:"price"`
	Color     string    `bson:"color,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d *vehicleDocument) toDomain() *domain.Vehicle {
	return &domain.Vehicle{
		ID:        d.ID,
		Brand:     d.Brand,
		Model:     d.Model,
		Year:      d.Year,
		Price:     d.Price,
		Color:     d.Color,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

func (r *VehicleRepository) List(ctx context.Context) ([]*domain.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer cur.Close(ctx)

	var docs []vehicleDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode vehicles: %w", err)
	}

	out := make([]*domain.Vehicle, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *VehicleRepository) FindByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc vehicleDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find vehicle: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *VehicleRepository) Create(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := vehicleDocument{
		ID:        id,
		Brand:     v.Brand,
		Model:     v.Model,
		Year:      v.Year,
		Price:     v.Price,
		Color:     v.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert vehicle: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *VehicleRepository) Update(ctx context.Context, id int64, patch domain.VehiclePatch) (*domain.Vehicle, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc vehicleDocument
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": vehicleSet(patch, time.Now().UTC().Truncate(time.Millisecond))},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("update vehicle: %w", err)
	}
	return doc.toDomain(), nil
}

// vehicleSet builds the $set document for patch. Only present fields are
// written, plus the refreshed updated_at.
func vehicleSet(patch domain.VehiclePatch, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	if patch.Brand != nil {
		set["brand"] = *patch.Brand
	}
	if patch.Model != nil {
		set["model"] = *patch.Model
	}
	if patch.Year != nil {
		set["year"] = *patch.Year
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Color != nil {
		set["color"] = *patch.Color
	}
	return set
}

func (r *VehicleRepository) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete vehicle: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *VehicleRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count vehicles: %w", err)
	}
	return n, nil
}

// EnsureIndexes creates the lookup indexes on the vehicles collection.
func (r *VehicleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "brand", Value: 1}, {Key: "model", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
