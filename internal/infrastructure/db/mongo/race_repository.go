package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eventvault/racing-api/internal/core/domain"
	"github.com/eventvault/racing-api/internal/core/ports"
)

const racesCollection = "races"

type RaceRepository struct {
	coll *mongo.Collection
}

func NewRaceRepository(db *mongo.Database) *RaceRepository {
	return &RaceRepository{coll: db.Collection(racesCollection)}
}

type raceDoc struct {
	ID            string    `bson:"_id"`
	Title         string    `bson:"title"`
	Championship  string    `bson:"championship"`
	Type          string    `bson:"type"`
	Location      string    `bson:"location"`
	RaceStartTime time.Time `bson:"race_start_time"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

func (d raceDoc) toDomain() *domain.Race {
	return &domain.Race{
		ID:            d.ID,
		Title:         d.Title,
		Championship:  d.Championship,
		Type:          domain.RaceType(d.Type),
		Location:      d.Location,
		RaceStartTime: d.RaceStartTime.UTC(),
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

func raceIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "race_start_time", Value: 1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "type", Value: 1}}},
		{Keys: bson.D{{Key: "championship", Value: 1}}},
	}
}

// raceFilter translates f into a query document. An exact start time wins
// over the range.
func raceFilter(f ports.RaceFilter) bson.M {
	filter := bson.M{}
	if f.Type != "" {
		filter["type"] = string(f.Type)
	}
	if f.Championship != "" {
		filter["championship"] = f.Championship
	}
	if f.StartTime != nil {
		filter["race_start_time"] = *f.StartTime
		return filter
	}

	rng := bson.M{}
	if f.StartFrom != nil {
		rng["$gte"] = *f.StartFrom
	}
	if f.StartTo != nil {
		rng["$lte"] = *f.StartTo
	}
	if len(rng) > 0 {
		filter["race_start_time"] = rng
	}
	return filter
}

func (r *RaceRepository) Create(ctx context.Context, race *domain.Race) error {
	const op = "mongo.RaceRepository.Create"
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := raceDoc{
		ID:            race.ID,
		Title:         race.Title,
		Championship:  race.Championship,
		Type:          string(race.Type),
		Location:      race.Location,
		RaceStartTime: race.RaceStartTime,
		CreatedAt:     race.CreatedAt,
		UpdatedAt:     race.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *RaceRepository) FindByID(ctx context.Context, id string) (*domain.Race, error) {
	const op = "mongo.RaceRepository.FindByID"
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc raceDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrRaceNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return doc.toDomain(), nil
}

func (r *RaceRepository) List(ctx context.Context, f ports.RaceFilter) ([]*domain.Race, error) {
	const op = "mongo.RaceRepository.List"
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "race_start_time", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(f.Offset())).
		SetLimit(int64(f.PageSize))

	cur, err := r.coll.Find(ctx, raceFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cur.Close(ctx)

	var docs []raceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	races := make([]*domain.Race, 0, len(docs))
	for _, d := range docs {
		races = append(races, d.toDomain())
	}
	return races, nil
}

func (r *RaceRepository) Update(ctx context.Context, id string, u ports.RaceUpdate) (*domain.Race, error) {
	const op = "mongo.RaceRepository.Update"

	set := bson.M{}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Championship != nil {
		set["championship"] = *u.Championship
	}
	if u.Type != nil {
		set["type"] = string(*u.Type)
	}
	if u.Location != nil {
		set["location"] = *u.Location
	}
	if u.RaceStartTime != nil {
		set["race_start_time"] = *u.RaceStartTime
	}
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}
	set["updated_at"] = time.Now().UTC()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc raceDoc
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrRaceNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return doc.toDomain(), nil
}

func (r *RaceRepository) Delete(ctx context.Context, id string) (*domain.Race, error) {
	const op = "mongo.RaceRepository.Delete"
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc raceDoc
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrRaceNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return doc.toDomain(), nil
}
