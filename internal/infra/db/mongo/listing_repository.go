package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gharbazaar/internal/domain/listing"
)

var (
	ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")
	ErrListingNotFound  = fmt.Errorf("mongo: %w", listing.ErrNotFound)
)

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection("listings")}
}

// EnsureIndexes creates the indexes the compiled search predicates depend on.
func (r *ListingRepository) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "is_deleted", Value: 1}, {Key: "listing_type", Value: 1}}},
		{Keys: bson.D{{Key: "property_type", Value: 1}}},
		{Keys: bson.D{{Key: "property_category", Value: 1}}},
		{Keys: bson.D{{Key: "location.city", Value: 1}}},
		{Keys: bson.D{{Key: "listing_score", Value: -1}}},
		{Keys: bson.D{{Key: "is_premium", Value: -1}, {Key: "premium.boost_rank", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "premium.end_date", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, models)
	return err
}

func (r *ListingRepository) ByID(ctx context.Context, id listing.ID) (*listing.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *ListingRepository) Save(ctx context.Context, l *listing.Listing) error {
	doc := newListingDocument(l)
	filter := bson.M{"_id": doc.ID, "version": l.Version}
	doc.Version = l.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	l.Version = doc.Version
	return nil
}

// Search executes a compiled filter with the canonical sort, skip and limit.
// A distance sort (only reachable with a resolved center) goes through an
// aggregation pipeline that ranks by planar squared distance.
func (r *ListingRepository) Search(ctx context.Context, q listing.Query) (listing.SearchResult, error) {
	q = q.Normalized()
	filter := compileFilter(q)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return listing.SearchResult{}, err
	}
	if total == 0 {
		return listing.SearchResult{Total: 0}, nil
	}

	var cursor *mongo.Cursor
	if q.Sort == listing.SortDistance && q.Center != nil {
		cursor, err = r.col.Aggregate(ctx, distancePipeline(filter, q))
	} else {
		opts := options.Find().
			SetSort(sortSpec(q)).
			SetSkip(int64(q.Offset())).
			SetLimit(int64(q.Limit))
		cursor, err = r.col.Find(ctx, filter, opts)
	}
	if err != nil {
		return listing.SearchResult{}, err
	}
	defer cursor.Close(ctx)

	items := make([]*listing.Listing, 0, q.Limit)
	for cursor.Next(ctx) {
		var doc listingDocument
		if err := cursor.Decode(&doc); err != nil {
			return listing.SearchResult{}, err
		}
		items = append(items, doc.toEntity())
	}
	if err := cursor.Err(); err != nil {
		return listing.SearchResult{}, err
	}
	return listing.SearchResult{Items: items, Total: total}, nil
}

// distancePipeline adds a squared planar distance from the search center and
// sorts on it after the premium tiebreak prefix. Squared distance preserves
// ordering, so no root is taken.
func distancePipeline(filter bson.M, q listing.Query) mongo.Pipeline {
	latDiff := bson.M{"$subtract": bson.A{"$location.coordinates.lat", q.Center.Lat}}
	lngDiff := bson.M{"$subtract": bson.A{"$location.coordinates.lng", q.Center.Lng}}
	return mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$addFields", Value: bson.M{
			"distance_sq": bson.M{"$add": bson.A{
				bson.M{"$multiply": bson.A{latDiff, latDiff}},
				bson.M{"$multiply": bson.A{lngDiff, lngDiff}},
			}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "is_premium", Value: -1},
			{Key: "premium.boost_rank", Value: -1},
			{Key: "distance_sq", Value: 1},
			{Key: "_id", Value: 1},
		}}},
		{{Key: "$skip", Value: q.Offset()}},
		{{Key: "$limit", Value: q.Limit}},
	}
}

// ExpirePremium clears the boost on every listing whose window has passed.
// The update is idempotent: re-running it matches nothing new.
func (r *ListingRepository) ExpirePremium(ctx context.Context, now time.Time) (int64, error) {
	filter := bson.M{
		"is_premium":       true,
		"premium.end_date": bson.M{"$lt": now.UnixMilli()},
	}
	update := bson.M{
		"$set":   bson.M{"is_premium": false, "updated_at": now.UnixMilli()},
		"$unset": bson.M{"premium": ""},
	}
	res, err := r.col.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

var _ listing.Repository = (*ListingRepository)(nil)
