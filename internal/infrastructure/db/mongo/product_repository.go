package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storefront/commerce-api/internal/core/domain"
)

const collectionProducts = "products"

type ProductRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection(collectionProducts), now: time.Now}
}

type mongoProduct struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Image       string             `bson:"image"`
	Tags        []string           `bson:"tags"`
	SellerID    primitive.ObjectID `bson:"sellerId"`
	SoldCount   int                `bson:"soldCount"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// mongoListing is a product after the seller $lookup. Seller is absent when
// the owning user was removed.
type mongoListing struct {
	mongoProduct `bson:",inline"`
	Seller       *mongoUser `bson:"seller,omitempty"`
}

func (mp *mongoProduct) toDomain() *domain.Product {
	tags := mp.Tags
	if tags == nil {
		tags = []string{}
	}
	return &domain.Product{
		ID:          mp.ID.Hex(),
		Title:       mp.Title,
		Description: mp.Description,
		Price:       mp.Price,
		Image:       mp.Image,
		Tags:        tags,
		SellerID:    mp.SellerID.Hex(),
		SoldCount:   mp.SoldCount,
		CreatedAt:   mp.CreatedAt.UTC(),
		UpdatedAt:   mp.UpdatedAt.UTC(),
	}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	seller, err := objectID(p.SellerID)
	if err != nil {
		return nil, fmt.Errorf("insert product: seller %q: %w", p.SellerID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoProduct{
		ID:          primitive.NewObjectID(),
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Tags:        p.Tags,
		SellerID:    seller,
		SoldCount:   p.SoldCount,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoProduct
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *ProductRepository) ListBySeller(ctx context.Context, sellerID string) ([]*domain.Product, error) {
	seller, err := objectID(sellerID)
	if err != nil {
		return []*domain.Product{}, nil
	}
	return r.find(ctx, bson.M{"sellerId": seller})
}

// ListWithSellers returns every product joined with its seller's public
// fields.
func (r *ProductRepository) ListWithSellers(ctx context.Context) ([]*domain.ProductListing, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionUsers,
			"localField":   "sellerId",
			"foreignField": "_id",
			"as":           "seller",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$seller", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$project", Value: bson.M{"seller.password": 0, "seller.address": 0}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cur.Close(ctx)

	out := []*domain.ProductListing{}
	for cur.Next(ctx) {
		var ml mongoListing
		if err := cur.Decode(&ml); err != nil {
			return nil, fmt.Errorf("decode listing: %w", err)
		}
		listing := &domain.ProductListing{Product: *ml.toDomain()}
		if ml.Seller != nil {
			listing.Seller = &domain.SellerSummary{
				ID:    ml.Seller.ID.Hex(),
				Name:  ml.Seller.Name,
				Email: ml.Seller.Email,
			}
		}
		out = append(out, listing)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	oid, err := objectID(p.ID)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	update := bson.M{"$set": bson.M{
		"title":       p.Title,
		"description": p.Description,
		"price":       p.Price,
		"image":       p.Image,
		"tags":        tags,
		"updatedAt":   p.UpdatedAt,
	}}
	return r.findOneAndUpdate(ctx, oid, update)
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return domain.ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// IncrementSold bumps soldCount by one with a single $inc so concurrent
// purchases never lose an update.
func (r *ProductRepository) IncrementSold(ctx context.Context, id string) (int, error) {
	oid, err := objectID(id)
	if err != nil {
		return 0, domain.ErrProductNotFound
	}

	update := bson.M{
		"$inc": bson.M{"soldCount": 1},
		"$set": bson.M{"updatedAt": r.now().UTC()},
	}
	p, err := r.findOneAndUpdate(ctx, oid, update)
	if err != nil {
		return 0, err
	}
	return p.SoldCount, nil
}

func (r *ProductRepository) FindByExactTag(ctx context.Context, tag string) ([]*domain.Product, error) {
	return r.find(ctx, bson.M{"tags": tag})
}

// FindByTagFragments matches products having any tag that contains one of
// fragments, case-insensitively. Fragments are matched literally.
func (r *ProductRepository) FindByTagFragments(ctx context.Context, fragments []string) ([]*domain.Product, error) {
	if len(fragments) == 0 {
		return []*domain.Product{}, nil
	}
	patterns := make(bson.A, 0, len(fragments))
	for _, f := range fragments {
		patterns = append(patterns, containsPattern(f))
	}
	return r.find(ctx, bson.M{"tags": bson.M{"$in": patterns}})
}

func (r *ProductRepository) FindByText(ctx context.Context, text string) ([]*domain.Product, error) {
	pattern := containsPattern(text)
	return r.find(ctx, bson.M{"$or": bson.A{
		bson.M{"title": pattern},
		bson.M{"description": pattern},
	}})
}

// EnsureIndexes creates the indexes used by seller listings and tag search.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "sellerId", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *ProductRepository) find(ctx context.Context, filter bson.M) ([]*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cur.Close(ctx)

	out := []*domain.Product{}
	for cur.Next(ctx) {
		var mp mongoProduct
		if err := cur.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		out = append(out, mp.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	return out, nil
}

func (r *ProductRepository) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mp mongoProduct
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return mp.toDomain(), nil
}

func containsPattern(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}
