package services

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamamaps/backend/internal/models"
	"github.com/mamamaps/backend/internal/trust"
)

type MongoReportService struct {
	client      *mongo.Client
	db          *mongo.Database
	reportsColl *mongo.Collection
}

type mongoGeoPoint struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"` // [lng, lat]
}

type mongoReportDoc struct {
	ID            string            `bson:"_id"`
	Type          models.ReportType `bson:"type"`
	Latitude      float64           `bson:"latitude"`
	Longitude     float64           `bson:"longitude"`
	ImageURL      string            `bson:"image_url"`
	ReporterID    string            `bson:"reporter_id"`
	CreatedAt     time.Time         `bson:"created_at"`
	ExpiresAt     time.Time         `bson:"expires_at"`
	VerifiedCount int               `bson:"verified_count"`
	Location      mongoGeoPoint     `bson:"location"`
}

func NewMongoReportService(ctx context.Context, mongoURI, dbName string) (*MongoReportService, error) {
	// Atlas occasionally fails TLS negotiation in some environments unless we force TLS 1.2.
	tlsCfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS12,
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI).SetTLSConfig(tlsCfg))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	reports := db.Collection("reports")

	svc := &MongoReportService{
		client:      client,
		db:          db,
		reportsColl: reports,
	}

	// Best-effort indexes.
	_, _ = reports.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "reporter_id", Value: 1}}},
		{Keys: bson.D{{Key: "expires_at", Value: 1}}},
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
	})

	logrus.Infof("MongoDB connected: db=%s", dbName)
	return svc, nil
}

func (s *MongoReportService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func reportDocToModel(d mongoReportDoc) *models.Report {
	return &models.Report{
		ID:            d.ID,
		Type:          d.Type,
		Latitude:      d.Latitude,
		Longitude:     d.Longitude,
		ImageURL:      d.ImageURL,
		ReporterID:    d.ReporterID,
		CreatedAt:     d.CreatedAt,
		ExpiresAt:     d.ExpiresAt,
		VerifiedCount: d.VerifiedCount,
	}
}

func reportModelToDoc(r *models.Report) mongoReportDoc {
	return mongoReportDoc{
		ID:            r.ID,
		Type:          r.Type,
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		ImageURL:      r.ImageURL,
		ReporterID:    r.ReporterID,
		CreatedAt:     r.CreatedAt,
		ExpiresAt:     r.ExpiresAt,
		VerifiedCount: r.VerifiedCount,
		Location: mongoGeoPoint{
			Type:        "Point",
			Coordinates: []float64{r.Longitude, r.Latitude},
		},
	}
}

func (s *MongoReportService) Create(ctx context.Context, reporterID string, req *models.CreateReportRequest) (*models.Report, error) {
	report, err := trust.NewReport(req.Type, req.Latitude, req.Longitude, req.ImageURL, reporterID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if _, err := s.reportsColl.InsertOne(ctx, reportModelToDoc(report)); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *MongoReportService) GetByID(ctx context.Context, id string) (*models.Report, error) {
	var doc mongoReportDoc
	if err := s.reportsColl.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return reportDocToModel(doc), nil
}

func (s *MongoReportService) ListRecent(ctx context.Context, limit int) ([]*models.Report, error) {
	return s.list(ctx, bson.M{}, limit)
}

func (s *MongoReportService) ListByReporter(ctx context.Context, reporterID string, limit int) ([]*models.Report, error) {
	return s.list(ctx, bson.M{"reporter_id": reporterID}, limit)
}

func (s *MongoReportService) list(ctx context.Context, filter bson.M, limit int) ([]*models.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.reportsColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	results := make([]*models.Report, 0)
	for cur.Next(ctx) {
		var doc mongoReportDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		results = append(results, reportDocToModel(doc))
	}
	return results, cur.Err()
}

// AdjustVerifiedCount applies the vote delta with an atomic $inc so
// concurrent votes commute instead of clobbering each other.
func (s *MongoReportService) AdjustVerifiedCount(ctx context.Context, id string, delta int) (*models.Report, error) {
	res := s.reportsColl.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"verified_count": delta}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated mongoReportDoc
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return reportDocToModel(updated), nil
}

func (s *MongoReportService) DeleteByReporter(ctx context.Context, reporterID string) ([]string, int64, error) {
	cur, err := s.reportsColl.Find(ctx, bson.M{"reporter_id": reporterID}, options.Find().SetProjection(bson.M{
		"image_url": 1,
	}))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var imageURLs []string
	for cur.Next(ctx) {
		var doc struct {
			ImageURL string `bson:"image_url"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, err
		}
		if doc.ImageURL != "" {
			imageURLs = append(imageURLs, doc.ImageURL)
		}
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}

	res, err := s.reportsColl.DeleteMany(ctx, bson.M{"reporter_id": reporterID})
	if err != nil {
		return nil, 0, err
	}
	return imageURLs, res.DeletedCount, nil
}

// PurgeExpiredBefore deletes reports whose window closed before cutoff.
// Visibility is still computed read-time; this only bounds storage growth.
func (s *MongoReportService) PurgeExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.reportsColl.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
