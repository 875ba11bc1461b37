package services

import (
	"context"
	"crypto/tls"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamamaps/backend/internal/models"
)

type MongoProfileService struct {
	client      *mongo.Client
	db          *mongo.Database
	profilesCol *mongo.Collection
}

func NewMongoProfileService(ctx context.Context, mongoURI, dbName string) (*MongoProfileService, error) {
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
	col := db.Collection("profiles")

	// Best-effort indexes.
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "points", Value: -1}}},
	})

	return &MongoProfileService{
		client:      client,
		db:          db,
		profilesCol: col,
	}, nil
}

func (s *MongoProfileService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// GetOrCreate returns the user's profile, seeding a zeroed document the
// first time the identity is observed.
func (s *MongoProfileService) GetOrCreate(ctx context.Context, userID, email string) (*models.Profile, error) {
	now := time.Now().UTC()

	var prof models.Profile
	err := s.profilesCol.FindOne(ctx, bson.M{"user_id": userID}).Decode(&prof)
	if err == nil {
		if email != "" && prof.Email == "" {
			_, _ = s.profilesCol.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{
				"$set": bson.M{"email": email, "updated_at": now},
			})
			prof.Email = email
			prof.UpdatedAt = now
		}
		return &prof, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	prof = models.Profile{
		UserID:    userID,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.profilesCol.InsertOne(ctx, prof); err != nil {
		// If a race created it, fetch again.
		var retry models.Profile
		if err2 := s.profilesCol.FindOne(ctx, bson.M{"user_id": userID}).Decode(&retry); err2 == nil {
			return &retry, nil
		}
		return nil, err
	}
	return &prof, nil
}

func (s *MongoProfileService) Upsert(ctx context.Context, userID, email string, req *models.UpsertProfileRequest) (*models.Profile, error) {
	now := time.Now().UTC()

	set := bson.M{
		"updated_at": now,
	}
	if email != "" {
		set["email"] = email
	}
	if req.DisplayName != nil {
		set["display_name"] = *req.DisplayName
	}
	if req.Username != nil {
		set["username"] = *req.Username
	}
	if req.Phone != nil {
		set["phone"] = *req.Phone
	}
	if req.DOB != nil {
		set["dob"] = *req.DOB
	}
	if req.AvatarURL != nil {
		set["avatar_url"] = *req.AvatarURL
	}

	// Points and reports_count start at zero on first contact and are only
	// ever moved by AddPoints.
	setOnInsert := bson.M{
		"user_id":       userID,
		"points":        0,
		"reports_count": 0,
		"created_at":    now,
	}

	_, err := s.profilesCol.UpdateOne(
		ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": set, "$setOnInsert": setOnInsert},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, err
	}

	var prof models.Profile
	if err := s.profilesCol.FindOne(ctx, bson.M{"user_id": userID}).Decode(&prof); err != nil {
		return nil, err
	}
	return &prof, nil
}

// AddPoints applies a ledger award with $inc so concurrent awards to the
// same profile commute instead of losing updates to read-modify-write races.
func (s *MongoProfileService) AddPoints(ctx context.Context, userID string, amount int, countsReport bool) (*models.Profile, error) {
	now := time.Now().UTC()

	inc := bson.M{"points": amount}
	if countsReport {
		inc["reports_count"] = 1
	}

	res := s.profilesCol.FindOneAndUpdate(
		ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$inc":         inc,
			"$set":         bson.M{"updated_at": now},
			"$setOnInsert": bson.M{"user_id": userID, "created_at": now},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)

	var prof models.Profile
	if err := res.Decode(&prof); err != nil {
		return nil, err
	}
	return &prof, nil
}

func (s *MongoProfileService) Leaderboard(ctx context.Context, limit int) ([]models.Profile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "points", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.profilesCol.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	results := make([]models.Profile, 0)
	for cur.Next(ctx) {
		var prof models.Profile
		if err := cur.Decode(&prof); err != nil {
			return nil, err
		}
		results = append(results, prof)
	}
	return results, cur.Err()
}

func (s *MongoProfileService) Delete(ctx context.Context, userID string) (string, error) {
	var prof struct {
		AvatarURL string `bson:"avatar_url"`
	}
	if err := s.profilesCol.FindOne(ctx, bson.M{"user_id": userID}).Decode(&prof); err != nil {
		if err == mongo.ErrNoDocuments {
			return "", nil
		}
		return "", err
	}

	if _, err := s.profilesCol.DeleteOne(ctx, bson.M{"user_id": userID}); err != nil {
		return "", err
	}
	return prof.AvatarURL, nil
}
