package services

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamamaps/backend/internal/models"
)

type MongoChatService struct {
	client      *mongo.Client
	db          *mongo.Database
	messagesCol *mongo.Collection
}

type mongoChatDoc struct {
	ID              string    `bson:"_id"`
	Text            string    `bson:"text"`
	SenderID        string    `bson:"sender_id"`
	SenderName      string    `bson:"sender_name"`
	SenderAvatarURL string    `bson:"sender_avatar_url,omitempty"`
	CreatedAt       time.Time `bson:"created_at"`
}

func NewMongoChatService(ctx context.Context, mongoURI, dbName string) (*MongoChatService, error) {
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
	col := db.Collection("messages")

	// Best-effort indexes.
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})

	return &MongoChatService{
		client:      client,
		db:          db,
		messagesCol: col,
	}, nil
}

func (s *MongoChatService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoChatService) Post(ctx context.Context, senderID, senderName, senderAvatarURL, text string) (*models.ChatMessage, error) {
	doc := mongoChatDoc{
		ID:              uuid.New().String(),
		Text:            text,
		SenderID:        senderID,
		SenderName:      senderName,
		SenderAvatarURL: senderAvatarURL,
		CreatedAt:       time.Now().UTC(),
	}

	if _, err := s.messagesCol.InsertOne(ctx, doc); err != nil {
		return nil, err
	}

	return &models.ChatMessage{
		ID:              doc.ID,
		Text:            doc.Text,
		SenderID:        doc.SenderID,
		SenderName:      doc.SenderName,
		SenderAvatarURL: doc.SenderAvatarURL,
		CreatedAt:       doc.CreatedAt,
	}, nil
}

func (s *MongoChatService) ListRecent(ctx context.Context, limit int) ([]*models.ChatMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.messagesCol.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	results := make([]*models.ChatMessage, 0)
	for cur.Next(ctx) {
		var doc mongoChatDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		results = append(results, &models.ChatMessage{
			ID:              doc.ID,
			Text:            doc.Text,
			SenderID:        doc.SenderID,
			SenderName:      doc.SenderName,
			SenderAvatarURL: doc.SenderAvatarURL,
			CreatedAt:       doc.CreatedAt,
		})
	}
	return results, cur.Err()
}
