package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"referral_bot/internal/model"
	"referral_bot/internal/repository"
	"referral_bot/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

type Config struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

// userDocument keys users by their Telegram id so the _id index enforces
// one document per identity.
type userDocument struct {
	TelegramID       int64     `bson:"_id"`
	Username         string    `bson:"username,omitempty"`
	ReferrerID       *int64    `bson:"referred_by,omitempty"`
	Referrals        int       `bson:"referrals"`
	RegistrationDate time.Time `bson:"registered_at"`
}

func (d *userDocument) toModel() *model.User {
	return &model.User{
		TelegramID:       d.TelegramID,
		Username:         d.Username,
		ReferrerID:       d.ReferrerID,
		Referrals:        d.Referrals,
		RegistrationDate: d.RegistrationDate,
	}
}

type Store struct {
	client *mongo.Client
	col    *mongo.Collection
}

// Connect dials MongoDB, checks connectivity and ensures the leaderboard index.
func Connect(cfg Config) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	collection := cfg.Collection
	if collection == "" {
		collection = "users"
	}

	s := &Store{
		client: client,
		col:    client.Database(cfg.Database).Collection(collection),
	}

	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	logger.Logger().Info("Connected to mongo successfully",
		zap.String("database", cfg.Database),
		zap.String("collection", collection))

	return s, nil
}

func NewWithCollection(col *mongo.Collection) *Store {
	return &Store{col: col}
}

func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "referrals", Value: -1},
			{Key: "registered_at", Value: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create leaderboard index: %w", err)
	}
	return nil
}

func (s *Store) FindUserByID(ctx context.Context, telegramID int64) (*model.User, error) {
	var doc userDocument
	err := s.col.FindOne(ctx, bson.M{"_id": telegramID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return doc.toModel(), nil
}

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	doc := userDocument{
		TelegramID:       user.TelegramID,
		Username:         user.Username,
		ReferrerID:       user.ReferrerID,
		Referrals:        user.Referrals,
		RegistrationDate: user.RegistrationDate,
	}

	_, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateIdentity
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Store) IncrementReferralCount(ctx context.Context, telegramID int64, delta int) error {
	filter := bson.M{"_id": telegramID}
	update := bson.M{"$inc": bson.M{"referrals": delta}}

	result, err := s.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update referrals: %w", err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrUnknownIdentity
	}
	return nil
}

func (s *Store) ListUsersByReferrals(ctx context.Context) ([]*model.User, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "referrals", Value: -1},
		{Key: "registered_at", Value: 1},
		{Key: "_id", Value: 1},
	})

	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []userDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make([]*model.User, len(docs))
	for i := range docs {
		users[i] = docs[i].toModel()
	}
	return users, nil
}
