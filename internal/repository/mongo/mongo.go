package mongo

import (
	"context"
	"fmt"

	"github.com/rac-reallocation/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Client - подключение к MongoDB, где источник хранит маршруты и списки пассажиров
type Client struct {
	client   *mongo.Client
	database *mongo.Database
	cfg      *config.MongoConfig
	logger   *zap.Logger
}

func New(cfg *config.MongoConfig, logger *zap.Logger) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Info("MongoDB connected", zap.String("database", cfg.Database))

	return &Client{
		client:   client,
		database: client.Database(cfg.Database),
		cfg:      cfg,
		logger:   logger,
	}, nil
}

func (c *Client) Collection(name string) *mongo.Collection {
	return c.database.Collection(name)
}

// EnsureIndexes - индексы под выборки состава; ошибка только логируется
func (c *Client) EnsureIndexes(ctx context.Context) {
	stations := c.Collection(c.cfg.StationsCollection)
	_, err := stations.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "SNO", Value: 1}}},
		{Keys: bson.D{{Key: "Station_Code", Value: 1}}},
	}, options.CreateIndexes())
	if err != nil {
		c.logger.Error("Creating stations index", zap.Error(err))
	}

	passengers := c.Collection(c.cfg.PassengersCollection)
	_, err = passengers.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "Train_Number", Value: 1}, {Key: "Journey_Date", Value: 1}}},
		{Keys: bson.D{{Key: "PNR_Number", Value: 1}}},
	}, options.CreateIndexes())
	if err != nil {
		c.logger.Error("Creating passengers index", zap.Error(err))
	}
}

func (c *Client) Health(ctx context.Context) error {
	return c.client.Ping(ctx, nil)
}

func (c *Client) Close(ctx context.Context) error {
	c.logger.Info("Closing MongoDB connection")
	return c.client.Disconnect(ctx)
}
