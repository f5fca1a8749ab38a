package db

import (
	"context"
	"time"

	"github.com/AbdulWasayUl/go-weather-logger/internal/logger"
	"github.com/AbdulWasayUl/go-weather-logger/models"
	"github.com/jonboulle/clockwork"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const countersCollection = "counters"

func ConnectMongoDB(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(ctxTimeout, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	logger.Info("Successfully connected to MongoDB!")
	return client, nil
}

func DisconnectMongoDB(ctx context.Context, client *mongo.Client) error {
	if err := client.Disconnect(ctx); err != nil {
		return err
	}
	logger.Info("Disconnected from MongoDB.")
	return nil
}

// MongoStore keeps the weather log in a MongoDB collection. Integer ids come
// from a counter document so they keep increasing across Clear.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	clock  clockwork.Clock
}

var _ Store = (*MongoStore)(nil)

func NewMongoStore(client *mongo.Client, dbName string, clock clockwork.Clock) *MongoStore {
	return &MongoStore{
		client: client,
		db:     client.Database(dbName),
		clock:  clockOrReal(clock),
	}
}

func (s *MongoStore) logs() *mongo.Collection {
	return s.db.Collection(logsTable)
}

func (s *MongoStore) Initialize(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return initErr(err)
	}
	_, err := s.logs().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "city_name", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	if err != nil {
		return initErr(err)
	}
	return nil
}

func (s *MongoStore) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := s.db.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": logsTable},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

func (s *MongoStore) Append(ctx context.Context, rec models.WeatherRecord) (int64, error) {
	if rec.Timestamp == "" {
		rec.Timestamp = s.clock.Now().Local().Format(TimestampLayout)
	}

	id, err := s.nextID(ctx)
	if err != nil {
		return 0, writeErr(err)
	}
	rec.ID = id

	if _, err := s.logs().InsertOne(ctx, rec); err != nil {
		return 0, writeErr(err)
	}
	return id, nil
}

func (s *MongoStore) History(ctx context.Context, city string, limit int) ([]models.WeatherRecord, error) {
	filter := bson.M{}
	if city != "" {
		filter["city_name"] = city
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(normalizeLimit(limit)))

	cursor, err := s.logs().Find(ctx, filter, opts)
	if err != nil {
		return nil, readErr(err)
	}
	defer cursor.Close(ctx)

	records := []models.WeatherRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, readErr(err)
	}
	return records, nil
}

func (s *MongoStore) Aggregate(ctx context.Context, city string) (*models.CityStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "city_name", Value: city}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "avg_temp", Value: bson.D{{Key: "$avg", Value: "$temperature"}}},
			{Key: "avg_humidity", Value: bson.D{{Key: "$avg", Value: "$humidity"}}},
			{Key: "min_temp", Value: bson.D{{Key: "$min", Value: "$temperature"}}},
			{Key: "max_temp", Value: bson.D{{Key: "$max", Value: "$temperature"}}},
		}}},
	}

	cursor, err := s.logs().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, readErr(err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Count       int64   `bson:"count"`
		AvgTemp     float64 `bson:"avg_temp"`
		AvgHumidity float64 `bson:"avg_humidity"`
		MinTemp     float64 `bson:"min_temp"`
		MaxTemp     float64 `bson:"max_temp"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, readErr(err)
	}
	if len(results) == 0 || results[0].Count == 0 {
		return nil, nil
	}

	r := results[0]
	return &models.CityStats{
		CityName:    city,
		Count:       r.Count,
		AvgTemp:     r.AvgTemp,
		AvgHumidity: r.AvgHumidity,
		MinTemp:     r.MinTemp,
		MaxTemp:     r.MaxTemp,
	}, nil
}

func (s *MongoStore) Clear(ctx context.Context) error {
	if _, err := s.logs().DeleteMany(ctx, bson.M{}); err != nil {
		return writeErr(err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return DisconnectMongoDB(ctx, s.client)
}
