package weather

import (
	"context"
	"encoding/json"

	"github.com/AbdulWasayUl/go-weather-logger/internal/api"
	"github.com/AbdulWasayUl/go-weather-logger/internal/db"
	"github.com/AbdulWasayUl/go-weather-logger/internal/logger"
	"github.com/AbdulWasayUl/go-weather-logger/models"
	"github.com/google/uuid"
)

// Fetcher retrieves the raw current-weather payload for a city.
type Fetcher interface {
	Fetch(ctx context.Context, city string) (api.RawResponse, error)
}

// Service drives lookups and the history/statistics queries over a Store.
type Service struct {
	Fetcher      Fetcher
	Store        db.Store
	HistoryLimit int
}

// LookupResult is what a lookup produced. When Persisted is false the info
// was fetched but could not be logged.
type LookupResult struct {
	Info      models.WeatherInfo
	RecordID  int64
	Persisted bool
}

func NewService(fetcher Fetcher, store db.Store, historyLimit int) *Service {
	if historyLimit <= 0 {
		historyLimit = db.DefaultHistoryLimit
	}
	return &Service{
		Fetcher:      fetcher,
		Store:        store,
		HistoryLimit: historyLimit,
	}
}

// Lookup validates city, fetches and parses the current weather and appends
// a record. On a PersistFailed error the returned result is still populated.
func (s *Service) Lookup(ctx context.Context, city string) (*LookupResult, error) {
	log := logger.With("lookup_id", uuid.NewString(), "city", city)

	if err := ValidateCity(city); err != nil {
		log.Debugf("rejected city: %v", err)
		return nil, err
	}

	log.Infof("Fetching weather data")
	raw, err := s.Fetcher.Fetch(ctx, city)
	if err != nil {
		log.Errorf("Failed to fetch data: %v", err)
		return nil, &Error{Kind: FetchFailed, Detail: err.Error(), Err: err}
	}

	if err := CheckStatus(raw); err != nil {
		log.Errorf("API reported failure: %v", err)
		return nil, err
	}

	info, err := ParseData(raw)
	if err != nil {
		log.Errorf("Failed to parse data: %v", err)
		return nil, err
	}

	result := &LookupResult{Info: info}

	payload, err := json.Marshal(raw)
	if err != nil {
		log.Errorf("Failed to serialize response: %v", err)
		return result, &Error{Kind: PersistFailed, Detail: "failed to serialize response", Err: err}
	}

	id, err := s.Store.Append(ctx, models.WeatherRecord{
		CityName:         city,
		Temperature:      info.Temperature,
		Humidity:         info.Humidity,
		WeatherCondition: info.Condition,
		RawResponse:      string(payload),
	})
	if err != nil {
		log.Errorf("Failed to store data: %v", err)
		return result, &Error{Kind: PersistFailed, Detail: err.Error(), Err: err}
	}

	result.RecordID = id
	result.Persisted = true
	log.Infof("Stored record %d", id)
	return result, nil
}

// History lists logged records newest first. An empty city lists every city;
// a non-positive limit uses the service default.
func (s *Service) History(ctx context.Context, city string, limit int) ([]models.WeatherRecord, error) {
	if city != "" {
		if err := ValidateCity(city); err != nil {
			return nil, err
		}
	}
	if limit <= 0 {
		limit = s.HistoryLimit
	}
	return s.Store.History(ctx, city, limit)
}

// Statistics returns nil stats and a nil error when city has no records.
func (s *Service) Statistics(ctx context.Context, city string) (*models.CityStats, error) {
	if err := ValidateCity(city); err != nil {
		return nil, err
	}
	return s.Store.Aggregate(ctx, city)
}

func (s *Service) Clear(ctx context.Context) error {
	if err := s.Store.Clear(ctx); err != nil {
		logger.Error("Failed to clear weather log: %v", err)
		return err
	}
	logger.Info("Weather log cleared")
	return nil
}
