package models

// WeatherRecord is one persisted lookup. ID is assigned by the store.
type WeatherRecord struct {
	ID               int64   `bson:"_id"`
	CityName         string  `bson:"city_name"`
	Temperature      float64 `bson:"temperature"`
	Humidity         int     `bson:"humidity"`
	WeatherCondition string  `bson:"weather_condition"`
	Timestamp        string  `bson:"timestamp"`
	RawResponse      string  `bson:"raw_response"`
}

// CityStats aggregates every record stored for one city name.
type CityStats struct {
	CityName    string
	Count       int64
	AvgTemp     float64
	AvgHumidity float64
	MinTemp     float64
	MaxTemp     float64
}

// WeatherInfo is the subset of a weather response needed for display and
// persistence. It is never stored on its own.
type WeatherInfo struct {
	City        string
	Country     string
	Temperature float64
	Humidity    int
	Condition   string
}
