package weather

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/AbdulWasayUl/go-weather-logger/internal/api"
	"github.com/AbdulWasayUl/go-weather-logger/models"
)

const (
	successCode       = 200
	unknownAPIMessage = "Unknown error"
)

// CheckStatus turns a response whose "cod" is not 200 into an APIError. The
// remote sends the code as a number on success and as a string on errors, so
// both forms are accepted.
func CheckStatus(data api.RawResponse) error {
	if code, ok := statusCode(data["cod"]); ok && code == successCode {
		return nil
	}
	msg, _ := data["message"].(string)
	if msg == "" {
		msg = unknownAPIMessage
	}
	return &Error{Kind: APIError, Detail: msg}
}

func statusCode(v interface{}) (int, bool) {
	switch c := v.(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(c))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		f, ok := number(v)
		if !ok {
			return 0, false
		}
		return int(f), true
	}
}

// ParseData extracts the fields needed for display and persistence. The first
// missing or mistyped key is reported as a ParseFailed error.
func ParseData(data api.RawResponse) (models.WeatherInfo, error) {
	var info models.WeatherInfo

	name, ok := data["name"].(string)
	if !ok {
		return info, missing("name")
	}

	main, ok := data["main"].(map[string]interface{})
	if !ok {
		return info, missing("main")
	}
	temp, ok := number(main["temp"])
	if !ok {
		return info, missing("main.temp")
	}
	humidity, ok := number(main["humidity"])
	if !ok {
		return info, missing("main.humidity")
	}

	conditions, ok := data["weather"].([]interface{})
	if !ok || len(conditions) == 0 {
		return info, missing("weather")
	}
	first, ok := conditions[0].(map[string]interface{})
	if !ok {
		return info, missing("weather[0]")
	}
	description, ok := first["description"].(string)
	if !ok {
		return info, missing("weather[0].description")
	}

	sys, ok := data["sys"].(map[string]interface{})
	if !ok {
		return info, missing("sys")
	}
	country, ok := sys["country"].(string)
	if !ok {
		return info, missing("sys.country")
	}

	info = models.WeatherInfo{
		City:        name,
		Country:     country,
		Temperature: temp,
		Humidity:    int(math.Round(humidity)),
		Condition:   description,
	}
	return info, nil
}

func missing(key string) error {
	return &Error{Kind: ParseFailed, Detail: key}
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
