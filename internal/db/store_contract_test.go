package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/AbdulWasayUl/go-weather-logger/internal/db"
	"github.com/AbdulWasayUl/go-weather-logger/models"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeFactory func(t *testing.T, clock clockwork.Clock) db.Store

func newRecord(city string, temp float64, humidity int) models.WeatherRecord {
	return models.WeatherRecord{
		CityName:         city,
		Temperature:      temp,
		Humidity:         humidity,
		WeatherCondition: "clear sky",
		RawResponse:      `{"cod":200,"name":"` + city + `"}`,
	}
}

// runStoreContract exercises behavior every Store implementation must share.
func runStoreContract(t *testing.T, newStore storeFactory) {
	start := time.Date(2025, time.January, 15, 10, 30, 0, 0, time.Local)

	t.Run("initialize is idempotent", func(t *testing.T) {
		store := newStore(t, clockwork.NewFakeClockAt(start))
		require.NoError(t, store.Initialize(context.Background()))
		require.NoError(t, store.Initialize(context.Background()))
	})

	t.Run("append then read back", func(t *testing.T) {
		ctx := context.Background()
		clock := clockwork.NewFakeClockAt(start)
		store := newStore(t, clock)

		var lastID int64
		for i, temp := range []float64{8.5, 9.25, -3.0} {
			rec := newRecord("London", temp, 70+i)
			id, err := store.Append(ctx, rec)
			require.NoError(t, err)
			assert.Greater(t, id, lastID)
			lastID = id

			got, err := store.History(ctx, "London", 1)
			require.NoError(t, err)
			require.Len(t, got, 1)

			assert.Equal(t, id, got[0].ID)
			assert.Equal(t, rec.CityName, got[0].CityName)
			assert.Equal(t, rec.Temperature, got[0].Temperature)
			assert.Equal(t, rec.Humidity, got[0].Humidity)
			assert.Equal(t, rec.WeatherCondition, got[0].WeatherCondition)
			assert.Equal(t, rec.RawResponse, got[0].RawResponse)
			assert.Equal(t, clock.Now().Format(db.TimestampLayout), got[0].Timestamp)

			clock.Advance(time.Minute)
		}
	})

	t.Run("explicit timestamp is kept", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t, clockwork.NewFakeClockAt(start))

		rec := newRecord("Oslo", 1.5, 80)
		rec.Timestamp = "2020-02-02 02:02:02"
		_, err := store.Append(ctx, rec)
		require.NoError(t, err)

		got, err := store.History(ctx, "Oslo", 5)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "2020-02-02 02:02:02", got[0].Timestamp)
	})

	t.Run("no range validation", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t, clockwork.NewFakeClockAt(start))

		_, err := store.Append(ctx, newRecord("Nowhere", -300.5, 150))
		require.NoError(t, err)
	})

	t.Run("history ordering filter and limit", func(t *testing.T) {
		ctx := context.Background()
		clock := clockwork.NewFakeClockAt(start)
		store := newStore(t, clock)

		cities := []string{"Paris", "Berlin", "Paris", "paris", "Paris"}
		ids := make([]int64, len(cities))
		for i, city := range cities {
			id, err := store.Append(ctx, newRecord(city, float64(i), 50))
			require.NoError(t, err)
			ids[i] = id
			clock.Advance(time.Second)
		}

		all, err := store.History(ctx, "", 10)
		require.NoError(t, err)
		require.Len(t, all, 5)
		for i := range all {
			assert.Equal(t, ids[len(ids)-1-i], all[i].ID, "newest first")
		}

		paris, err := store.History(ctx, "Paris", 10)
		require.NoError(t, err)
		require.Len(t, paris, 3)
		assert.Equal(t, []int64{ids[4], ids[2], ids[0]}, []int64{paris[0].ID, paris[1].ID, paris[2].ID})

		limited, err := store.History(ctx, "Paris", 2)
		require.NoError(t, err)
		assert.Len(t, limited, 2)

		none, err := store.History(ctx, "Atlantis", 10)
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("same second falls back to id order", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t, clockwork.NewFakeClockAt(start))

		first, err := store.Append(ctx, newRecord("Rome", 20, 40))
		require.NoError(t, err)
		second, err := store.Append(ctx, newRecord("Rome", 21, 41))
		require.NoError(t, err)

		got, err := store.History(ctx, "Rome", 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, second, got[0].ID)
		assert.NotEqual(t, first, second)
	})

	t.Run("default limit", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t, clockwork.NewFakeClockAt(start))

		for i := 0; i < db.DefaultHistoryLimit+3; i++ {
			_, err := store.Append(ctx, newRecord("Lima", float64(i), 60))
			require.NoError(t, err)
		}

		got, err := store.History(ctx, "", 0)
		require.NoError(t, err)
		assert.Len(t, got, db.DefaultHistoryLimit)
	})

	t.Run("aggregate", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t, clockwork.NewFakeClockAt(start))

		stats, err := store.Aggregate(ctx, "Madrid")
		require.NoError(t, err)
		assert.Nil(t, stats)

		temps := []float64{12.3, -4.7, 30.05, 18.0}
		hums := []int{40, 55, 70, 81}
		for i := range temps {
			_, err := store.Append(ctx, newRecord("Madrid", temps[i], hums[i]))
			require.NoError(t, err)
		}
		_, err = store.Append(ctx, newRecord("madrid", 100, 100))
		require.NoError(t, err)

		stats, err = store.Aggregate(ctx, "Madrid")
		require.NoError(t, err)
		require.NotNil(t, stats)

		assert.Equal(t, "Madrid", stats.CityName)
		assert.Equal(t, int64(4), stats.Count)
		assert.InDelta(t, (12.3-4.7+30.05+18.0)/4, stats.AvgTemp, 1e-6)
		assert.InDelta(t, float64(40+55+70+81)/4, stats.AvgHumidity, 1e-6)
		assert.InDelta(t, -4.7, stats.MinTemp, 1e-6)
		assert.InDelta(t, 30.05, stats.MaxTemp, 1e-6)
	})

	t.Run("clear keeps id sequence", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t, clockwork.NewFakeClockAt(start))

		var lastID int64
		for i := 0; i < 3; i++ {
			id, err := store.Append(ctx, newRecord("Cairo", 35, 20))
			require.NoError(t, err)
			lastID = id
		}

		require.NoError(t, store.Clear(ctx))

		got, err := store.History(ctx, "", 10)
		require.NoError(t, err)
		assert.Empty(t, got)

		stats, err := store.Aggregate(ctx, "Cairo")
		require.NoError(t, err)
		assert.Nil(t, stats)

		id, err := store.Append(ctx, newRecord("Cairo", 36, 21))
		require.NoError(t, err)
		assert.Greater(t, id, lastID)
	})
}
