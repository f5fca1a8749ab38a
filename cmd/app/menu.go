package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/AbdulWasayUl/go-weather-logger/models"
	"github.com/AbdulWasayUl/go-weather-logger/services/weather"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	thinRule = strings.Repeat("=", 50)
	wideRule = strings.Repeat("=", 80)
	rowRule  = strings.Repeat("-", 80)
)

// Menu is the interactive text front end over weather.Service.
type Menu struct {
	svc *weather.Service
	in  *bufio.Scanner
	out io.Writer
}

func NewMenu(svc *weather.Service, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		svc: svc,
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Run shows the menu until the user exits or input ends.
func (m *Menu) Run(ctx context.Context) {
	for {
		fmt.Fprintln(m.out, "\n"+thinRule)
		fmt.Fprintln(m.out, "  REAL-TIME WEATHER DATA LOGGER")
		fmt.Fprintln(m.out, thinRule)
		fmt.Fprintln(m.out, "1. Get Current Weather")
		fmt.Fprintln(m.out, "2. View Query History")
		fmt.Fprintln(m.out, "3. View History for Specific City")
		fmt.Fprintln(m.out, "4. Get City Statistics")
		fmt.Fprintln(m.out, "5. Clear Database")
		fmt.Fprintln(m.out, "6. Exit")
		fmt.Fprintln(m.out, thinRule)

		choice, ok := m.prompt("Enter your choice (1-6): ")
		if !ok {
			fmt.Fprintln(m.out, "\nGoodbye!")
			return
		}

		switch choice {
		case "1":
			m.lookup(ctx)
		case "2":
			m.history(ctx, "")
		case "3":
			city, ok := m.prompt("Enter city name: ")
			if !ok {
				return
			}
			if city == "" {
				fmt.Fprintln(m.out, "Error: City name cannot be empty.")
				continue
			}
			m.history(ctx, city)
		case "4":
			m.statistics(ctx)
		case "5":
			m.clear(ctx)
		case "6":
			fmt.Fprintln(m.out, "Thank you for using Weather Data Logger! Goodbye!")
			return
		default:
			fmt.Fprintln(m.out, "Invalid choice. Please enter 1-6.")
		}
	}
}

// prompt returns the trimmed next line; ok is false at end of input.
func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) lookup(ctx context.Context) {
	city, ok := m.prompt("\nEnter city name: ")
	if !ok {
		return
	}
	if err := weather.ValidateCity(city); err != nil {
		printError(m.out, err)
		return
	}
	fmt.Fprintf(m.out, "\nFetching weather data for %s...\n", city)

	result, err := m.svc.Lookup(ctx, city)
	printLookup(m.out, result, err)
}

func (m *Menu) history(ctx context.Context, city string) {
	records, err := m.svc.History(ctx, city, 0)
	if err != nil {
		printError(m.out, err)
		return
	}
	printHistory(m.out, city, records)
}

func (m *Menu) statistics(ctx context.Context) {
	city, ok := m.prompt("\nEnter city name for statistics: ")
	if !ok {
		return
	}
	stats, err := m.svc.Statistics(ctx, city)
	if err != nil {
		printError(m.out, err)
		return
	}
	if stats == nil {
		fmt.Fprintf(m.out, "No data found for city: %s\n", city)
		return
	}
	printStatistics(m.out, stats)
}

func (m *Menu) clear(ctx context.Context) {
	confirm, ok := m.prompt("\nAre you sure you want to clear all weather data? (yes/no): ")
	if !ok {
		return
	}
	if strings.ToLower(confirm) != "yes" {
		fmt.Fprintln(m.out, "Operation cancelled.")
		return
	}
	if err := m.svc.Clear(ctx); err != nil {
		fmt.Fprintf(m.out, "Error clearing database: %v\n", err)
		return
	}
	fmt.Fprintln(m.out, "All weather data has been cleared!")
}

func printLookup(out io.Writer, result *weather.LookupResult, err error) {
	if result != nil {
		printWeather(out, result.Info)
	}
	switch {
	case err == nil:
		fmt.Fprintf(out, "Data successfully logged! (record %d)\n", result.RecordID)
	case errors.Is(err, weather.ErrPersistFailed):
		fmt.Fprintln(out, "Data fetched but logging failed!")
	default:
		printError(out, err)
	}
}

func printError(out io.Writer, err error) {
	var werr *weather.Error
	if !errors.As(err, &werr) {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	switch werr.Kind {
	case weather.InvalidInput:
		fmt.Fprintf(out, "Error: %s\n", werr.Detail)
	case weather.FetchFailed:
		fmt.Fprintln(out, "Failed to fetch weather data. Please check the city name and try again.")
	case weather.APIError:
		fmt.Fprintf(out, "API Error: %s\n", werr.Detail)
	case weather.ParseFailed:
		fmt.Fprintln(out, "Failed to parse weather data.")
	default:
		fmt.Fprintf(out, "Error: %v\n", err)
	}
}

func printWeather(out io.Writer, info models.WeatherInfo) {
	fmt.Fprintln(out, "\n"+thinRule)
	fmt.Fprintln(out, " WEATHER INFORMATION")
	fmt.Fprintln(out, thinRule)
	fmt.Fprintf(out, " City: %s, %s\n", info.City, info.Country)
	fmt.Fprintf(out, "  Temperature: %s°C\n", formatFloat(info.Temperature))
	fmt.Fprintf(out, " Humidity: %d%%\n", info.Humidity)
	fmt.Fprintf(out, "  Condition: %s\n", cases.Title(language.English).String(info.Condition))
	fmt.Fprintln(out, thinRule+"\n")
}

func printHistory(out io.Writer, city string, records []models.WeatherRecord) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No history records found.")
		return
	}

	fmt.Fprintln(out, "\n"+wideRule)
	fmt.Fprintln(out, " WEATHER QUERY HISTORY")
	if city != "" {
		fmt.Fprintf(out, "Filtered by: %s\n", city)
	}
	fmt.Fprintln(out, wideRule)

	for _, r := range records {
		fmt.Fprintf(out, "ID: %d | City: %s | Temp: %s°C\n", r.ID, r.CityName, formatFloat(r.Temperature))
		fmt.Fprintf(out, "Humidity: %d%% | Condition: %s\n", r.Humidity, r.WeatherCondition)
		fmt.Fprintf(out, "Time: %s\n", r.Timestamp)
		fmt.Fprintln(out, rowRule)
	}
}

func printStatistics(out io.Writer, s *models.CityStats) {
	fmt.Fprintln(out, "\n"+thinRule)
	fmt.Fprintf(out, " STATISTICS FOR %s\n", strings.ToUpper(s.CityName))
	fmt.Fprintln(out, thinRule)
	fmt.Fprintf(out, "Total Queries: %d\n", s.Count)
	fmt.Fprintf(out, "Average Temperature: %.2f°C\n", s.AvgTemp)
	fmt.Fprintf(out, "Average Humidity: %.2f%%\n", s.AvgHumidity)
	fmt.Fprintf(out, "Minimum Temperature: %.2f°C\n", s.MinTemp)
	fmt.Fprintf(out, "Maximum Temperature: %.2f°C\n", s.MaxTemp)
	fmt.Fprintln(out, thinRule)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
