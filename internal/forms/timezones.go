package forms

import (
	"strings"
	_ "time/tzdata"
)

const DefaultTimezone = "America/Mexico_City"

type Timezone struct {
	Value string
	Label string
}

type TimezoneGroup struct {
	Label     string
	Timezones []Timezone
}

// TimezoneCatalog is the fixed list the timezone picker offers, grouped by region
var TimezoneCatalog = []TimezoneGroup{
	{Label: "México", Timezones: []Timezone{
		{Value: "America/Mexico_City", Label: "(GMT-6) Ciudad de México"},
		{Value: "America/Cancun", Label: "(GMT-5) Cancún"},
		{Value: "America/Chihuahua", Label: "(GMT-6) Chihuahua"},
		{Value: "America/Hermosillo", Label: "(GMT-7) Hermosillo"},
		{Value: "America/Tijuana", Label: "(GMT-8) Tijuana"},
	}},
	{Label: "Norteamérica", Timezones: []Timezone{
		{Value: "America/New_York", Label: "(GMT-5) Nueva York"},
		{Value: "America/Chicago", Label: "(GMT-6) Chicago"},
		{Value: "America/Denver", Label: "(GMT-7) Denver"},
		{Value: "America/Los_Angeles", Label: "(GMT-8) Los Ángeles"},
	}},
	{Label: "Sudamérica", Timezones: []Timezone{
		{Value: "America/Bogota", Label: "(GMT-5) Bogotá"},
		{Value: "America/Lima", Label: "(GMT-5) Lima"},
		{Value: "America/Santiago", Label: "(GMT-4) Santiago"},
		{Value: "America/Argentina/Buenos_Aires", Label: "(GMT-3) Buenos Aires"},
	}},
	{Label: "Europa", Timezones: []Timezone{
		{Value: "Europe/Madrid", Label: "(GMT+1) Madrid"},
		{Value: "Europe/London", Label: "(GMT+0) Londres"},
	}},
	{Label: "Otros", Timezones: []Timezone{
		{Value: "UTC", Label: "(GMT+0) UTC"},
	}},
}

// FindTimezone returns the catalog entry and its group label
func FindTimezone(value string) (Timezone, string, bool) {
	for _, g := range TimezoneCatalog {
		for _, tz := range g.Timezones {
			if tz.Value == value {
				return tz, g.Label, true
			}
		}
	}
	return Timezone{}, "", false
}

// FilterTimezones matches the query against labels and zone ids, keeping empty groups out
func FilterTimezones(query string) []TimezoneGroup {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return TimezoneCatalog
	}
	var out []TimezoneGroup
	for _, g := range TimezoneCatalog {
		var hits []Timezone
		for _, tz := range g.Timezones {
			if strings.Contains(strings.ToLower(tz.Label), q) || strings.Contains(strings.ToLower(tz.Value), q) {
				hits = append(hits, tz)
			}
		}
		if len(hits) > 0 {
			out = append(out, TimezoneGroup{Label: g.Label, Timezones: hits})
		}
	}
	return out
}
