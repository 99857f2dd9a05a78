// Package telescope holds the static geometry of the observing facilities
// and the registry they are loaded from.
package telescope

import (
	"github.com/litescript/ls-skywindow/internal/astro"
	"github.com/litescript/ls-skywindow/internal/validate"
)

// Telescope is one instrument's pointing geometry. Hour-angle limits are
// in hours, everything else in degrees.
type Telescope struct {
	ID              string  `yaml:"id" json:"id"`
	Name            string  `yaml:"name" json:"name"`
	Aperture        float64 `yaml:"aperture" json:"aperture"` // meters
	Latitude        float64 `yaml:"latitude" json:"latitude"`
	Longitude       float64 `yaml:"longitude" json:"longitude"`
	Horizon         float64 `yaml:"horizon" json:"horizon"`
	PositiveHALimit float64 `yaml:"positive_ha_limit" json:"positive_ha_limit"`
	NegativeHALimit float64 `yaml:"negative_ha_limit" json:"negative_ha_limit"`
	ZenithBlindSpot float64 `yaml:"zenith_blind_spot" json:"zenith_blind_spot"`

	// Filled in from the enclosing site when loaded through a Registry.
	SiteID     string  `yaml:"-" json:"site"`
	ElevationM float64 `yaml:"-" json:"elevation"`
}

// Validate checks the geometry ranges.
func (t Telescope) Validate() validate.Errors {
	errs := validate.Errors{}
	errs.Range("latitude", t.Latitude, -90, 90)
	errs.Range("longitude", t.Longitude, -180, 180)
	errs.Range("horizon", t.Horizon, 0, 90)
	errs.Range("positive_ha_limit", t.PositiveHALimit, 0, 12)
	errs.Range("negative_ha_limit", t.NegativeHALimit, -12, 0)
	errs.Range("zenith_blind_spot", t.ZenithBlindSpot, 0, 180)
	errs.Min("aperture", t.Aperture, 0)
	return errs
}

// Site converts the geometry into the solver's site description.
func (t Telescope) Site() astro.Site {
	return astro.Site{
		Observer: astro.Observer{
			Name:       t.ID,
			LatDeg:     t.Latitude,
			LonDeg:     t.Longitude,
			ElevationM: t.ElevationM,
		},
		HorizonDeg:         t.Horizon,
		HANegDeg:           t.NegativeHALimit * 15,
		HAPosDeg:           t.PositiveHALimit * 15,
		ZenithBlindSpotDeg: t.ZenithBlindSpot,
	}
}

// Site is a location hosting one or more telescopes.
type Site struct {
	ID         string      `yaml:"id"`
	Name       string      `yaml:"name"`
	Timezone   string      `yaml:"timezone"`
	ElevationM float64     `yaml:"elevation"`
	Telescopes []Telescope `yaml:"telescopes"`
}

// Observatory groups sites under one operator.
type Observatory struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Sites []Site `yaml:"sites"`
}
