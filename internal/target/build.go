package target

import (
	"fmt"

	"github.com/litescript/ls-skywindow/internal/astro"
	"github.com/soniakeys/unit"
)

// Build converts a classified descriptor into an ephemeris target.
// It panics on a Descriptor implementation it does not know, which can
// only happen through a programming error.
func Build(d Descriptor) astro.Target {
	switch t := d.(type) {
	case ICRS:
		return buildICRS(t)
	case MinorPlanet:
		return astro.NewMinorPlanetTarget(astro.Elements{
			EpochMJD:         t.EpochOfElements,
			InclinationDeg:   t.OrbitalInclination,
			NodeDeg:          t.LongitudeOfAscendingNode,
			ArgPerihelionDeg: t.ArgumentOfPerihelion,
			SemiMajorAxisAU:  t.MeanDistance,
			Eccentricity:     t.Eccentricity,
			MeanAnomalyDeg:   t.MeanAnomaly,
		})
	case Comet:
		return astro.NewCometTarget(astro.Elements{
			EpochMJD:             t.EpochOfElements,
			InclinationDeg:       t.OrbitalInclination,
			NodeDeg:              t.LongitudeOfAscendingNode,
			ArgPerihelionDeg:     t.ArgumentOfPerihelion,
			PerihelionDistanceAU: t.PerihelionDistance,
			Eccentricity:         t.Eccentricity,
			PerihelionMJD:        t.EpochOfPerihelion,
		})
	case MajorPlanet:
		return astro.NewMajorPlanetTarget(astro.Elements{
			EpochMJD:         t.EpochOfElements,
			InclinationDeg:   t.OrbitalInclination,
			NodeDeg:          t.LongitudeOfAscendingNode,
			ArgPerihelionDeg: t.ArgumentOfPerihelion,
			SemiMajorAxisAU:  t.MeanDistance,
			Eccentricity:     t.Eccentricity,
			MeanAnomalyDeg:   t.MeanAnomaly,
			DailyMotionDeg:   t.DailyMotion,
		})
	default:
		panic(fmt.Sprintf("target: unknown descriptor %T", d))
	}
}

func buildICRS(d ICRS) *astro.ICRSTarget {
	dec := unit.AngleFromDeg(d.DecDeg)
	t := astro.NewICRSTarget(unit.AngleFromDeg(d.RADeg), dec)
	t.Parallax = unit.AngleFromSec(d.ParallaxMas / 1000)
	t.Epoch = d.Epoch

	if d.ProperMotionRAMas != nil {
		pm := unit.AngleFromSec(*d.ProperMotionRAMas / 1000 / dec.Cos())
		t.PMRA = &pm
	}
	if d.ProperMotionDecMas != nil {
		pm := unit.AngleFromSec(*d.ProperMotionDecMas / 1000)
		t.PMDec = &pm
	}
	return t
}
