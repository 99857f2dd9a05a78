package target

// Kind is the wire name of a target parameterization.
type Kind string

const (
	KindICRS        Kind = "ICRS"
	KindMinorPlanet Kind = "MPC_MINOR_PLANET"
	KindComet       Kind = "MPC_COMET"
	KindMajorPlanet Kind = "JPL_MAJOR_PLANET"
)

// Descriptor is a classified target. The set of implementations is closed:
// ICRS, MinorPlanet, Comet and MajorPlanet.
type Descriptor interface {
	Kind() Kind
	isDescriptor()
}

// ICRS is a fixed target. Absent proper motion components stay nil.
type ICRS struct {
	RADeg              float64
	DecDeg             float64
	ProperMotionRAMas  *float64 // mas/yr, includes cos(dec)
	ProperMotionDecMas *float64 // mas/yr
	ParallaxMas        float64
	Epoch              float64
}

// MinorPlanet holds MPC minor-planet elements.
type MinorPlanet struct {
	EpochOfElements          float64
	OrbitalInclination       float64
	LongitudeOfAscendingNode float64
	ArgumentOfPerihelion     float64
	MeanDistance             float64
	Eccentricity             float64
	MeanAnomaly              float64
}

// Comet holds MPC comet elements.
type Comet struct {
	EpochOfElements          float64
	OrbitalInclination       float64
	LongitudeOfAscendingNode float64
	ArgumentOfPerihelion     float64
	PerihelionDistance       float64
	Eccentricity             float64
	EpochOfPerihelion        float64
}

// MajorPlanet holds JPL major-planet elements.
type MajorPlanet struct {
	MinorPlanet
	DailyMotion float64
}

func (ICRS) Kind() Kind        { return KindICRS }
func (MinorPlanet) Kind() Kind { return KindMinorPlanet }
func (Comet) Kind() Kind       { return KindComet }
func (MajorPlanet) Kind() Kind { return KindMajorPlanet }

func (ICRS) isDescriptor()        {}
func (MinorPlanet) isDescriptor() {}
func (Comet) isDescriptor()       {}
func (MajorPlanet) isDescriptor() {}
