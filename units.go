package multiweather

// Unit value types used throughout the normalized data model. Each type stores
// a single canonical unit and converts on access, so adapters can ingest
// whatever unit a provider reports and callers read whichever unit they want.

// UnitSystem is a display preference carried in backend configuration. It does
// not affect the stored values, only how callers choose to render them.
type UnitSystem string

const (
	UnitsMetric   UnitSystem = "metric"
	UnitsImperial UnitSystem = "imperial"
)

// Temperature stores degrees Celsius.
type Temperature struct {
	celsius float64
}

// TempC builds a Temperature from degrees Celsius.
func TempC(c float64) Temperature { return Temperature{celsius: c} }

// TempF builds a Temperature from degrees Fahrenheit.
func TempF(f float64) Temperature { return Temperature{celsius: (f - 32) * 5 / 9} }

func (t Temperature) C() float64 { return t.celsius }
func (t Temperature) F() float64 { return t.celsius*9/5 + 32 }

// Speed stores meters per second.
type Speed struct {
	ms float64
}

// SpeedMS builds a Speed from meters per second.
func SpeedMS(ms float64) Speed { return Speed{ms: ms} }

// SpeedKPH builds a Speed from kilometers per hour.
func SpeedKPH(kph float64) Speed { return Speed{ms: kph / 3.6} }

// SpeedMPH builds a Speed from miles per hour.
func SpeedMPH(mph float64) Speed { return Speed{ms: mph * 1.609 / 3.6} }

func (s Speed) MS() float64  { return s.ms }
func (s Speed) KPH() float64 { return s.ms * 3.6 }
func (s Speed) MPH() float64 { return s.ms * 3.6 / 1.609 }

// Distance stores kilometers.
type Distance struct {
	km float64
}

// DistanceKM builds a Distance from kilometers.
func DistanceKM(km float64) Distance { return Distance{km: km} }

// DistanceMI builds a Distance from miles.
func DistanceMI(mi float64) Distance { return Distance{km: mi * 1.609} }

func (d Distance) KM() float64 { return d.km }
func (d Distance) MI() float64 { return d.km / 1.609 }

// Precipitation stores millimeters.
type Precipitation struct {
	mm float64
}

// PrecipMM builds a Precipitation amount from millimeters.
func PrecipMM(mm float64) Precipitation { return Precipitation{mm: mm} }

// PrecipIn builds a Precipitation amount from inches.
func PrecipIn(in float64) Precipitation { return Precipitation{mm: in * 25.4} }

func (p Precipitation) MM() float64 { return p.mm }
func (p Precipitation) In() float64 { return p.mm / 25.4 }
