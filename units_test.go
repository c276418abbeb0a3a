package multiweather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemperatureConversion(t *testing.T) {
	temp := TempC(20)
	assert.Equal(t, 20.0, temp.C())
	assert.Equal(t, 68.0, temp.F())

	temp = TempF(80)
	assert.Equal(t, 80.0, temp.F())
	assert.InDelta(t, 26.6667, temp.C(), 0.001)
}

func TestSpeedConversion(t *testing.T) {
	speed := SpeedKPH(100)
	assert.Equal(t, 100.0, speed.KPH())
	assert.InDelta(t, 100/1.609, speed.MPH(), 1e-9)
	assert.InDelta(t, 100/3.6, speed.MS(), 1e-9)

	speed = SpeedMS(360)
	assert.Equal(t, 360.0, speed.MS())
	assert.InDelta(t, 1296.0, speed.KPH(), 1e-9)

	speed = SpeedMPH(200)
	assert.InDelta(t, 200*1.609, speed.KPH(), 1e-9)
}

func TestDistanceConversion(t *testing.T) {
	dist := DistanceKM(100)
	assert.Equal(t, 100.0, dist.KM())
	assert.InDelta(t, 100/1.609, dist.MI(), 1e-9)

	dist = DistanceMI(200)
	assert.InDelta(t, 200*1.609, dist.KM(), 1e-9)
}

func TestPrecipitationConversion(t *testing.T) {
	p := PrecipMM(25.4)
	assert.Equal(t, 25.4, p.MM())
	assert.InDelta(t, 1.0, p.In(), 1e-9)

	p = PrecipIn(2)
	assert.InDelta(t, 50.8, p.MM(), 1e-9)
}
