package multiweather

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationValidate(t *testing.T) {
	tests := []struct {
		name    string
		loc     Location
		wantErr bool
	}{
		{"valid coordinates", Coordinates(52.52, 13.405), false},
		{"boundary coordinates", Coordinates(-90, 180), false},
		{"latitude too high", Coordinates(90.1, 0), true},
		{"latitude too low", Coordinates(-90.1, 0), true},
		{"longitude too high", Coordinates(0, 180.5), true},
		{"longitude too low", Coordinates(0, -181), true},
		{"place name", PlaceName("Berlin"), false},
		{"place name with country", PlaceNameIn("Berlin", "DE"), false},
		{"empty place name", PlaceName(""), true},
		{"whitespace place name", PlaceName("   "), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.loc.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidLocation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLocationString(t *testing.T) {
	assert.Equal(t, "52.52,13.405", Coordinates(52.52, 13.405).String())
	assert.Equal(t, "Berlin,DE", PlaceNameIn("Berlin", "DE").String())
	assert.Equal(t, "Paris", PlaceName("Paris").String())
}

func TestLocationKind(t *testing.T) {
	assert.True(t, Coordinates(1, 2).IsCoordinates())
	assert.False(t, PlaceName("Tokyo").IsCoordinates())
}
