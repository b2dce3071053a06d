package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(f float64) *float64 { return &f }

func TestValidateCoordinate(t *testing.T) {
	tests := []struct {
		name string
		lat  *float64
		lon  *float64
		want error
	}{
		{"absent", nil, nil, nil},
		{"jakarta", ptr(-6.2), ptr(106.8), nil},
		{"poles and antimeridian", ptr(90), ptr(-180), nil},
		{"latitude too large", ptr(90.5), ptr(0), ErrInvalidCoordinate},
		{"longitude too small", ptr(0), ptr(-181), ErrInvalidCoordinate},
		{"only latitude", ptr(1), nil, ErrPartialCoordinate},
		{"only longitude", nil, ptr(1), ErrPartialCoordinate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateCoordinate(tt.lat, tt.lon), tt.want)
		})
	}
}
