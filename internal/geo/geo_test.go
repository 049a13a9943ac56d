package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance_KnownValues(t *testing.T) {
	origin := Point{Lat: 20.0, Lng: 78.0}

	// 0.0003 度纬度约 33 米
	d := Distance(origin, Point{Lat: 20.0003, Lng: 78.0})
	assert.InDelta(t, 33.4, d, 0.5)

	// 1 度纬度约 111 公里
	d = Distance(origin, Point{Lat: 21.0, Lng: 78.0})
	assert.InDelta(t, 111_319, d, 200)

	assert.Zero(t, Distance(origin, origin))
}

func TestDistance_IsSymmetric(t *testing.T) {
	a := Point{Lat: 51.5007, Lng: -0.1246}
	b := Point{Lat: 40.6892, Lng: -74.0445}
	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-6)
}

func TestDistance_ExtremeInputsDoNotPanic(t *testing.T) {
	cases := []struct {
		name string
		a, b Point
	}{
		{"antipodal", Point{0, 0}, Point{0, 180}},
		{"poles", Point{90, 0}, Point{-90, 0}},
		{"north pole any lng", Point{90, 10}, Point{90, -170}},
		{"dateline", Point{10, 179.9999}, Point{10, -179.9999}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Distance(tc.a, tc.b)
			assert.False(t, math.IsNaN(d))
			assert.GreaterOrEqual(t, d, 0.0)
			assert.LessOrEqual(t, d, math.Pi*EarthRadius+1e-6)
		})
	}

	assert.InDelta(t, math.Pi*EarthRadius, Distance(Point{0, 0}, Point{0, 180}), 1e-3)
	assert.InDelta(t, 0, Distance(Point{90, 10}, Point{90, -170}), 1e-6)
}

func TestIsWithinRadius_Boundary(t *testing.T) {
	origins := []Point{
		{Lat: 20.0, Lng: 78.0},
		{Lat: -33.8688, Lng: 151.2093},
		{Lat: 64.1466, Lng: -21.9426},
		{Lat: 0, Lng: 179.9995},
	}
	radii := []float64{50, 100, 750, 5000}
	bearings := []float64{0, 45, 90, 180, 270, 333}
	const eps = 0.01

	for _, origin := range origins {
		for _, r := range radii {
			for _, brg := range bearings {
				p := Destination(origin, brg, r)
				d := Distance(p, origin)
				require.InDelta(t, r, d, 1e-6, "destination point should sit on the circle")

				assert.True(t, IsWithinRadius(p, origin, d), "exact boundary is inside")
				assert.True(t, IsWithinRadius(Destination(origin, brg, r-eps), origin, r), "r-eps is inside")
				assert.False(t, IsWithinRadius(Destination(origin, brg, r+eps), origin, r), "r+eps is outside")
			}
		}
	}
}

func TestValidatePoint(t *testing.T) {
	valid := []Point{{0, 0}, {90, 180}, {-90, -180}, {20, 78}}
	for _, p := range valid {
		assert.NoError(t, ValidatePoint(p), "%+v", p)
	}

	invalid := []Point{
		{Lat: 90.0001, Lng: 0},
		{Lat: -91, Lng: 0},
		{Lat: 0, Lng: 180.5},
		{Lat: 0, Lng: -181},
		{Lat: math.NaN(), Lng: 0},
		{Lat: 0, Lng: math.Inf(1)},
	}
	for _, p := range invalid {
		assert.ErrorIs(t, ValidatePoint(p), ErrInvalidPoint, "%+v", p)
	}
}

func TestGeohash(t *testing.T) {
	gh := Geohash(Point{Lat: 57.64911, Lng: 10.40744})
	assert.Equal(t, "u4pruydqq", gh)
	assert.Len(t, Geohash(Point{Lat: 20, Lng: 78}), GeohashPrecision)
}
