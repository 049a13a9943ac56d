// Package geo 提供点到圆心的距离计算与坐标校验
package geo

import (
	"errors"
	"fmt"
	"math"

	geohash "github.com/TomiHiltunen/geohash-golang"
)

// EarthRadius WGS84 赤道半径, 单位米
const EarthRadius = 6378137.0

// GeohashPrecision 约 5 米精度
const GeohashPrecision = 9

var ErrInvalidPoint = errors.New("坐标非法")

// Point 经纬度坐标, 单位为度
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ValidatePoint 拒绝 NaN、Inf 以及超出范围的经纬度
func ValidatePoint(p Point) error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return fmt.Errorf("%w: 非有限数值", ErrInvalidPoint)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: lat=%v 超出 [-90, 90]", ErrInvalidPoint, p.Lat)
	}
	if p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("%w: lng=%v 超出 [-180, 180]", ErrInvalidPoint, p.Lng)
	}
	return nil
}

// Distance 使用 haversine 公式计算两点间的大圆距离, 单位米
func Distance(a, b Point) float64 {
	lat1 := deg2rad(a.Lat)
	lat2 := deg2rad(b.Lat)
	dLat := lat2 - lat1
	dLng := deg2rad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	// 对跖点附近浮点误差可能让 h 略大于 1
	h = math.Min(1, math.Max(0, h))

	return 2 * EarthRadius * math.Asin(math.Sqrt(h))
}

// IsWithinRadius 判断 a 是否位于以 b 为圆心、radius 米为半径的圆内, 边界算在内
func IsWithinRadius(a, b Point, radius float64) bool {
	return Distance(a, b) <= radius
}

// Destination 从 origin 沿 bearing(度, 正北为 0) 前进 distance 米后的坐标
func Destination(origin Point, bearing, distance float64) Point {
	lat1 := deg2rad(origin.Lat)
	lng1 := deg2rad(origin.Lng)
	brng := deg2rad(bearing)
	d := distance / EarthRadius

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(d) + math.Cos(lat1)*math.Sin(d)*math.Cos(brng))
	lng2 := lng1 + math.Atan2(
		math.Sin(brng)*math.Sin(d)*math.Cos(lat1),
		math.Cos(d)-math.Sin(lat1)*math.Sin(lat2),
	)

	return Point{
		Lat: rad2deg(lat2),
		Lng: normalizeLng(rad2deg(lng2)),
	}
}

// Geohash 返回坐标的 geohash 编码
func Geohash(p Point) string {
	gh := geohash.Encode(p.Lat, p.Lng)
	if len(gh) > GeohashPrecision {
		gh = gh[:GeohashPrecision]
	}
	return gh
}

func normalizeLng(lng float64) float64 {
	for lng > 180 {
		lng -= 360
	}
	for lng < -180 {
		lng += 360
	}
	return lng
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func rad2deg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}
