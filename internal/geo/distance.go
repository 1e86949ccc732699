package geo

import "math"

// EarthRadiusKM 地球平均半径（公里）
const EarthRadiusKM = 6371.0

// Coordinate 经纬度坐标（度）
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ValidCoordinate 校验纬度在 [-90,90]、经度在 [-180,180] 范围内
func ValidCoordinate(c Coordinate) bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Distance 使用 haversine 公式计算两点间的大圆距离（公里）
// 调用方需先校验坐标范围。
func Distance(a, b Coordinate) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKM * c
}

// RoundDistance 距离保留一位小数（四舍五入，远离零）
func RoundDistance(km float64) float64 {
	return math.Round(km*10) / 10
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
