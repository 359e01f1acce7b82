package utils

// IsValidInterval guards the interval name interpolated into the
// ClickHouse toStartOf<Interval>() bucket function.
func IsValidInterval(interval string) bool {
	switch interval {
	case "Minute", "Hour", "Day", "Week", "Month", "Quarter", "Year":
		return true
	default:
		return false
	}
}
