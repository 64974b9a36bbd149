package utils

import "fmt"

// thaiMonths holds the month names used on receipts and the revenue view.
var thaiMonths = []string{
	"มกราคม", "กุมภาพันธ์", "มีนาคม", "เมษายน", "พฤษภาคม", "มิถุนายน",
	"กรกฎาคม", "สิงหาคม", "กันยายน", "ตุลาคม", "พฤศจิกายน", "ธันวาคม",
}

// ThaiMonth returns the Thai name for a 1-based month number.
func ThaiMonth(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return thaiMonths[month-1]
}

// BuddhistYear converts a Gregorian year to the Buddhist era used for display.
// The offset is presentation-only; stored dates stay Gregorian.
func BuddhistYear(year int) int {
	return year + 543
}

// ThaiMonthYear formats a (month, year) pair for display, e.g. "สิงหาคม 2569".
func ThaiMonthYear(month, year int) string {
	return fmt.Sprintf("%s %d", ThaiMonth(month), BuddhistYear(year))
}
