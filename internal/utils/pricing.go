package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"renthub-backend/internal/domain"
)

// Date represents a calendar date
type Date struct {
	Year  int
	Month int
	Day   int
}

// ParseDate converts a yyyy-mm-dd formatted string into a Date struct
func ParseDate(dateStr string) (Date, error) {
	parts := strings.Split(dateStr, "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd")
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Date{}, fmt.Errorf("invalid year: %v", err)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Date{}, fmt.Errorf("invalid month: %v", err)
	}

	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return Date{}, fmt.Errorf("invalid day: %v", err)
	}

	if month < 1 || month > 12 {
		return Date{}, fmt.Errorf("month must be between 1 and 12")
	}

	if day < 1 || day > 31 {
		return Date{}, fmt.Errorf("day must be between 1 and 31")
	}

	return Date{Year: year, Month: month, Day: day}, nil
}

// DaysInMonth returns the number of days in a given month
func DaysInMonth(year, month int) int {
	if month == 2 {
		// Check for leap year
		if (year%4 == 0 && year%100 != 0) || (year%400 == 0) {
			return 29
		}
		return 28
	}

	// Months with 30 days: April, June, September, November
	if month == 4 || month == 6 || month == 9 || month == 11 {
		return 30
	}

	// All other months have 31 days
	return 31
}

// InclusiveDays counts the days between two dates, including both ends.
// A one-day rental has start == end and counts as 1.
func InclusiveDays(startDate, endDate Date) (int32, error) {
	if endDate.Year < startDate.Year ||
		(endDate.Year == startDate.Year && endDate.Month < startDate.Month) ||
		(endDate.Year == startDate.Year && endDate.Month == startDate.Month && endDate.Day < startDate.Day) {
		return 0, fmt.Errorf("end date must be >= start date")
	}

	total := 0
	year, month, day := startDate.Year, startDate.Month, startDate.Day
	for year != endDate.Year || month != endDate.Month {
		total += DaysInMonth(year, month) - day + 1
		day = 1
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	total += endDate.Day - day + 1

	return int32(total), nil
}

// ComputePricing builds the cost snapshot captured at approval time:
// daily rate times inclusive rental days, plus the platform fee, plus
// the refundable security deposit.
func ComputePricing(start, end time.Time, dailyRateCents, securityDepositCents int32, platformFeePercent int, currency string) (domain.Pricing, error) {
	if dailyRateCents < 0 || securityDepositCents < 0 {
		return domain.Pricing{}, fmt.Errorf("rates must be non-negative")
	}

	startDate, err := ParseDate(start.Format("2006-01-02"))
	if err != nil {
		return domain.Pricing{}, fmt.Errorf("invalid start date: %v", err)
	}
	endDate, err := ParseDate(end.Format("2006-01-02"))
	if err != nil {
		return domain.Pricing{}, fmt.Errorf("invalid end date: %v", err)
	}

	days, err := InclusiveDays(startDate, endDate)
	if err != nil {
		return domain.Pricing{}, err
	}

	subtotal := days * dailyRateCents
	fee := subtotal * int32(platformFeePercent) / 100

	return domain.Pricing{
		DailyRateCents:       dailyRateCents,
		SubtotalCents:        subtotal,
		PlatformFeeCents:     fee,
		SecurityDepositCents: securityDepositCents,
		TotalCents:           subtotal + fee + securityDepositCents,
		Currency:             currency,
	}, nil
}
