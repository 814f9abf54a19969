package constants

import (
	"fmt"
	"strings"
	"time"
)

// Month adalah nama bulan kalender (English) seperti yang disimpan di payments.payment_month.
type Month string

const (
	January   Month = "January"
	February  Month = "February"
	March     Month = "March"
	April     Month = "April"
	May       Month = "May"
	June      Month = "June"
	July      Month = "July"
	August    Month = "August"
	September Month = "September"
	October   Month = "October"
	November  Month = "November"
	December  Month = "December"
)

// Months in calendar order.
var Months = [12]Month{
	January, February, March, April, May, June,
	July, August, September, October, November, December,
}

// MonthOneOf dipakai di tag validator: `validate:"oneof=..."`.
const MonthOneOf = "January February March April May June July August September October November December"

func (m Month) String() string { return string(m) }

func (m Month) Valid() bool {
	for _, v := range Months {
		if v == m {
			return true
		}
	}
	return false
}

// ParseMonth menerima nama bulan (case-insensitive, boleh singkatan 3 huruf) atau angka 1..12.
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("month is empty")
	}
	for i, v := range Months {
		name := string(v)
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:3]) || s == fmt.Sprint(i+1) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown month %q", s)
}

// MonthOf returns the month name for t.
func MonthOf(t time.Time) Month {
	return Months[t.Month()-1]
}
