// file: internals/helpers/rupees.go
package helper

import (
	"strconv"
	"strings"
)

// FormatIndian mengelompokkan digit gaya India: 1234567 → "12,34,567".
func FormatIndian(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	if len(s) > 3 {
		head, tail := s[:len(s)-3], s[len(s)-3:]
		var parts []string
		for len(head) > 2 {
			parts = append([]string{head[len(head)-2:]}, parts...)
			head = head[:len(head)-2]
		}
		parts = append([]string{head}, parts...)
		s = strings.Join(parts, ",") + "," + tail
	}
	if neg {
		return "-" + s
	}
	return s
}

// FormatRupees: 2500 → "₹ 2,500".
func FormatRupees(n int64) string {
	return "₹ " + FormatIndian(n)
}

var (
	wordOnes = []string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
		"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}
	wordTens = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
)

// AmountInWords mengeja rupee utuh dengan skala India (Thousand, Lakh, Crore).
// 150000 → "One Lakh Fifty Thousand".
func AmountInWords(n int64) string {
	if n == 0 {
		return "Zero"
	}
	if n < 0 {
		return "Minus " + AmountInWords(-n)
	}

	var parts []string
	if crore := n / 10_000_000; crore > 0 {
		// di atas 99 crore tetap dieja sebagai "<n> Crore"
		parts = append(parts, AmountInWords(crore), "Crore")
		n %= 10_000_000
	}
	if lakh := n / 100_000; lakh > 0 {
		parts = append(parts, belowHundred(lakh), "Lakh")
		n %= 100_000
	}
	if thousand := n / 1000; thousand > 0 {
		parts = append(parts, belowHundred(thousand), "Thousand")
		n %= 1000
	}
	if hundred := n / 100; hundred > 0 {
		parts = append(parts, wordOnes[hundred], "Hundred")
		n %= 100
	}
	if n > 0 {
		parts = append(parts, belowHundred(n))
	}
	return strings.Join(parts, " ")
}

func belowHundred(n int64) string {
	if n < 20 {
		return wordOnes[n]
	}
	if n%10 == 0 {
		return wordTens[n/10]
	}
	return wordTens[n/10] + " " + wordOnes[n%10]
}
