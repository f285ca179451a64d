package stripe

import (
	"strings"

	"github.com/shopspring/decimal"
)

// zeroDecimalCurrencies are the currencies the processor charges in whole
// units, so their minor-unit representation carries no fractional digits.
var zeroDecimalCurrencies = map[string]bool{
	"BIF": true, "CLP": true, "DJF": true, "GNF": true, "JPY": true,
	"KMF": true, "KRW": true, "MGA": true, "PYG": true, "RWF": true,
	"UGX": true, "VND": true, "VUV": true, "XAF": true, "XOF": true,
	"XPF": true,
}

// threeDecimalCurrencies carry three fractional digits on the processor side.
var threeDecimalCurrencies = map[string]bool{
	"BHD": true, "JOD": true, "KWD": true, "OMR": true, "TND": true,
}

// FractionDigits returns the number of fractional digits the processor uses
// for the given ISO 4217 currency code.
func FractionDigits(currency string) int32 {
	code := strings.ToUpper(currency)
	switch {
	case zeroDecimalCurrencies[code]:
		return 0
	case threeDecimalCurrencies[code]:
		return 3
	default:
		return 2
	}
}

// MinorUnits converts a decimal monetary amount into the processor's
// minor-unit integer representation:
//
//	minor = round(amount * 10^fractionDigits)
func MinorUnits(amount decimal.Decimal, currency string) int64 {
	return amount.Shift(FractionDigits(currency)).Round(0).IntPart()
}

// MajorUnits converts a minor-unit integer amount back into a decimal
// monetary amount for the given currency.
func MajorUnits(minor int64, currency string) decimal.Decimal {
	return decimal.NewFromInt(minor).Shift(-FractionDigits(currency))
}
