package chainutil

import (
	"math/big"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	iotypes "github.com/EscanBE/valueiou/types"
)

// DefaultDecimals is the number of decimals of ether and of most ERC20 tokens.
const DefaultDecimals = uint8(18)

// maxExponent bounds the scientific notation exponent accepted in amounts.
const maxExponent = 1_000

// CollapsePlaces is the number of fractional digits CollapseDecimals keeps, rounding half up.
const CollapsePlaces = 20

// exact disables rounding in shiftDecimal.
const exact = -1

var (
	AddressZero = common.Address{}

	// MaxUint256 is 2^256 - 1.
	MaxUint256 = sdkmath.NewIntFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)))

	// MaxInt128 is 2^128 - 1.
	MaxInt128 = sdkmath.NewIntFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)))
)

// ExpandDecimals returns n * 10^decimals. The result must be an integer.
func ExpandDecimals(n string, decimals uint8) (sdkmath.Int, error) {
	s, err := ExpandDecimalsString(n, decimals)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if strings.Contains(s, ".") {
		return sdkmath.Int{}, errorsmod.Wrapf(iotypes.ErrFractionalAmount, "%s with %d decimals", n, decimals)
	}

	i, ok := sdkmath.NewIntFromString(s)
	if !ok {
		return sdkmath.Int{}, errorsmod.Wrapf(iotypes.ErrInvalidAmount, "%s is out of range", s)
	}
	return i, nil
}

// ExpandDecimalsString returns n * 10^decimals as a decimal string, fractional digits kept.
func ExpandDecimalsString(n string, decimals uint8) (string, error) {
	return shiftDecimal(n, int(decimals), exact)
}

// CollapseDecimals returns n / 10^decimals as a decimal string,
// rounded half up to CollapsePlaces fractional digits.
func CollapseDecimals(n string, decimals uint8) (string, error) {
	return shiftDecimal(n, -int(decimals), CollapsePlaces)
}

// ToWei converts an ether amount to wei.
func ToWei(n string) (sdkmath.Int, error) {
	return ExpandDecimals(n, DefaultDecimals)
}

// ToWeiString converts an ether amount to wei, as a decimal string.
func ToWeiString(n string) (string, error) {
	return ExpandDecimalsString(n, DefaultDecimals)
}

// FromWei converts a wei amount to ether.
func FromWei(n string) (string, error) {
	return CollapseDecimals(n, DefaultDecimals)
}

// shiftDecimal moves the decimal point of n by shift places, to the right when shift is positive.
// n is a base-10 number with an optional sign, fraction and exponent, or a 0x-prefixed hex integer.
// When places is not exact the fraction is rounded half up to that many digits.
// The result has no exponent, no leading zeros and no trailing fractional zeros.
func shiftDecimal(n string, shift, places int) (string, error) {
	s := strings.TrimSpace(n)

	negative := false
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		negative = s[0] == '-'
		s = s[1:]
	}

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		i, ok := new(big.Int).SetString(s[2:], 16)
		if !ok || strings.ContainsAny(s[2:], "+-") {
			return "", errorsmod.Wrapf(iotypes.ErrInvalidAmount, "%q", n)
		}
		s = i.String()
	} else if i := strings.IndexAny(s, "eE"); i >= 0 {
		exp, err := strconv.Atoi(s[i+1:])
		if err != nil || exp > maxExponent || exp < -maxExponent {
			return "", errorsmod.Wrapf(iotypes.ErrInvalidAmount, "bad exponent in %q", n)
		}
		shift += exp
		s = s[:i]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	digits := intPart + fracPart
	if digits == "" || strings.Trim(digits, "0123456789") != "" {
		return "", errorsmod.Wrapf(iotypes.ErrInvalidAmount, "%q", n)
	}

	point := len(intPart) + shift
	switch {
	case point <= 0:
		intPart, fracPart = "0", strings.Repeat("0", -point)+digits
	case point >= len(digits):
		intPart, fracPart = digits+strings.Repeat("0", point-len(digits)), ""
	default:
		intPart, fracPart = digits[:point], digits[point:]
	}

	if places != exact && len(fracPart) > places {
		intPart, fracPart = roundHalfUp(intPart, fracPart, places)
	}

	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = "0"
	}
	fracPart = strings.TrimRight(fracPart, "0")

	res := intPart
	if fracPart != "" {
		res += "." + fracPart
	}
	if negative && res != "0" {
		res = "-" + res
	}
	return res, nil
}

// roundHalfUp rounds the unsigned number intPart.fracPart to places fractional digits, ties away from zero.
func roundHalfUp(intPart, fracPart string, places int) (string, string) {
	roundUp := fracPart[places] >= '5'
	fracPart = fracPart[:places]
	if !roundUp {
		return intPart, fracPart
	}

	scaled, _ := new(big.Int).SetString(intPart+fracPart, 10)
	scaled.Add(scaled, big.NewInt(1))

	res := scaled.String()
	if len(res) <= places {
		res = strings.Repeat("0", places-len(res)+1) + res
	}
	return res[:len(res)-places], res[len(res)-places:]
}
