package chainutil

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	iotypes "github.com/EscanBE/valueiou/types"
)

func TestConstants(t *testing.T) {
	require.Equal(t, "115792089237316195423570985008687907853269984665640564039457584007913129639935", MaxUint256.String())
	require.Equal(t, "340282366920938463463374607431768211455", MaxInt128.String())
	require.Equal(t, "0x0000000000000000000000000000000000000000", AddressZero.Hex())
}

func TestExpandDecimals(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		decimals uint8
		want     string
		wantErr  error
	}{
		{name: "pass - integer", input: "1000", decimals: 18, want: "1000000000000000000000"},
		{name: "pass - fraction", input: "1.5", decimals: 18, want: "1500000000000000000"},
		{name: "pass - smallest unit", input: "0.000000000000000001", decimals: 18, want: "1"},
		{name: "pass - negative", input: "-2.25", decimals: 2, want: "-225"},
		{name: "pass - explicit plus sign", input: "+7", decimals: 0, want: "7"},
		{name: "pass - leading and trailing zeros", input: "007.50", decimals: 1, want: "75"},
		{name: "pass - negative zero", input: "-0.0", decimals: 6, want: "0"},
		{name: "pass - exponent", input: "1.5e3", decimals: 3, want: "1500000"},
		{name: "pass - negative exponent", input: "25e-1", decimals: 1, want: "25"},
		{name: "pass - surrounding spaces", input: " 3 ", decimals: 2, want: "300"},
		{name: "pass - hex", input: "0x10", decimals: 2, want: "1600"},
		{name: "pass - negative upper case hex", input: "-0XfF", decimals: 0, want: "-255"},
		{name: "fail - too many fractional digits", input: "1.0000000000000000001", decimals: 18, wantErr: iotypes.ErrFractionalAmount},
		{name: "fail - not a number", input: "abc", decimals: 18, wantErr: iotypes.ErrInvalidAmount},
		{name: "fail - empty", input: "", decimals: 18, wantErr: iotypes.ErrInvalidAmount},
		{name: "fail - lone point", input: ".", decimals: 18, wantErr: iotypes.ErrInvalidAmount},
		{name: "fail - two points", input: "1.2.3", decimals: 18, wantErr: iotypes.ErrInvalidAmount},
		{name: "fail - bad exponent", input: "1e", decimals: 18, wantErr: iotypes.ErrInvalidAmount},
		{name: "fail - huge exponent", input: "1e100000", decimals: 18, wantErr: iotypes.ErrInvalidAmount},
		{name: "fail - empty hex", input: "0x", decimals: 18, wantErr: iotypes.ErrInvalidAmount},
		{name: "fail - hex fraction", input: "0x1.8", decimals: 18, wantErr: iotypes.ErrInvalidAmount},
		{name: "fail - signed hex digits", input: "0x-1", decimals: 18, wantErr: iotypes.ErrInvalidAmount},
		{name: "fail - out of 256 bits", input: MaxUint256.String(), decimals: 1, wantErr: iotypes.ErrInvalidAmount},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExpandDecimals(tc.input, tc.decimals)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.want, got.String())
		})
	}
}

func TestExpandDecimalsString(t *testing.T) {
	got, err := ExpandDecimalsString("1.0000000000000000001", 18)
	require.NoError(t, err)
	require.Equal(t, "1000000000000000000.1", got)

	got, err = ToWeiString("1000")
	require.NoError(t, err)
	require.Equal(t, "1000000000000000000000", got)
}

func TestCollapseDecimals(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		decimals uint8
		want     string
	}{
		{name: "fraction", input: "1500000000000000000", decimals: 18, want: "1.5"},
		{name: "smallest unit", input: "1", decimals: 18, want: "0.000000000000000001"},
		{name: "zero", input: "0", decimals: 18, want: "0"},
		{name: "negative", input: "-1000000000000000000", decimals: 18, want: "-1"},
		{name: "exponent", input: "1e18", decimals: 18, want: "1"},
		{name: "no decimals", input: "42", decimals: 0, want: "42"},
		{name: "decimal input", input: "12.5", decimals: 2, want: "0.125"},
		{name: "hex input", input: "0xde0b6b3a7640000", decimals: 18, want: "1"},
		{name: "rounded down below 20 places", input: "0.001", decimals: 18, want: "0"},
		{name: "rounded half up at 20 places", input: "5", decimals: 21, want: "0.00000000000000000001"},
		{name: "negative rounded away from zero", input: "-15", decimals: 21, want: "-0.00000000000000000002"},
		{name: "rounding carries into integer", input: "9999999999999999999999", decimals: 22, want: "1"},
		{name: "kept at 20 places", input: "12345678901234567890", decimals: 20, want: "0.1234567890123456789"},
		{
			name:     "max uint256",
			input:    MaxUint256.String(),
			decimals: 18,
			want:     "115792089237316195423570985008687907853269984665640564039457.584007913129639935",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CollapseDecimals(tc.input, tc.decimals)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}

	_, err := CollapseDecimals("1,5", 18)
	require.ErrorIs(t, err, iotypes.ErrInvalidAmount)
}

func TestWeiConversions(t *testing.T) {
	initBalance, err := ToWei("1000")
	require.NoError(t, err)
	require.True(t, initBalance.Equal(sdkmath.NewIntWithDecimal(1000, 18)))

	ether, err := FromWei(initBalance.String())
	require.NoError(t, err)
	require.Equal(t, "1000", ether)

	for _, amount := range []string{"0", "1", "0.1", "123.456", "-9.000000000000000009", "100000000000000000000000000"} {
		for _, decimals := range []uint8{0, 6, 18, 30} {
			expanded, err := ExpandDecimalsString(amount, decimals)
			require.NoError(t, err)

			collapsed, err := CollapseDecimals(expanded, decimals)
			require.NoError(t, err)
			require.Equal(t, amount, collapsed, "amount %s, decimals %d", amount, decimals)
		}
	}
}
