package jpmesh

import (
	"fmt"
	"math"
	"strings"
)

// DMSToDegree converts a packed degree-minute-second value (DDDMMSS.sssss,
// e.g. 1400516.27814 for 140°05'16.27814") to decimal degrees, rounded to
// nine decimal places.
func DMSToDegree(dms float64) (float64, error) {
	if math.IsNaN(dms) || math.IsInf(dms, 0) {
		return 0, fmt.Errorf("dms must be finite, got %v", dms)
	}

	txt := formatDMS(dms)
	intPart := txt
	frac := 0.0
	if i := strings.IndexByte(txt, '.'); i >= 0 {
		intPart = txt[:i]
		frac = dms - math.Trunc(dms)
	}

	neg := false
	if strings.HasPrefix(intPart, "-") {
		neg = true
		intPart = intPart[1:]
		frac = -frac
	}

	if len(intPart) < 6 || len(intPart) > 7 {
		return 0, fmt.Errorf("dms must have a 6- or 7-digit integer part, got %v", dms)
	}

	sec := float64(atoiFast(intPart[len(intPart)-2:])) + frac
	min := float64(atoiFast(intPart[len(intPart)-4 : len(intPart)-2]))
	deg := float64(atoiFast(intPart[:len(intPart)-4]))

	v := deg + min/60 + sec/3600
	if neg {
		v = -v
	}

	return math.Round(v*1e9) / 1e9, nil
}

// EncodeDMS encodes a coordinate given in packed DMS form.
func EncodeDMS(lonDMS, latDMS float64) (Address, error) {
	lon, err := DMSToDegree(lonDMS)
	if err != nil {
		return Address{}, err
	}

	lat, err := DMSToDegree(latDMS)
	if err != nil {
		return Address{}, err
	}

	return Encode(lon, lat)
}

func formatDMS(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.6f", v), "0"), ".")
}

func atoiFast(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
