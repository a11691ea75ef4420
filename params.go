package main

import (
	"fmt"
	"math"
)

// maxPiDenominator bounds the search for a k*pi/d spelling of an angle. It
// covers every Zeno angle pi/(2N) up to N = 2048.
const maxPiDenominator = 4096

// formatParam formats an angle, using pi notation when it is a small rational
// multiple of pi: "pi", "pi/2", "3*pi/4", "-pi/40", "2*pi".
func formatParam(val float64) string {
	if val == 0 {
		return "0"
	}

	ratio := val / math.Pi
	for den := 1; den <= maxPiDenominator; den++ {
		num := math.Round(ratio * float64(den))
		if num == 0 || math.Abs(num/float64(den)-ratio) > 1e-12 {
			continue
		}
		sign := ""
		if num < 0 {
			sign = "-"
			num = -num
		}
		coeff := ""
		if num != 1 {
			coeff = fmt.Sprintf("%d*", int(num))
		}
		if den == 1 {
			return sign + coeff + "pi"
		}
		return fmt.Sprintf("%s%spi/%d", sign, coeff, den)
	}

	return fmt.Sprintf("%g", val)
}
