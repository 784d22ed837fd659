package search

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SciNot is a number in scientific notation: coefficient x 10^exponent. It
// holds e-values far below the smallest float64, ex: 1e-400, so products of
// many e-values don't underflow to zero.
//
// The coefficient is normalized to [1, 10), or is exactly 0
type SciNot struct {
	coefficient float64
	exponent    int
}

// NewSciNot returns a normalized coefficient x 10^exponent
func NewSciNot(coefficient float64, exponent int) SciNot {
	s := SciNot{coefficient: coefficient, exponent: exponent}
	s.normalize()
	return s
}

// ParseSciNot reads an e-value as printed by BLAST, ex: "2e-50", "0.0",
// "4.5", "1e-400"
func ParseSciNot(text string) (SciNot, error) {
	text = strings.TrimSpace(text)
	coef, exp := text, "0"
	if i := strings.IndexAny(text, "eE"); i >= 0 {
		coef, exp = text[:i], text[i+1:]
	}

	c, err := strconv.ParseFloat(coef, 64)
	if err != nil {
		return SciNot{}, fmt.Errorf("parsing e-value %q: %w", text, err)
	}
	e, err := strconv.Atoi(strings.TrimPrefix(exp, "+"))
	if err != nil {
		return SciNot{}, fmt.Errorf("parsing e-value exponent %q: %w", text, err)
	}
	return NewSciNot(c, e), nil
}

func (s *SciNot) normalize() {
	if s.coefficient == 0 || math.IsNaN(s.coefficient) || math.IsInf(s.coefficient, 0) {
		if s.coefficient == 0 {
			s.exponent = 0
		}
		return
	}

	shift := int(math.Floor(math.Log10(math.Abs(s.coefficient))))
	s.coefficient /= math.Pow10(shift)
	s.exponent += shift

	// log10 rounding can leave the coefficient just outside [1, 10)
	if math.Abs(s.coefficient) >= 10 {
		s.coefficient /= 10
		s.exponent++
	} else if math.Abs(s.coefficient) < 1 {
		s.coefficient *= 10
		s.exponent--
	}
}

// Coefficient returns the normalized coefficient
func (s SciNot) Coefficient() float64 { return s.coefficient }

// Exponent returns the base-10 exponent
func (s SciNot) Exponent() int { return s.exponent }

// IsZero is true for 0
func (s SciNot) IsZero() bool { return s.coefficient == 0 }

// Mul multiplies the coefficients and adds the exponents
func (s SciNot) Mul(o SciNot) SciNot {
	return NewSciNot(s.coefficient*o.coefficient, s.exponent+o.exponent)
}

// Pow raises a positive number to a real power. Zero stays zero
func (s SciNot) Pow(p float64) SciNot {
	if s.coefficient <= 0 {
		return s
	}

	logValue := p * (math.Log10(s.coefficient) + float64(s.exponent))
	exp := math.Floor(logValue)
	return NewSciNot(math.Pow(10, logValue-exp), int(exp))
}

// Compare returns -1 if s < o, 0 if they're equal and 1 if s > o
func (s SciNot) Compare(o SciNot) int {
	sSign, oSign := sign(s.coefficient), sign(o.coefficient)
	if sSign != oSign {
		if sSign < oSign {
			return -1
		}
		return 1
	}
	if sSign == 0 {
		return 0
	}

	// same sign: a larger exponent means a larger magnitude
	c := 0
	switch {
	case s.exponent != o.exponent:
		c = 1
		if s.exponent < o.exponent {
			c = -1
		}
	case s.coefficient < o.coefficient:
		return -1
	case s.coefficient > o.coefficient:
		return 1
	}
	return c * sSign
}

// Less is true if s < o
func (s SciNot) Less(o SciNot) bool {
	return s.Compare(o) < 0
}

// Float64 converts to a float64, which underflows to 0 for tiny values
func (s SciNot) Float64() float64 {
	return s.coefficient * math.Pow(10, float64(s.exponent))
}

// String formats like BLAST, ex: "2.5e-50", "0"
func (s SciNot) String() string {
	if s.coefficient == 0 {
		return "0"
	}

	// rounding can carry the coefficient up to 10, ex: 9.9996
	c, exp := math.Round(s.coefficient*1000)/1000, s.exponent
	if math.Abs(c) >= 10 {
		c /= 10
		exp++
	}

	coef := strconv.FormatFloat(c, 'f', -1, 64)
	if exp == 0 {
		return coef
	}
	return fmt.Sprintf("%se%d", coef, exp)
}

// MarshalText writes the String form, used for JSON reports
func (s SciNot) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText reads a value written by MarshalText
func (s *SciNot) UnmarshalText(text []byte) error {
	v, err := ParseSciNot(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func sign(f float64) int {
	switch {
	case f < 0:
		return -1
	case f > 0:
		return 1
	}
	return 0
}
