// Package password checks password strength and hashes credentials.
package password

import (
	"fmt"
	"math"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/prn-tf/recipebook/internal/config"
)

// Strength scoring constants. A password with weakBits of entropy or less
// scores at most weakMax; hardBits of entropy above weakBits scores hardVal.
const (
	weakBits = 30.0
	weakMax  = 0.333333333
	hardBits = weakBits * 3
	hardVal  = 0.950
)

// Stats holds the measurements a Policy is evaluated against.
type Stats struct {
	Length      int
	Letters     int
	Uppercase   int
	Numbers     int
	Special     int
	NonLetters  int
	EntropyBits float64
	Strength    float64
}

// Measure computes Stats for password.
func Measure(password string) Stats {
	var s Stats
	distinct := make(map[rune]struct{})

	for _, r := range password {
		distinct[r] = struct{}{}
		switch {
		case unicode.IsLetter(r):
			s.Letters++
			if unicode.IsUpper(r) {
				s.Uppercase++
			}
		case unicode.IsNumber(r):
			s.Numbers++
		case unicode.IsSpace(r):
		default:
			s.Special++
		}
	}

	s.Length = utf8.RuneCountInString(password)
	s.NonLetters = s.Length - s.Letters
	if len(distinct) > 0 {
		s.EntropyBits = float64(s.Length) * math.Log2(float64(len(distinct)))
	}
	s.Strength = strength(s.EntropyBits)

	return s
}

func strength(bits float64) float64 {
	if bits <= weakBits {
		return weakMax * bits / weakBits
	}
	k := -math.Log2((1-hardVal)/(1-weakMax)) / hardBits
	return 1 - (1-weakMax)*math.Pow(2, -k*(bits-weakBits))
}

// Rule is a single named threshold of a Policy.
type Rule struct {
	// Name is the rule label, e.g. "Length".
	Name string

	// Threshold is the minimum the measured value must reach.
	Threshold float64

	measure func(Stats) float64
}

// String renders the rule as Name(threshold), e.g. "Length(8)".
func (r Rule) String() string {
	return fmt.Sprintf("%s(%s)", r.Name, strconv.FormatFloat(r.Threshold, 'f', -1, 64))
}

// Policy is an ordered set of password rules.
type Policy struct {
	rules []Rule
}

// NewPolicy builds a Policy from configuration. Zero thresholds are skipped.
func NewPolicy(cfg config.PasswordPolicyConfig) *Policy {
	candidates := []Rule{
		{Name: "Length", Threshold: float64(cfg.Length), measure: func(s Stats) float64 { return float64(s.Length) }},
		{Name: "Uppercase", Threshold: float64(cfg.Uppercase), measure: func(s Stats) float64 { return float64(s.Uppercase) }},
		{Name: "Numbers", Threshold: float64(cfg.Numbers), measure: func(s Stats) float64 { return float64(s.Numbers) }},
		{Name: "Special", Threshold: float64(cfg.Special), measure: func(s Stats) float64 { return float64(s.Special) }},
		{Name: "NonLetters", Threshold: float64(cfg.NonLetters), measure: func(s Stats) float64 { return float64(s.NonLetters) }},
		{Name: "EntropyBits", Threshold: cfg.EntropyBits, measure: func(s Stats) float64 { return s.EntropyBits }},
		{Name: "Strength", Threshold: cfg.Strength, measure: func(s Stats) float64 { return s.Strength }},
	}

	p := &Policy{}
	for _, r := range candidates {
		if r.Threshold > 0 {
			p.rules = append(p.rules, r)
		}
	}
	return p
}

// Test returns the rules password fails, in policy order.
// An empty result means the password is acceptable.
func (p *Policy) Test(password string) []Rule {
	stats := Measure(password)

	var failed []Rule
	for _, r := range p.rules {
		if r.measure(stats) < r.Threshold {
			failed = append(failed, r)
		}
	}
	return failed
}

// Rules returns the configured rules.
func (p *Policy) Rules() []Rule {
	return append([]Rule(nil), p.rules...)
}
