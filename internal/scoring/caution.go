package scoring

import (
	"fmt"
	"strconv"
	"strings"
)

// AgeRule attaches an advisory when the subject's age falls outside [Min, Max].
type AgeRule struct {
	Min     float64
	Max     float64
	Message string
}

// CLIAgeRule and HTTPAgeRule keep the two shells' historical ranges.
func CLIAgeRule() AgeRule {
	return AgeRule{Min: 18, Max: 80, Message: "model may be unreliable for very young/old people"}
}

func HTTPAgeRule() AgeRule {
	return AgeRule{Min: 11, Max: 75, Message: "model may be unreliable for kids under 11 or elders over 75"}
}

// Caution returns nil when age is empty, not a number, or within range.
func (r AgeRule) Caution(age string) *string {
	age = strings.TrimSpace(age)
	if age == "" {
		return nil
	}
	a, err := strconv.ParseFloat(age, 64)
	if err != nil {
		return nil
	}
	if !(a < r.Min || a > r.Max) {
		return nil
	}

	msg := fmt.Sprintf("⚠ Age = %s: %s; interpret result cautiously.", formatAge(a), r.Message)
	return &msg
}

// formatAge prints whole ages with one decimal ("15.0") and others as short as possible.
func formatAge(a float64) string {
	s := strconv.FormatFloat(a, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}
