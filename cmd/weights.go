package cmd

import (
	"fmt"
	"strconv"
	"strings"
)

// parseWeights parses a comma separated list of weights. An empty list means no weights.
func parseWeights(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var weights []float64
	for _, field := range strings.Split(s, ",") {
		w, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight %q: %w", field, err)
		}
		weights = append(weights, w)
	}
	return weights, nil
}

// parseWeightArgs parses weights given as arguments, either all positional ("1 3") or all
// named ("A=1 B=3").
func parseWeightArgs(args []string) ([]float64, map[string]float64, error) {
	if len(args) == 0 {
		return nil, nil, nil
	}
	if !strings.Contains(args[0], "=") {
		weights, err := parseWeights(strings.Join(args, ","))
		return weights, nil, err
	}
	named := make(map[string]float64, len(args))
	for _, arg := range args {
		ticker, value, ok := strings.Cut(arg, "=")
		if !ok || ticker == "" {
			return nil, nil, fmt.Errorf("invalid named weight %q, want TICKER=WEIGHT", arg)
		}
		if _, exists := named[ticker]; exists {
			return nil, nil, fmt.Errorf("ticker %q has more than one weight", ticker)
		}
		w, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid weight for %q: %w", ticker, err)
		}
		named[ticker] = w
	}
	return nil, named, nil
}
