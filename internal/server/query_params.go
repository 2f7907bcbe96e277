package server

import (
	"errors"
	"strconv"
	"strings"

	"github.com/konektanet/konekta/pkg/dates"
)

func parseOptionalInt(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, nil
	}
	return strconv.Atoi(trimmed)
}

func parseOptionalDate(value string) (*dates.Date, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := dates.Parse(trimmed)
	if err != nil {
		return nil, errors.New("invalid_date")
	}
	return &parsed, nil
}
