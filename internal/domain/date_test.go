package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tourism_booking/internal/domain"
)

func TestDaysUntil(t *testing.T) {
	start := domain.NewDate(2025, 10, 1)

	assert.Equal(t, 4, start.DaysUntil(domain.NewDate(2025, 10, 5)))
	assert.Equal(t, -1, start.DaysUntil(domain.NewDate(2025, 9, 30)))
	assert.Equal(t, 366, start.DaysUntil(domain.NewDate(2026, 10, 2)))
	// beyond the range a time.Duration can hold
	assert.Equal(t, 2912543, domain.NewDate(2025, 9, 22).DaysUntil(domain.NewDate(9999, 12, 31)))
}
