package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	domain "github.com/BruksfildServices01/booking-platform/internal/domain/appointment"
)

func TestOverlapConstraintCoversBlockingStatuses(t *testing.T) {
	sql := overlapConstraintSQL()

	assert.Contains(t, sql, "EXCLUDE USING gist")
	assert.Contains(t, sql, "business_id WITH =")
	assert.Contains(t, sql, "tstzrange(start_time, end_time, '[)') WITH &&")
	assert.Contains(t, sql, "start_time IS NOT NULL AND end_time IS NOT NULL")

	for _, s := range domain.BlockingStatuses() {
		assert.Contains(t, sql, "'"+s+"'")
	}
	for _, s := range []domain.Status{
		domain.StatusRejected,
		domain.StatusCompleted,
		domain.StatusCancelled,
	} {
		assert.False(t, strings.Contains(sql, "'"+string(s)+"'"), "terminal status %s must not block", s)
	}
}
