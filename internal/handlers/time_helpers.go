package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/models"
	"github.com/BruksfildServices01/booking-platform/internal/timezone"
)

// --------------------------------------------------
// Datas sempre no fuso do negócio
// --------------------------------------------------

func parseDateInBusiness(business *models.Business, dateStr string) (time.Time, error) {
	return timezone.ParseDate(dateStr, timezone.Location(business.Timezone))
}

// todayIn é usado quando a query não traz data.
func todayIn(business *models.Business, now time.Time) string {
	return now.In(timezone.Location(business.Timezone)).Format(timezone.DateLayout)
}

// --------------------------------------------------
// Parâmetros de rota
// --------------------------------------------------

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid id")
		return 0, false
	}
	return uint(id), true
}
