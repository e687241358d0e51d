package service

import (
	"time"

	"github.com/Freeeeeet/lab_booking/internal/model"
)

func intervalOf(start, end time.Time) model.Interval {
	return model.Interval{Start: start, End: end}
}
