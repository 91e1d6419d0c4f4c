package library

import (
	"time"

	"github.com/austinfarr/read-that/pkg/errcodes"
	"github.com/austinfarr/read-that/pkg/models"
)

// nowDate returns today's date in the storage format.
func nowDate() string {
	return time.Now().Format(models.DateFormat)
}

// TransitionResult is the set of date field updates produced by a status
// transition. Columns lists the date columns that changed; an empty Columns
// means the transition is a no-op for dates (which is still a legal update).
type TransitionResult struct {
	StartDate  *string
	FinishDate *string
	Columns    []string
}

// ApplyStatusTransition computes the date bookkeeping for moving a tracking
// record to a new reading status. It is pure: rec is not modified, and the
// only output is the returned field set. rec may be nil, meaning the record
// doesn't exist yet.
//
// Rules:
//   - reading (from any non-reading status): start_date = today, finish_date
//     cleared.
//   - finished: finish_date = today; start_date = today only if unset.
//   - want_to_read, dnf: dates untouched.
//   - resubmitting the current status is a no-op.
func ApplyStatusTransition(rec *models.UserBook, target string, today string) (TransitionResult, error) {
	if !models.ValidStatuses[target] {
		return TransitionResult{}, errcodes.InvalidStatus(target)
	}

	res := TransitionResult{Columns: []string{}}
	if rec != nil {
		res.StartDate = rec.StartDate
		res.FinishDate = rec.FinishDate

		if rec.Status == target {
			return res, nil
		}
	}

	switch target {
	case models.StatusReading:
		res.StartDate = &today
		res.FinishDate = nil
		res.Columns = append(res.Columns, "start_date", "finish_date")
	case models.StatusFinished:
		if res.StartDate == nil {
			res.StartDate = &today
			res.Columns = append(res.Columns, "start_date")
		}
		res.FinishDate = &today
		res.Columns = append(res.Columns, "finish_date")
	}

	return res, nil
}
