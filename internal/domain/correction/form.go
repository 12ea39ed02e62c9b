package correction

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
)

// BreakForm holds the submitted values of one break row. A nil field was
// not part of the submission; an empty string was submitted blank.
type BreakForm struct {
	Start *string
	End   *string
}

func (b BreakForm) Present() bool {
	return b.Start != nil || b.End != nil
}

// CorrectionForm is a correction submission as posted by a browser form or
// a JSON client. Only fields present in the submission take part in the
// diff and in the cross-field rules.
type CorrectionForm struct {
	ClockIn  *string
	ClockOut *string
	Memo     *string
	Reason   *string
	Breaks   [MaxBreaks]BreakForm
}

func BreakStartParam(i int) string { return fmt.Sprintf("break_start_%d", i) }
func BreakEndParam(i int) string   { return fmt.Sprintf("break_end_%d", i) }

// NewCorrectionForm reads every known key through lookup, which reports
// whether the key was submitted at all.
func NewCorrectionForm(lookup func(key string) (string, bool)) CorrectionForm {
	get := func(key string) *string {
		v, ok := lookup(key)
		if !ok {
			return nil
		}
		v = strings.TrimSpace(v)
		return &v
	}

	form := CorrectionForm{
		ClockIn:  get("clock_in"),
		ClockOut: get("clock_out"),
		Memo:     get("memo"),
		Reason:   get("reason"),
	}
	for i := range form.Breaks {
		form.Breaks[i] = BreakForm{
			Start: get(BreakStartParam(i)),
			End:   get(BreakEndParam(i)),
		}
	}
	return form
}

// Note is the memo, falling back to the reason field.
func (f *CorrectionForm) Note() string {
	if f.Memo != nil && *f.Memo != "" {
		return *f.Memo
	}
	if f.Reason != nil {
		return *f.Reason
	}
	return ""
}

// Validate checks formats first, then the ordering rules between fields
// that were submitted with a well-formed value.
func (f *CorrectionForm) Validate() error {
	var errs validator.ValidationErrors

	clock := func(field string, v *string) (int, bool) {
		if v == nil || *v == "" {
			return 0, false
		}
		minutes, ok := validator.ClockMinutes(*v)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must be a time formatted as HH:MM",
			})
		}
		return minutes, ok
	}

	clockIn, hasIn := clock("clock_in", f.ClockIn)
	clockOut, hasOut := clock("clock_out", f.ClockOut)

	if validator.IsEmpty(f.Note()) {
		errs = append(errs, validator.ValidationError{
			Field:   "memo",
			Message: "memo is required",
		})
	}

	if hasIn && hasOut && clockIn >= clockOut {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_in",
			Message: "clock_in must be before clock_out",
		})
	}

	for i, b := range f.Breaks {
		startField, endField := BreakStartParam(i), BreakEndParam(i)
		start, hasStart := clock(startField, b.Start)
		end, hasEnd := clock(endField, b.End)

		if hasStart && hasEnd && start >= end {
			errs = append(errs, validator.ValidationError{
				Field:   startField,
				Message: "break start must be before break end",
			})
		}
		if hasIn && hasStart && start < clockIn {
			errs = append(errs, validator.ValidationError{
				Field:   startField,
				Message: "break start must not be before clock_in",
			})
		}
		if hasOut && hasEnd && end > clockOut {
			errs = append(errs, validator.ValidationError{
				Field:   endField,
				Message: "break end must not be after clock_out",
			})
		}
		if hasOut && hasStart && start > clockOut {
			errs = append(errs, validator.ValidationError{
				Field:   startField,
				Message: "break start must not be after clock_out",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
