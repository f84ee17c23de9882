package booking

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/akshaywebstep/synco-sub001/core"
)

var (
	// custom validation tags & texts
	ageBandTag  = "ageband"
	ageBandText = "must be one of: under18, 18-25, allAges"

	periodTag  = "reportperiod"
	periodText = "must be one of: thisMonth, thisQuarter, thisYear"

	intervalTag  = "planinterval"
	intervalText = "must be one of: month, quarter, year"
)

// InitValidators registers the booking filter validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(ageBandTag, ageBandValidation)
	core.RegisterCustomTranslation(validate, translator, ageBandTag, ageBandText)

	_ = validate.RegisterValidation(periodTag, periodValidation)
	core.RegisterCustomTranslation(validate, translator, periodTag, periodText)

	_ = validate.RegisterValidation(intervalTag, intervalValidation)
	core.RegisterCustomTranslation(validate, translator, intervalTag, intervalText)
}

func ageBandValidation(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case AgeUnder18, Age18To25, AgeAll:
		return true
	}
	return false
}

func periodValidation(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case PeriodThisMonth, PeriodThisQuarter, PeriodThisYear:
		return true
	}
	return false
}

func intervalValidation(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case IntervalMonth, IntervalQuarter, IntervalYear:
		return true
	}
	return false
}

func (qf *QueryFilter) Validate(validate *validator.Validate) error {
	qf.Clean()
	return validate.Struct(qf)
}
