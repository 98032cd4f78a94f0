package refdata

import (
	"errors"
	"fmt"
	"math"
)

// Validate checks the store for configuration errors that would make
// calculations meaningless. All problems are reported together.
//
// A zero baseline is accepted here; it only becomes an error when a
// non-zero emission has to be compared against it.
func (s *Store) Validate() error {
	var errs []error

	cal := s.calibration
	if cal.LowerBound < 0 || cal.UpperBound <= 0 || cal.LowerBound > cal.UpperBound {
		errs = append(errs, fmt.Errorf("%w: [%g, %g]", ErrInvalidBounds, cal.LowerBound, cal.UpperBound))
	}
	if cal.DatasetMean <= 0 || math.IsNaN(cal.DatasetMean) {
		errs = append(errs, fmt.Errorf("%w: got %g", ErrInvalidDatasetMean, cal.DatasetMean))
	}

	for _, c := range Categories() {
		ci, ok := s.categories[c]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingBaseline, c))
			continue
		}
		if ci.Baseline < 0 || math.IsNaN(ci.Baseline) {
			errs = append(errs, fmt.Errorf("%w: %s baseline %g", ErrInvalidBaseline, c, ci.Baseline))
		}
		if ci.DefaultWeight <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidDefaultWeight, c))
		}
		if ci.Offset < 0 {
			errs = append(errs, fmt.Errorf("%w: %s offset %g is negative", ErrInvalidBaseline, c, ci.Offset))
		}
	}

	for _, q := range s.questions {
		if err := validateQuestion(q); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func validateQuestion(q Question) error {
	if q.Topic == "" {
		return fmt.Errorf("%w: question %d has no topic", ErrInvalidQuestion, q.ID)
	}

	switch q.Kind {
	case KindChoice:
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: choice question %q has no options", ErrInvalidQuestion, q.Topic)
		}
		if q.Slider != nil {
			return fmt.Errorf("%w: choice question %q declares a slider", ErrInvalidQuestion, q.Topic)
		}
		for _, o := range q.Options {
			if o.CO2 < 0 {
				return fmt.Errorf("%w: option %q of %q has negative weight", ErrInvalidQuestion, o.Label, q.Topic)
			}
		}
		if q.Fallback < 0 {
			return fmt.Errorf("%w: question %q has negative fallback", ErrInvalidQuestion, q.Topic)
		}
	case KindSlider:
		if q.Slider == nil {
			return fmt.Errorf("%w: slider question %q has no range", ErrInvalidQuestion, q.Topic)
		}
		if len(q.Options) > 0 {
			return fmt.Errorf("%w: slider question %q declares options", ErrInvalidQuestion, q.Topic)
		}
		if q.Slider.Min < 0 || q.Slider.Min > q.Slider.Max {
			return fmt.Errorf("%w: slider %q range [%g, %g]", ErrInvalidQuestion, q.Topic, q.Slider.Min, q.Slider.Max)
		}
		if q.Slider.Coefficient < 0 {
			return fmt.Errorf("%w: slider %q has negative coefficient", ErrInvalidQuestion, q.Topic)
		}
	default:
		return fmt.Errorf("%w: question %q: %s", ErrUnknownKind, q.Topic, q.Kind)
	}
	return nil
}
