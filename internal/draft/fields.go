package draft

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

func exercisePath(i int, field string) string {
	return fmt.Sprintf("exercises.%d.%s", i, field)
}

func setPath(i, j int, field string) string {
	return fmt.Sprintf("exercises.%d.sets.%d.%s", i, j, field)
}

// SetField updates one leaf field addressed by a dotted path:
//
//	name, description (template), notes (workout)
//	exercises.<i>.exerciseId, exercises.<i>.notes (workout)
//	exercises.<i>.sets.<j>.reps, exercises.<i>.sets.<j>.weight
//
// Numeric fields accept numbers or numeric strings. Range checks are left to Validate.
func (d *Draft) SetField(path string, value any) error {
	parts := strings.Split(path, ".")

	switch {
	case len(parts) == 1:
		s, err := toString(value)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		switch {
		case parts[0] == "name":
			d.Name = s
		case parts[0] == "description" && d.Kind == KindTemplate:
			d.Description = s
		case parts[0] == "notes" && d.Kind == KindWorkout:
			d.Notes = s
		default:
			return fmt.Errorf("%s: %w", path, ErrUnknownField)
		}
		return nil

	case len(parts) == 3 && parts[0] == "exercises":
		i, err := strconv.Atoi(parts[1])
		if err != nil {
			return fmt.Errorf("%s: %w", path, ErrUnknownField)
		}
		if i < 0 || i >= len(d.Exercises) {
			return fmt.Errorf("%s: %w", path, ErrIndexOutOfRange)
		}
		s, err := toString(value)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		switch {
		case parts[2] == "exerciseId":
			d.Exercises[i].ExerciseID = s
		case parts[2] == "notes" && d.Kind == KindWorkout:
			d.Exercises[i].Notes = s
		default:
			return fmt.Errorf("%s: %w", path, ErrUnknownField)
		}
		return nil

	case len(parts) == 5 && parts[0] == "exercises" && parts[2] == "sets":
		i, err1 := strconv.Atoi(parts[1])
		j, err2 := strconv.Atoi(parts[3])
		if err1 != nil || err2 != nil {
			return fmt.Errorf("%s: %w", path, ErrUnknownField)
		}
		_, s, err := d.set(i, j)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		switch parts[4] {
		case "reps":
			n, err := toInt(value)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			s.Reps = n
		case "weight":
			f, err := toFloat(value)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			s.Weight = f
		default:
			return fmt.Errorf("%s: %w", path, ErrUnknownField)
		}
		return nil
	}

	return fmt.Errorf("%s: %w", path, ErrUnknownField)
}

func toString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("%w: want string, got %T", ErrInvalidValue, v)
	}
}

func toFloat(v any) (float64, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidValue, x)
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, x)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("%w: want number, got %T", ErrInvalidValue, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidValue, f)
	}
	return f, nil
}

func toInt(v any) (int, error) {
	f, err := toFloat(v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %v is not a whole number", ErrInvalidValue, f)
	}
	if f >= math.MaxInt || f < math.MinInt {
		return 0, fmt.Errorf("%w: %v is out of range", ErrInvalidValue, f)
	}
	return int(f), nil
}
