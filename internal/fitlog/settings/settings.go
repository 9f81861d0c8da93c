package settings

// AppSettings is a singleton record (id is always 1).
type AppSettings struct {
	ID               int        `json:"id"`
	WeightUnit       WeightUnit `json:"weightUnit"`
	WeeklyTargetDays *int       `json:"weeklyTargetDays,omitempty"`
	BodyWeightTarget *float64   `json:"bodyWeightTarget,omitempty"`
}

// WeightUnit can be one of:
//   - kg
//   - lb
type WeightUnit string

const (
	UnitKilograms WeightUnit = "kg"
	UnitPounds    WeightUnit = "lb"
)

func (wu WeightUnit) IsValid() bool {
	switch wu {
	case UnitKilograms, UnitPounds:
		return true
	default:
		return false
	}
}
