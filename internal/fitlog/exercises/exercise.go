package exercises

// Exercise is a catalog entry referenced by logged sets.
type Exercise struct {
	ID       int          `json:"id"`
	Name     string       `json:"name"`
	Type     ExerciseType `json:"type"`
	BodyPart string       `json:"bodyPart,omitempty"`
}

// ExerciseType can be one of:
//   - strength
//   - cardio
type ExerciseType string

const (
	TypeStrength ExerciseType = "strength"
	TypeCardio   ExerciseType = "cardio"
)

func (et ExerciseType) String() string {
	return string(et)
}

func (et ExerciseType) IsValid() bool {
	switch et {
	case TypeStrength, TypeCardio:
		return true
	default:
		return false
	}
}
