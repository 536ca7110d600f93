package models

import "fmt"

// Kind identifies which vehicle variant an instance is. It doubles as the
// discriminant in the persisted snapshot.
type Kind string

const (
	KindCar        Kind = "Car"
	KindSportsCar  Kind = "SportsCar"
	KindTruck      Kind = "Truck"
	KindMotorcycle Kind = "Motorcycle"
	KindBicycle    Kind = "Bicycle"
)

// Kinds lists every vehicle kind in display order.
var Kinds = []Kind{KindCar, KindSportsCar, KindTruck, KindMotorcycle, KindBicycle}

// IsValid reports whether k is one of the five known kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindCar, KindSportsCar, KindTruck, KindMotorcycle, KindBicycle:
		return true
	default:
		return false
	}
}

// ParseKind converts a stored or user-supplied discriminant into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Label is the human readable title used in the detail view ("Sports Car").
func (k Kind) Label() string {
	switch k {
	case KindSportsCar:
		return "Sports Car"
	default:
		return string(k)
	}
}

// Motorized reports whether the kind has an ignition.
func (k Kind) Motorized() bool {
	return k != KindBicycle
}

// Maintainable reports whether the kind keeps a maintenance history.
func (k Kind) Maintainable() bool {
	return k != KindBicycle
}

// DefaultAccelerateStep is the increment the front end applies per
// "accelerate" press for the kind.
func (k Kind) DefaultAccelerateStep() float64 {
	switch k {
	case KindSportsCar:
		return 15
	case KindTruck:
		return 5
	case KindMotorcycle:
		return 12
	case KindBicycle:
		return 3
	default:
		return 10
	}
}

// DefaultBrakeStep is the decrement the front end applies per "brake" press.
func (k Kind) DefaultBrakeStep() float64 {
	switch k {
	case KindSportsCar:
		return 10
	case KindTruck:
		return 4
	case KindMotorcycle:
		return 9
	case KindBicycle:
		return 2
	default:
		return 7
	}
}
