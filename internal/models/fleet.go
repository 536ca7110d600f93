package models

// Fleet holds at most one live vehicle per kind.
type Fleet map[Kind]*Vehicle

// DefaultFleet is the garage used on first start or after a corrupt snapshot.
func DefaultFleet() Fleet {
	return Fleet{
		KindCar:        NewCar("Onix", "Prata"),
		KindSportsCar:  NewSportsCar("Porsche 911", "Amarelo"),
		KindTruck:      NewTruck("Scania R450", "Azul", 15000),
		KindMotorcycle: NewMotorcycle("XRE 300", "Vermelha"),
		KindBicycle:    NewBicycle("Monark Barra Forte", "Verde"),
	}
}

// Vehicles returns the fleet's vehicles in Kinds order.
func (f Fleet) Vehicles() []*Vehicle {
	out := make([]*Vehicle, 0, len(f))
	for _, k := range Kinds {
		if v, ok := f[k]; ok && v != nil {
			out = append(out, v)
		}
	}
	return out
}
