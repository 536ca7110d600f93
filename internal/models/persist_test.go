package models

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

var vehicleCmp = []cmp.Option{
	cmp.AllowUnexported(Vehicle{}, MaintenanceRecord{}),
	cmpopts.EquateEmpty(),
}

func populatedFleet(t *testing.T) []*Vehicle {
	t.Helper()

	car := NewCar("Onix", "Prata")
	require.NoError(t, car.TurnOn())
	require.NoError(t, car.Accelerate(50))
	require.NoError(t, car.AddMaintenanceRecord(NewMaintenanceRecord("2024-04-10", "Óleo", 150, "sintético")))
	require.NoError(t, car.AddMaintenanceRecord(NewMaintenanceRecord("2023-11-02", "Filtro", 45.5, "")))

	sports := NewSportsCar("Porsche 911", "Amarelo")
	require.NoError(t, sports.TurnOn())
	_, err := sports.EngageTurbo()
	require.NoError(t, err)
	require.NoError(t, sports.Accelerate(100))

	truck := NewTruck("Scania R450", "Azul", 15000)
	_, err = truck.Load(3200)
	require.NoError(t, err)
	require.NoError(t, truck.AddMaintenanceRecord(NewMaintenanceRecord("2024-06-01", "Pneus", 4000, "")))

	moto := NewMotorcycle("XRE 300", "Vermelha")

	bike := NewBicycle("Monark", "Verde")
	require.NoError(t, bike.Accelerate(12))

	return []*Vehicle{car, sports, truck, moto, bike}
}

func TestVehicle_RoundTripThroughJSON(t *testing.T) {
	for _, v := range populatedFleet(t) {
		t.Run(string(v.Kind()), func(t *testing.T) {
			raw, err := json.Marshal(v.ToPersistable())
			require.NoError(t, err)

			var d VehicleData
			require.NoError(t, json.Unmarshal(raw, &d))

			back, dropped, err := FromPersistable(d)
			require.NoError(t, err)
			assert.Zero(t, dropped)
			if diff := cmp.Diff(v, back, vehicleCmp...); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestToPersistable_OmitsFieldsPerKind(t *testing.T) {
	keys := func(v *Vehicle) map[string]any {
		raw, err := json.Marshal(v.ToPersistable())
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal(raw, &m))
		return m
	}

	bike := keys(NewBicycle("Monark", "Verde"))
	assert.NotContains(t, bike, "isRunning")
	assert.NotContains(t, bike, "maintenanceHistory")
	assert.NotContains(t, bike, "turboEngaged")
	assert.Equal(t, "Bicycle", bike["kind"])

	car := keys(NewCar("Onix", "Prata"))
	assert.Equal(t, false, car["isRunning"])
	assert.Equal(t, []any{}, car["maintenanceHistory"])
	assert.NotContains(t, car, "cargoCapacity")

	truck := keys(NewTruck("Scania", "Azul", 15000))
	assert.Equal(t, 15000.0, truck["cargoCapacity"])
	assert.Equal(t, 0.0, truck["currentLoad"])

	sports := keys(NewSportsCar("Porsche", "Amarelo"))
	assert.Equal(t, false, sports["turboEngaged"])
}

func TestFromPersistable_DropsInvalidMaintenance(t *testing.T) {
	history := []MaintenanceData{
		{Date: "2024-05-01", Kind: "Pneus", Cost: 800},
		{Date: "2024-02-30", Kind: "Revisão", Cost: 100},
		{Date: "2024-01-10", Kind: "", Cost: 10},
		{Date: "2023-12-01", Kind: "Óleo", Cost: 150},
	}
	v, dropped, err := FromPersistable(VehicleData{Model: "Onix", Color: "Prata", Kind: KindCar, MaintenanceHistory: &history})
	require.NoError(t, err)
	assert.Equal(t, 2, dropped)

	got := v.MaintenanceHistory()
	require.Len(t, got, 2)
	assert.Equal(t, "2023-12-01", got[0].Date())
	assert.Equal(t, "2024-05-01", got[1].Date())
}

func TestFromPersistable_UnknownKind(t *testing.T) {
	_, _, err := FromPersistable(VehicleData{Model: "Titanic", Color: "Branco", Kind: "Boat"})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestFromPersistable_ClampsOutOfRangeValues(t *testing.T) {
	load, capacity := 99999.0, 100.0
	truck, _, err := FromPersistable(VehicleData{Kind: KindTruck, Model: "VW", Color: "Branco", Speed: -20, CargoCapacity: &capacity, CurrentLoad: &load})
	require.NoError(t, err)
	assert.Equal(t, 100.0, truck.CurrentLoad())
	assert.Equal(t, 0.0, truck.Speed())

	car, _, err := FromPersistable(VehicleData{Kind: KindCar, Model: "Onix", Color: "Prata", Speed: 999})
	require.NoError(t, err)
	assert.Equal(t, 180.0, car.Speed())

	noCapacity, _, err := FromPersistable(VehicleData{Kind: KindTruck, Model: "VW", Color: "Branco"})
	require.NoError(t, err)
	assert.Equal(t, DefaultCargoCapacity, noCapacity.CargoCapacity())
}

func TestFromPersistable_BicycleIgnoresMotorFields(t *testing.T) {
	running := true
	history := []MaintenanceData{{Date: "2024-05-01", Kind: "Corrente", Cost: 30}}
	bike, dropped, err := FromPersistable(VehicleData{Kind: KindBicycle, Model: "Monark", Color: "Verde", IsRunning: &running, MaintenanceHistory: &history})
	require.NoError(t, err)
	assert.Zero(t, dropped)
	assert.False(t, bike.IsRunning())
	assert.Empty(t, bike.MaintenanceHistory())
}

func TestVehicle_RoundTripThroughBSON(t *testing.T) {
	for _, v := range populatedFleet(t) {
		t.Run(string(v.Kind()), func(t *testing.T) {
			raw, err := bson.Marshal(v.ToPersistable())
			require.NoError(t, err)

			var doc bson.M
			require.NoError(t, bson.Unmarshal(raw, &doc))
			assert.Equal(t, string(v.Kind()), doc["kind"])
			if v.Kind() == KindBicycle {
				assert.NotContains(t, doc, "isRunning")
				assert.NotContains(t, doc, "maintenanceHistory")
			}

			var d VehicleData
			require.NoError(t, bson.Unmarshal(raw, &d))
			back, dropped, err := FromPersistable(d)
			require.NoError(t, err)
			assert.Zero(t, dropped)
			if diff := cmp.Diff(v, back, vehicleCmp...); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
