package garage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/smart-garage/internal/db"
	"github.com/ukydev/smart-garage/internal/models"
)

const testKey = "garagemInteligenteDadosV2"

// flakyStore wraps a MemoryStore and fails writes or reads on demand.
type flakyStore struct {
	*db.MemoryStore
	failSet bool
	failGet bool
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: db.NewMemoryStore(0)}
}

func (s *flakyStore) SetItem(ctx context.Context, key, value string) error {
	if s.failSet {
		return db.ErrQuotaExceeded
	}
	return s.MemoryStore.SetItem(ctx, key, value)
}

func (s *flakyStore) GetItem(ctx context.Context, key string) (string, error) {
	if s.failGet {
		return "", errors.New("connection refused")
	}
	return s.MemoryStore.GetItem(ctx, key)
}

func populated(t *testing.T) models.Fleet {
	t.Helper()
	fleet := models.DefaultFleet()

	car := fleet[models.KindCar]
	require.NoError(t, car.TurnOn())
	require.NoError(t, car.Accelerate(40))
	require.NoError(t, car.AddMaintenanceRecord(models.NewMaintenanceRecord("2024-04-10", "Troca de Óleo", 150, "Primeira revisão")))

	sports := fleet[models.KindSportsCar]
	require.NoError(t, sports.TurnOn())
	_, err := sports.EngageTurbo()
	require.NoError(t, err)

	_, err = fleet[models.KindTruck].Load(20000)
	require.NoError(t, err)

	require.NoError(t, fleet[models.KindBicycle].Accelerate(3))
	return fleet
}

func TestPersistence_RoundTrip(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(db.NewMemoryStore(0), testKey)

	fleet := populated(t)
	require.NoError(t, p.Save(ctx, fleet))

	loaded, err := p.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, len(models.Kinds))

	opts := []cmp.Option{cmp.AllowUnexported(models.Vehicle{}, models.MaintenanceRecord{}), cmpopts.EquateEmpty()}
	if diff := cmp.Diff(fleet, loaded, opts...); diff != "" {
		t.Errorf("fleet mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 15000.0, loaded[models.KindTruck].CurrentLoad())
}

func TestPersistence_SnapshotLayout(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore(0)
	p := NewPersistence(store, testKey)
	require.NoError(t, p.Save(ctx, populated(t)))

	blob, err := store.GetItem(ctx, testKey)
	require.NoError(t, err)

	var snapshot map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(blob), &snapshot))
	for _, k := range []string{"Car", "SportsCar", "Truck", "Motorcycle", "Bicycle"} {
		assert.Contains(t, snapshot, k)
		assert.Equal(t, k, snapshot[k]["kind"])
	}
	assert.NotContains(t, snapshot["Bicycle"], "isRunning")
	assert.NotContains(t, snapshot["Bicycle"], "maintenanceHistory")
	assert.Equal(t, true, snapshot["SportsCar"]["turboEngaged"])
	assert.Equal(t, 15000.0, snapshot["Truck"]["cargoCapacity"])

	history := snapshot["Car"]["maintenanceHistory"].([]any)
	require.Len(t, history, 1)
	assert.Equal(t, "2024-04-10", history[0].(map[string]any)["date"])
}

func TestPersistence_LoadMissing(t *testing.T) {
	p := NewPersistence(db.NewMemoryStore(0), testKey)
	_, err := p.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestPersistence_LoadCorruptRemovesBlob(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore(0)
	require.NoError(t, store.SetItem(ctx, testKey, "{not json"))

	p := NewPersistence(store, testKey)
	_, err := p.Load(ctx)
	assert.ErrorIs(t, err, ErrCorruptSnapshot)

	_, err = store.GetItem(ctx, testKey)
	assert.ErrorIs(t, err, db.ErrKeyNotFound)
}

func TestPersistence_LoadSkipsBadEntries(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore(0)
	blob := `{
		"Car": {"model": "Onix", "color": "Prata", "kind": "Car", "isRunning": false, "speed": 0,
			"maintenanceHistory": [
				{"date": "2024-02-30", "kind": "Revisão", "cost": 100, "description": ""},
				{"date": "2024-03-01", "kind": "Óleo", "cost": 150, "description": ""}
			]},
		"Boat": {"model": "Titanic", "color": "Branco", "kind": "Boat", "speed": 0},
		"Truck": "oops"
	}`
	require.NoError(t, store.SetItem(ctx, testKey, blob))

	fleet, err := NewPersistence(store, testKey).Load(ctx)
	require.NoError(t, err)
	require.Len(t, fleet, 1)

	car := fleet[models.KindCar]
	require.NotNil(t, car)
	require.Len(t, car.MaintenanceHistory(), 1)
	assert.Equal(t, "2024-03-01", car.MaintenanceHistory()[0].Date())
}

func TestPersistence_LoadKeysByEntryKind(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore(0)
	blob := `{"Carro": {"model": "Onix", "color": "Prata", "kind": "Car", "speed": 0}}`
	require.NoError(t, store.SetItem(ctx, testKey, blob))

	fleet, err := NewPersistence(store, testKey).Load(ctx)
	require.NoError(t, err)
	assert.Contains(t, fleet, models.KindCar)
}

func TestPersistence_SaveFailure(t *testing.T) {
	store := newFlakyStore()
	store.failSet = true

	err := NewPersistence(store, testKey).Save(context.Background(), models.DefaultFleet())
	assert.ErrorIs(t, err, db.ErrQuotaExceeded)
}
