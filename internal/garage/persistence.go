package garage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/smart-garage/internal/db"
	"github.com/ukydev/smart-garage/internal/models"
)

var (
	// ErrNoSnapshot means nothing has been saved under the storage key yet.
	ErrNoSnapshot = errors.New("no saved garage")
	// ErrCorruptSnapshot means the stored blob is not a JSON object. The blob
	// is removed from the store before this is returned.
	ErrCorruptSnapshot = errors.New("saved garage is corrupt")
)

// Persistence saves and restores a fleet as one JSON blob under a single key.
type Persistence struct {
	store db.KeyValueStore
	key   string
}

func NewPersistence(store db.KeyValueStore, key string) *Persistence {
	return &Persistence{store: store, key: key}
}

// Save writes the whole fleet, keyed by vehicle kind.
func (p *Persistence) Save(ctx context.Context, fleet models.Fleet) error {
	snapshot := make(map[models.Kind]models.VehicleData, len(fleet))
	for _, v := range fleet.Vehicles() {
		snapshot[v.Kind()] = v.ToPersistable()
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal garage: %w", err)
	}
	if err := p.store.SetItem(ctx, p.key, string(data)); err != nil {
		log.WithError(err).WithField("key", p.key).Error("Failed to save garage")
		return fmt.Errorf("failed to save garage: %w", err)
	}

	log.WithFields(log.Fields{"key": p.key, "vehicles": len(snapshot), "bytes": len(data)}).Debug("Garage saved")
	return nil
}

// Load reads the snapshot back. Entries that cannot be rebuilt (bad shape,
// unknown kind) are skipped with a warning, so the returned fleet may be
// smaller than what was saved, or empty.
func (p *Persistence) Load(ctx context.Context) (models.Fleet, error) {
	blob, err := p.store.GetItem(ctx, p.key)
	if errors.Is(err, db.ErrKeyNotFound) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read garage: %w", err)
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal([]byte(blob), &entries); err != nil {
		log.WithError(err).WithField("key", p.key).Error("Saved garage is not valid JSON, removing it")
		if rmErr := p.store.RemoveItem(ctx, p.key); rmErr != nil {
			log.WithError(rmErr).WithField("key", p.key).Error("Failed to remove corrupt garage")
		}
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}

	fleet := make(models.Fleet, len(entries))
	for _, name := range slices.Sorted(maps.Keys(entries)) {
		v, err := rebuild(name, entries[name])
		if err != nil {
			log.WithError(err).WithField("entry", name).Warn("Skipping saved vehicle")
			continue
		}
		if _, dup := fleet[v.Kind()]; dup {
			log.WithFields(log.Fields{"entry": name, "kind": v.Kind()}).Warn("Duplicate vehicle kind in saved garage, keeping the last one")
		}
		fleet[v.Kind()] = v
	}

	log.WithFields(log.Fields{"key": p.key, "vehicles": len(fleet)}).Info("Garage loaded")
	return fleet, nil
}

func rebuild(name string, raw json.RawMessage) (*models.Vehicle, error) {
	var d models.VehicleData
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("failed to decode vehicle: %w", err)
	}

	v, dropped, err := models.FromPersistable(d)
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		log.WithFields(log.Fields{"entry": name, "dropped": dropped}).Warn("Dropped invalid maintenance records")
	}
	if string(v.Kind()) != name {
		log.WithFields(log.Fields{"entry": name, "kind": v.Kind()}).Warn("Saved vehicle kind does not match its key")
	}
	return v, nil
}
