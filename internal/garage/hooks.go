package garage

import "github.com/ukydev/smart-garage/internal/models"

// Cue names a sound the front end may play.
type Cue string

const (
	CueIgnitionOn  Cue = "ligar"
	CueIgnitionOff Cue = "desligar"
	CueAccelerate  Cue = "acelerar"
	CueBrake       Cue = "frear"
	CueHorn        Cue = "buzina"
)

// SoundPlayer plays audio cues. Implementations must not block.
type SoundPlayer interface {
	Play(cue Cue)
}

// Field names the part of a vehicle's display that changed.
type Field string

const (
	FieldState       Field = "state"
	FieldSpeed       Field = "speed"
	FieldColor       Field = "color"
	FieldTurbo       Field = "turbo"
	FieldCargo       Field = "cargo"
	FieldMaintenance Field = "maintenance"
)

// Renderer receives display updates.
type Renderer interface {
	// VehicleChanged is called after field of v changed.
	VehicleChanged(v *models.Vehicle, field Field)
	// DetailChanged is called with the new detail view of the selected vehicle.
	DetailChanged(kind models.Kind, detail string)
}

type nopSounds struct{}

func (nopSounds) Play(Cue) {}

type nopRenderer struct{}

func (nopRenderer) VehicleChanged(*models.Vehicle, Field) {}
func (nopRenderer) DetailChanged(models.Kind, string)     {}
