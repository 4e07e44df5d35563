package settings

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

// Settings contains everything a host can configure about the block simulation. Settings are parsed once by
// the host and handed to the engine as plain values.
type Settings struct {
	Simulation struct {
		// RandomTickSpeed is the amount of random tick trials per 16x16x16 section per step. Each eligible
		// position therefore has a RandomTickSpeed/4096 chance of being ticked every step.
		RandomTickSpeed int
		// Seed seeds the random source used for random ticking, so that runs can be reproduced.
		Seed uint64
		// MaxChainUpdates caps the amount of neighbour notifications processed in one causal chain. Zero
		// disables the cap.
		MaxChainUpdates int
	}
	Permissions struct {
		// SetBlockLevel is the permission level an actor needs to force block states through SetBlock.
		SetBlockLevel int
	}
}

// DefaultSettings returns the default simulation settings.
func DefaultSettings() Settings {
	s := Settings{}
	s.Simulation.RandomTickSpeed = 3
	s.Simulation.Seed = 0
	s.Simulation.MaxChainUpdates = 1 << 16
	s.Permissions.SetBlockLevel = 2
	return s
}

// RandomTickChance returns the probability of a single eligible position being random ticked in one step.
func (s Settings) RandomTickChance() float64 {
	if s.Simulation.RandomTickSpeed <= 0 {
		return 0
	}
	return min(float64(s.Simulation.RandomTickSpeed)/4096, 1)
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	s := DefaultSettings()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if data, err := toml.Marshal(s); err != nil {
			return fmt.Errorf("failed encoding default settings: %v", err)
		} else if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed creating settings file: %v", err)
		}
		return nil
	}
	return errors.New("settings file already exists")
}

// Load will load the settings from your settings file, and return an error if the file does not exist.
// Fields missing from the file keep their default values.
func Load(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Settings{}, errors.New("settings file doesn't exist")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("error reading config: %v", err)
	}

	settings := DefaultSettings()
	if err = toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %v", err)
	}
	return settings, nil
}
