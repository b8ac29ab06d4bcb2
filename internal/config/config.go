package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// BattleConfig carries the engine tuning knobs. Zero values fall back to
// the engine defaults at construction time.
type BattleConfig struct {
	StartingHandSize     int     `json:"starting_hand_size"`
	DrawPerTurn          int     `json:"draw_per_turn"`
	BaseQueueSlots       int     `json:"base_queue_slots"`
	SystemDamageRound    int     `json:"system_damage_round"`
	SystemDamageBase     float64 `json:"system_damage_base"`
	SystemDamagePerRound int     `json:"system_damage_per_round"`
}

// SandboxConfig bounds effect script execution.
type SandboxConfig struct {
	TimeoutMS     int `json:"timeout_ms"`
	MemoryLimitMB int `json:"memory_limit_mb"`
	SampleEveryMS int `json:"sample_every_ms"`
}

// RatingConfig carries the Elo and matchmaking tuning.
type RatingConfig struct {
	KFactor int `json:"k_factor"`
	Divisor int `json:"divisor"`
	// Band is the half-width of the rating window scanned for ghost
	// opponents.
	Band int `json:"band"`
}

// ProgressConfig carries the XP and level-up tuning.
type ProgressConfig struct {
	XPWin      int `json:"xp_win"`
	XPLoss     int `json:"xp_loss"`
	XPPerLevel int `json:"xp_per_level"`
}

type rawConfig struct {
	Battle   *BattleConfig   `json:"battle"`
	Sandbox  *SandboxConfig  `json:"sandbox"`
	Rating   *RatingConfig   `json:"rating"`
	Progress *ProgressConfig `json:"progress"`
	Server   *struct {
		Address string `json:"address"`
	} `json:"server"`
	CardLibraryPath string `json:"card_library_path"`
	// Idle sessions are forfeited to the opponent after this long with
	// no submitted action.
	SessionIdleMinutes int `json:"session_idle_minutes"`
}

// envOverrides are the deployment-level settings that may override the
// config file without editing it.
type envOverrides struct {
	ConfigPath string `env:"SUPERDECK_CONFIG"`
	DBPath     string `env:"SUPERDECK_DB"`
	Addr       string `env:"SUPERDECK_ADDR"`
	CardsPath  string `env:"SUPERDECK_CARDS"`
}

// LoadedConfig is the merged result of the JSON config file and the
// environment overrides.
type LoadedConfig struct {
	Battle   BattleConfig
	Sandbox  SandboxConfig
	Rating   RatingConfig
	Progress ProgressConfig

	ServerAddress   string
	DBPath          string
	CardLibraryPath string
	SessionIdleTTL  time.Duration
}

// Defaults used when the config file omits a section.
const (
	defaultAddr       = ":8080"
	defaultDBPath     = "superdeck.db"
	defaultCardsPath  = "data/cards.yaml"
	defaultIdleTTLMin = 30

	defaultKFactor = 32
	defaultDivisor = 400
	defaultBand    = 200

	defaultXPWin      = 50
	defaultXPLoss     = 15
	defaultXPPerLevel = 100
)

// DefaultConfigPath is used when SUPERDECK_CONFIG is not set and no path
// is passed on the command line.
const DefaultConfigPath = "superdeck_config.json"

// Load reads the JSON config file at path, applies environment overrides
// and fills defaults. A missing file is not an error: the defaults plus
// the environment are enough to run.
func Load(path string) (*LoadedConfig, error) {
	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if ov.ConfigPath != "" {
		path = ov.ConfigPath
	}

	var rc rawConfig
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(b, &rc); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// run on defaults
		default:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	lc := &LoadedConfig{
		ServerAddress:   defaultAddr,
		DBPath:          defaultDBPath,
		CardLibraryPath: defaultCardsPath,
		SessionIdleTTL:  defaultIdleTTLMin * time.Minute,
		Rating: RatingConfig{
			KFactor: defaultKFactor,
			Divisor: defaultDivisor,
			Band:    defaultBand,
		},
		Progress: ProgressConfig{
			XPWin:      defaultXPWin,
			XPLoss:     defaultXPLoss,
			XPPerLevel: defaultXPPerLevel,
		},
	}

	if rc.Battle != nil {
		lc.Battle = *rc.Battle
	}
	if rc.Sandbox != nil {
		lc.Sandbox = *rc.Sandbox
	}
	if rc.Rating != nil {
		if rc.Rating.KFactor > 0 {
			lc.Rating.KFactor = rc.Rating.KFactor
		}
		if rc.Rating.Divisor > 0 {
			lc.Rating.Divisor = rc.Rating.Divisor
		}
		if rc.Rating.Band > 0 {
			lc.Rating.Band = rc.Rating.Band
		}
	}
	if rc.Progress != nil {
		if rc.Progress.XPWin > 0 {
			lc.Progress.XPWin = rc.Progress.XPWin
		}
		if rc.Progress.XPLoss > 0 {
			lc.Progress.XPLoss = rc.Progress.XPLoss
		}
		if rc.Progress.XPPerLevel > 0 {
			lc.Progress.XPPerLevel = rc.Progress.XPPerLevel
		}
	}
	if rc.Server != nil && rc.Server.Address != "" {
		lc.ServerAddress = rc.Server.Address
	}
	if rc.CardLibraryPath != "" {
		lc.CardLibraryPath = rc.CardLibraryPath
	}
	if rc.SessionIdleMinutes > 0 {
		lc.SessionIdleTTL = time.Duration(rc.SessionIdleMinutes) * time.Minute
	}

	if ov.Addr != "" {
		lc.ServerAddress = ov.Addr
	}
	if ov.DBPath != "" {
		lc.DBPath = ov.DBPath
	}
	if ov.CardsPath != "" {
		lc.CardLibraryPath = ov.CardsPath
	}
	return lc, nil
}

// ScriptTimeout converts the sandbox tuning to a duration, zero when unset.
func (c *LoadedConfig) ScriptTimeout() time.Duration {
	return time.Duration(c.Sandbox.TimeoutMS) * time.Millisecond
}

// ScriptMemoryLimit converts the sandbox tuning to bytes, zero when unset.
func (c *LoadedConfig) ScriptMemoryLimit() int64 {
	return int64(c.Sandbox.MemoryLimitMB) << 20
}

// ScriptSampleInterval converts the sandbox tuning to a duration.
func (c *LoadedConfig) ScriptSampleInterval() time.Duration {
	return time.Duration(c.Sandbox.SampleEveryMS) * time.Millisecond
}
