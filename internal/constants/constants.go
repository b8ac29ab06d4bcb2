package constants

// Centralized constants for env keys, HTTP routes and log field names.
const (
	// Environment variable keys. The config, database and card library
	// paths are overridden through the config env tags, not listed here.
	EnvAddr = "SUPERDECK_ADDR"

	// JSON response keys
	JSONKeyError = "error"
)

// Routes used by the backend router
const (
	RouteAPIPrefix        = "/api"
	RouteBattles          = "/battles"
	RouteBattleByID       = "/battles/:battleID"
	RouteBattleAction     = "/battles/:battleID/action"
	RouteBattleAuto       = "/battles/:battleID/autoplay"
	RouteBattleEvents     = "/battles/:battleID/events"
	RoutePlayers          = "/players"
	RoutePlayerCharacters = "/players/:playerUUID/characters"
	RouteCharacters       = "/characters"
	RouteLeaderboard      = "/leaderboard"
	RouteCharacterByID    = "/characters/:characterID"
	RouteVersion          = "/version"
)

// Log field names used across the codebase
const (
	LogFieldBattleID    = "battle_id"
	LogFieldCharacterID = "character_id"
	LogFieldPlayerUUID  = "player_uuid"
	LogFieldGhostID     = "ghost_id"
	LogFieldStatus      = "status"
	LogFieldHook        = "hook"
	LogFieldRound       = "round"
	LogFieldPhase       = "phase"
	LogFieldAddr        = "addr"
	LogFieldSeed        = "seed"
	LogFieldWinner      = "winner"
)

// Gameplay defaults
const (
	// DefaultStartingRating is the rating assigned to new characters.
	DefaultStartingRating = 1000
)

// HTTP error messages returned to clients
const (
	ErrBattleNotFound    = "battle not found"
	ErrCharacterNotFound = "character not found"
	ErrPlayerNotFound    = "player not found"
	ErrInvalidRequest    = "invalid request payload"
	ErrBattleComplete    = "battle already complete"
)
