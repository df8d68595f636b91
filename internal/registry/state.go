package registry

// Keys shared between scenes.
const (
	KeyScreenWidth        = "screenWidth"
	KeyScreenHeight       = "screenHeight"
	KeyWorldWidth         = "worldWidth"
	KeyIsLevelOverworld   = "isLevelOverworld"
	KeyLevelSeed          = "levelSeed"
	KeyPlayerState        = "playerState"
	KeyPlayerInvulnerable = "playerInvulnerable"
	KeyPlayerBlocked      = "playerBlocked"
	KeyPlayerFiring       = "playerFiring"
	KeyFireInCooldown     = "fireInCooldown"
	KeyFurthestPlayerPos  = "furthestPlayerPos"
	KeyFlagRaised         = "flagRaised"
	KeyScore              = "score"
	KeyTimeLeft           = "timeLeft"
	KeyLevelStarted       = "levelStarted"
	KeyReachedLevelEnd    = "reachedLevelEnd"
	KeyGameOver           = "gameOver"
	KeyGameWon            = "gameWon"
	KeySettingsMenuOpen   = "settingsMenuOpen"
	KeyMusicEnabled       = "musicEnabled"
	KeyEffectsEnabled     = "effectsEnabled"
	KeyVolume             = "volume"
)

// InitialState is the table a new run starts from. Screen and world keys are
// filled in by the caller once the level exists.
func InitialState(timeLimit int) map[string]any {
	return map[string]any{
		KeyPlayerState:        0,
		KeyPlayerInvulnerable: false,
		KeyPlayerBlocked:      false,
		KeyPlayerFiring:       false,
		KeyFireInCooldown:     false,
		KeyFurthestPlayerPos:  0.0,
		KeyFlagRaised:         false,
		KeyScore:              0,
		KeyTimeLeft:           timeLimit,
		KeyLevelStarted:       false,
		KeyReachedLevelEnd:    false,
		KeyGameOver:           false,
		KeyGameWon:            false,
		KeySettingsMenuOpen:   false,
	}
}

// Boot writes every entry of states. Changes are queued like any other Set.
func (r *Registry) Boot(states map[string]any) {
	for k, v := range states {
		r.Set(k, v)
	}
}
