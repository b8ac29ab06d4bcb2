package game

// HookPoint names a lifecycle point at which active status scripts run.
type HookPoint string

const (
	HookTurnStart          HookPoint = "on_turn_start"
	HookDrawPhase          HookPoint = "on_draw_phase"
	HookQueuePhaseStart    HookPoint = "on_queue_phase_start"
	HookQueue              HookPoint = "on_queue"
	HookBeforeQueueResolve HookPoint = "before_queue_resolve"
	HookPlay               HookPoint = "on_play"
	HookOpponentPlay       HookPoint = "on_opponent_play"
	HookCardResolve        HookPoint = "on_card_resolve"
	HookTakeDamage         HookPoint = "on_take_damage"
	HookDealDamage         HookPoint = "on_deal_damage"
	HookHeal               HookPoint = "on_heal"
	HookStatusGained       HookPoint = "on_status_gained"
	HookDiscard            HookPoint = "on_discard"
	HookTurnEnd            HookPoint = "on_turn_end"
	HookBuffExpire         HookPoint = "on_buff_expire"
	HookBattleEnd          HookPoint = "on_battle_end"
	HookCalculateAttack    HookPoint = "on_calculate_attack"
	HookCalculateDefense   HookPoint = "on_calculate_defense"
	HookCalculateSpeed     HookPoint = "on_calculate_speed"
)

// AllHookPoints lists every recognized hook, used to validate card library
// definitions at load time.
var AllHookPoints = []HookPoint{
	HookTurnStart, HookDrawPhase, HookQueuePhaseStart, HookQueue,
	HookBeforeQueueResolve, HookPlay, HookOpponentPlay, HookCardResolve,
	HookTakeDamage, HookDealDamage, HookHeal, HookStatusGained,
	HookDiscard, HookTurnEnd, HookBuffExpire, HookBattleEnd,
	HookCalculateAttack, HookCalculateDefense, HookCalculateSpeed,
}

// ValidHookPoint reports whether name is a recognized hook point.
func ValidHookPoint(name HookPoint) bool {
	for _, h := range AllHookPoints {
		if h == name {
			return true
		}
	}
	return false
}

// StatusDefinition is the data-driven description of a status effect: a
// duration plus named hook scripts.
type StatusDefinition struct {
	Name     string               `json:"name" yaml:"name"`
	Duration int                  `json:"duration" yaml:"duration"`
	Debuff   bool                 `json:"debuff" yaml:"debuff"`
	Hooks    map[HookPoint]string `json:"hooks" yaml:"hooks"`
}

// StatusInstance is a live status applied to a combatant. Remaining is
// never above Total; an instance applied this round is exempt from the
// duration decrement at the cleanup of its creation round (JustApplied).
type StatusInstance struct {
	Name          string               `json:"name"`
	Total         int                  `json:"total_duration"`
	Remaining     int                  `json:"remaining_duration"`
	SourceCardID  uint                 `json:"source_card_id"`
	Debuff        bool                 `json:"debuff"`
	JustApplied   bool                 `json:"-"`
	PreventExpire bool                 `json:"-"`
	Hooks         map[HookPoint]string `json:"-"`
	// Custom holds free-form numeric state for multi-turn bookkeeping
	// such as stacking counters.
	Custom map[string]float64 `json:"-"`
	// CustomLists holds growable per-status list state for scripts.
	CustomLists map[string][]float64 `json:"-"`
}

// NewStatusInstance builds a live instance from a definition. The hook
// table is carried by source text; compilation is cached by the sandbox so
// each script parses at most once per process.
func NewStatusInstance(def StatusDefinition, sourceCardID uint) *StatusInstance {
	hooks := make(map[HookPoint]string, len(def.Hooks))
	for k, v := range def.Hooks {
		hooks[k] = v
	}
	return &StatusInstance{
		Name:         def.Name,
		Total:        def.Duration,
		Remaining:    def.Duration,
		SourceCardID: sourceCardID,
		Debuff:       def.Debuff,
		JustApplied:  true,
		Hooks:        hooks,
		Custom:       make(map[string]float64),
		CustomLists:  make(map[string][]float64),
	}
}
