package narrate

// StateType represents the current state of one script's pipeline.
type StateType int

const (
	// StateIdle indicates the pipeline has not started.
	StateIdle StateType = iota
	// StateNormalizing indicates pause markers are being rewritten.
	StateNormalizing
	// StateSubstituting indicates lexicon terms are being applied.
	StateSubstituting
	// StateChunking indicates text is being split into request-sized chunks.
	StateChunking
	// StateSynthesizing indicates chunks are being sent to the provider.
	StateSynthesizing
	// StateAssembling indicates per-chunk audio is being concatenated.
	StateAssembling
	// StateDone indicates the script produced a complete artifact.
	StateDone
	// StateFailed indicates the pipeline aborted with an error.
	StateFailed
)

// String returns the string representation of the state.
func (s StateType) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateNormalizing:
		return "normalizing"
	case StateSubstituting:
		return "substituting"
	case StateChunking:
		return "chunking"
	case StateSynthesizing:
		return "synthesizing"
	case StateAssembling:
		return "assembling"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state ends the pipeline.
func (s StateType) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// StateMachine manages state transitions for one script pipeline.
type StateMachine struct {
	current     StateType
	transitions map[StateType][]StateType
	onEnter     map[StateType]func()
}

// NewStateMachine creates a state machine with the pipeline's valid
// transitions. StateFailed is reachable from every non-terminal state.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		current: StateIdle,
		transitions: map[StateType][]StateType{
			StateIdle:         {StateNormalizing, StateFailed},
			StateNormalizing:  {StateSubstituting, StateFailed},
			StateSubstituting: {StateChunking, StateFailed},
			StateChunking:     {StateSynthesizing, StateDone, StateFailed},
			StateSynthesizing: {StateAssembling, StateFailed},
			StateAssembling:   {StateDone, StateFailed},
		},
		onEnter: make(map[StateType]func()),
	}
}

// Current returns the current state.
func (sm *StateMachine) Current() StateType {
	return sm.current
}

// OnEnter registers a callback invoked after entering the given state.
func (sm *StateMachine) OnEnter(state StateType, fn func()) {
	sm.onEnter[state] = fn
}

// Transition attempts to move to the specified state. It returns false and
// leaves the machine unchanged when the transition is not valid.
func (sm *StateMachine) Transition(to StateType) bool {
	valid := false
	for _, state := range sm.transitions[sm.current] {
		if state == to {
			valid = true
			break
		}
	}
	if !valid {
		return false
	}

	sm.current = to
	if fn, ok := sm.onEnter[to]; ok && fn != nil {
		fn()
	}
	return true
}

// CanTransition reports whether a transition to the given state is valid.
func (sm *StateMachine) CanTransition(to StateType) bool {
	for _, state := range sm.transitions[sm.current] {
		if state == to {
			return true
		}
	}
	return false
}
