package domain

// RoundWindow accumulates the GameEvents of the current scoring round in
// arrival order. It is append-only between resets.
type RoundWindow struct {
	events       []GameEvent
	resetPending bool
}

// MarkReset records a round reset signal. The next Append starts a fresh window.
func (w *RoundWindow) MarkReset() {
	w.resetPending = true
}

// Clear empties the window immediately.
func (w *RoundWindow) Clear() {
	w.events = nil
	w.resetPending = false
}

// Append adds ev to the window, clearing it first when a reset is pending or
// ev itself starts a new round.
func (w *RoundWindow) Append(ev GameEvent) {
	if w.resetPending || ev.StartsRound() {
		w.events = nil
		w.resetPending = false
	}
	w.events = append(w.events, ev)
}

// Replace swaps the window contents for events supplied by the authority.
func (w *RoundWindow) Replace(events []GameEvent) {
	w.events = append([]GameEvent(nil), events...)
	w.resetPending = false
}

// Len returns the number of events in the window.
func (w *RoundWindow) Len() int {
	return len(w.events)
}

// Events returns a copy of the window contents.
func (w *RoundWindow) Events() []GameEvent {
	return append([]GameEvent(nil), w.events...)
}

// MostRecentScoreable returns the last event for playerID that carries a score delta.
func (w *RoundWindow) MostRecentScoreable(playerID string) (GameEvent, bool) {
	return MostRecentScoreable(w.events, playerID)
}

// MostRecentByAction returns the last event for playerID of the given kind.
func (w *RoundWindow) MostRecentByAction(playerID string, action ActionType) (GameEvent, bool) {
	return MostRecentByAction(w.events, playerID, action)
}

// MostRecentScoreable scans events from the end for playerID's last scoring event.
func MostRecentScoreable(events []GameEvent, playerID string) (GameEvent, bool) {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].PlayerID == playerID && events[i].ScoreChange != 0 {
			return events[i], true
		}
	}
	return GameEvent{}, false
}

// MostRecentByAction scans events from the end for playerID's last event of kind action.
func MostRecentByAction(events []GameEvent, playerID string, action ActionType) (GameEvent, bool) {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].PlayerID == playerID && events[i].ActionType == action {
			return events[i], true
		}
	}
	return GameEvent{}, false
}
