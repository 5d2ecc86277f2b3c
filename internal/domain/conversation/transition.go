package conversation

import "errors"

var ErrInvalidTransition = errors.New("event not valid for current state")

type edges map[EventKind][]State

// transitions lists, per state, the events it accepts and the states each
// event may lead to. A rejected input keeps the current state and is not an
// edge. Start and Cancelled are accepted everywhere and handled in CanMove.
var transitions = map[State]edges{
	StateChoosingService: {
		KindServiceChosen: {StateChoosingDate},
	},
	StateChoosingDate: {
		KindMonthShown: {StateChoosingDate},
		KindDateChosen: {StateChoosingTime},
		KindBack:       {StateChoosingService},
	},
	StateChoosingTime: {
		KindTimeChosen: {StateChoosingProvider, StateConfirmingBooking},
		KindBack:       {StateChoosingDate},
	},
	StateChoosingProvider: {
		KindProviderChosen: {StateConfirmingBooking},
		KindBack:           {StateChoosingTime},
	},
	StateConfirmingBooking: {
		KindConfirmed: {StateIdle, StateChoosingProvider, StateChoosingTime, StateChoosingService},
		KindDiscarded: {StateIdle},
		KindBack:      {StateChoosingProvider, StateChoosingTime},
	},

	StateVacationProvider: {
		KindProviderChosen: {StateChoosingStartDate},
	},
	StateChoosingStartDate: {
		KindMonthShown: {StateChoosingStartDate},
		KindDateChosen: {StateChoosingEndDate},
		KindBack:       {StateVacationProvider},
	},
	StateChoosingEndDate: {
		KindMonthShown: {StateChoosingEndDate},
		KindDateChosen: {StateConfirmingVacation},
		KindBack:       {StateChoosingStartDate},
	},
	StateConfirmingVacation: {
		KindConfirmed: {StateIdle, StateChoosingStartDate},
		KindDiscarded: {StateIdle},
		KindBack:      {StateChoosingEndDate},
	},
}

// Accepts reports whether from has any edge for kind.
func Accepts(from State, kind EventKind) bool {
	switch kind {
	case KindStart:
		return true
	case KindCancelled:
		return from != StateIdle
	}
	_, ok := transitions[from][kind]
	return ok
}

// CanMove reports whether kind may take from to to.
func CanMove(from State, kind EventKind, to State) bool {
	switch kind {
	case KindStart:
		return to == StateChoosingService || to == StateVacationProvider
	case KindCancelled:
		return from != StateIdle && to == StateIdle
	}
	for _, s := range transitions[from][kind] {
		if s == to {
			return true
		}
	}
	return false
}
