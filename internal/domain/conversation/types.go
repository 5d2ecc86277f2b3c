package conversation

type Flow string

const (
	FlowBooking  Flow = "booking"
	FlowVacation Flow = "vacation"
)

func (f Flow) IsValid() bool {
	return f == FlowBooking || f == FlowVacation
}

type State string

const (
	StateIdle State = "idle"

	StateChoosingService   State = "choosing_service"
	StateChoosingDate      State = "choosing_date"
	StateChoosingTime      State = "choosing_time"
	StateChoosingProvider  State = "choosing_provider"
	StateConfirmingBooking State = "confirming_booking"

	StateVacationProvider   State = "vacation_choosing_provider"
	StateChoosingStartDate  State = "choosing_start_date"
	StateChoosingEndDate    State = "choosing_end_date"
	StateConfirmingVacation State = "confirming_vacation"
)

func (s State) String() string {
	return string(s)
}

// InitialState is the first step of a flow.
func InitialState(f Flow) State {
	if f == FlowVacation {
		return StateVacationProvider
	}
	return StateChoosingService
}
