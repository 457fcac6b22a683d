package order

// transitions lists every legal move. A shipped order may still be cancelled
// until it is completed.
var transitions = map[Status][]Status{
	StatusPending: {StatusShipped, StatusCancelled},
	StatusShipped: {StatusCompleted, StatusCancelled},
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition checks a move from one status to another.
func Transition(from, to Status) error {
	if !to.Valid() {
		return ErrInvalidStatus.With("status", string(to))
	}
	if !CanTransition(from, to) {
		return ErrInvalidTransition.
			With("from", string(from)).
			With("to", string(to))
	}
	return nil
}
