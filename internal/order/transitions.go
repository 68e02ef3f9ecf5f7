package order

var transitions = map[string][]string{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusServed, StatusCancelled},
	StatusServed:    {StatusPaid, StatusCancelled},
}

// CanTransition reports whether an order may move from one status to another.
// Paid and cancelled are terminal.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func IsTerminal(status string) bool {
	return status == StatusPaid || status == StatusCancelled
}

// Payable reports whether a payment may settle an order in this status.
func Payable(status string) bool {
	switch status {
	case StatusPending, StatusPreparing, StatusReady, StatusServed:
		return true
	}
	return false
}
