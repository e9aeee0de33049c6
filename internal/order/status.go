package order

// Status values keep the wire form used by the existing store and exports.
type Status string

const (
	StatusInProgress Status = "en_cours"
	StatusDelivered  Status = "livree"
	StatusCancelled  Status = "annulee"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) Valid() bool {
	switch s {
	case StatusInProgress, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Delivered and cancelled are terminal; there is no reverse transition.
var allowedTransitions = map[Status]map[Status]bool{
	StatusInProgress: {
		StatusDelivered: true,
		StatusCancelled: true,
	},
	StatusDelivered: {},
	StatusCancelled: {},
}

// CanTransition reports whether an order may move from s to next.
func (s Status) CanTransition(next Status) bool {
	return allowedTransitions[s][next]
}
