package models

// RequestStatus is the lifecycle state of a ServiceRequest
type RequestStatus string

const (
	StatusPending        RequestStatus = "pending"
	StatusAccepted       RequestStatus = "accepted"
	StatusCompleted      RequestStatus = "completed"
	StatusRejected       RequestStatus = "rejected"
	StatusExecutionError RequestStatus = "execution_error"
	StatusDeleted        RequestStatus = "deleted"
)

// AllStatuses lists the closed set of request states
var AllStatuses = []RequestStatus{
	StatusPending,
	StatusAccepted,
	StatusCompleted,
	StatusRejected,
	StatusExecutionError,
	StatusDeleted,
}

// transitions holds the edges an admin status update may take.
// deleted is only reachable through request deletion.
var transitions = map[RequestStatus][]RequestStatus{
	StatusPending:  {StatusAccepted, StatusRejected},
	StatusAccepted: {StatusCompleted, StatusExecutionError, StatusRejected},
}

// IsValid reports whether s belongs to the closed status set
func (s RequestStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsActive reports whether the request still needs work (pending or accepted)
func (s RequestStatus) IsActive() bool {
	return s == StatusPending || s == StatusAccepted
}

// IsTerminal reports whether no further status update is possible
func (s RequestStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransition reports whether an admin status update may move a request
// from one state to another. Staying in the same state is allowed so notes
// can be amended, except for deleted requests.
func CanTransition(from, to RequestStatus) bool {
	if !from.IsValid() || !to.IsValid() || to == StatusDeleted || from == StatusDeleted {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanReassign reports whether a technician may be (re)bound to the request
func CanReassign(s RequestStatus) bool {
	return s.IsActive()
}
