package queue

// ===============================
// Entry Status
// ===============================

type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusInService Status = "in_service"
	StatusCompleted Status = "completed"
	StatusRemoved   Status = "removed"
)

type Action string

const (
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
	ActionRemove   Action = "remove"
)

// transitionMap lists the statuses each staff action may be applied to.
// There is no way back out of completed or removed.
var transitionMap = map[Action][]Status{
	ActionStart:    {StatusWaiting},
	ActionComplete: {StatusInService},
	ActionRemove:   {StatusWaiting, StatusInService},
}

var nextStatus = map[Action]Status{
	ActionStart:    StatusInService,
	ActionComplete: StatusCompleted,
	ActionRemove:   StatusRemoved,
}

func ValidTransition(action Action, from Status) bool {
	allowed, ok := transitionMap[action]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == from {
			return true
		}
	}
	return false
}

func NextStatus(action Action) (Status, bool) {
	to, ok := nextStatus[action]
	return to, ok
}

// ===============================
// Active set
// ===============================

func IsActive(s Status) bool {
	return s == StatusWaiting || s == StatusInService
}

// ActiveStatusNames is the status filter for the active set in queries.
func ActiveStatusNames() []string {
	return []string{string(StatusWaiting), string(StatusInService)}
}

// ===============================
// Roles
// ===============================

const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleOwner    = "owner"
)

// CanAct reports whether a role may apply staff actions to entries.
func CanAct(role string) bool {
	return role == RoleStaff || role == RoleOwner
}
