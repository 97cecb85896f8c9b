package appointment

import (
	"fmt"
	"strings"

	"github.com/BruksfildServices01/booking-platform/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusClientDetailsProvided Status = "client_details_provided"
	StatusPending               Status = "pending"
	StatusAccepted              Status = "accepted"
	StatusRejected              Status = "rejected"
	StatusReported              Status = "reported"
	StatusArrived               Status = "arrived"
	StatusCompleted             Status = "completed"
	StatusCancelled             Status = "cancelled"
)

func (s Status) IsTerminal() bool {
	switch s {
	case StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// BlocksSlot diz se um agendamento nesse status ocupa a agenda.
func (s Status) BlocksSlot() bool {
	return !s.IsTerminal()
}

// BlockingStatuses é o filtro usado nas queries de disponibilidade.
func BlockingStatuses() []string {
	return []string{
		string(StatusClientDetailsProvided),
		string(StatusPending),
		string(StatusAccepted),
		string(StatusReported),
		string(StatusArrived),
	}
}

// ===============================
// Actions
// ===============================

type Action string

const (
	ActionAccept   Action = "accept"
	ActionReject   Action = "reject"
	ActionReport   Action = "report"
	ActionArrived  Action = "arrived"
	ActionComplete Action = "paid"
	ActionCancel   Action = "cancel"
)

type transition struct {
	from []Status
	to   Status
}

// Tabela única de transições.
var transitions = map[Action]transition{
	ActionAccept:   {from: []Status{StatusPending}, to: StatusAccepted},
	ActionReject:   {from: []Status{StatusPending}, to: StatusRejected},
	ActionReport:   {from: []Status{StatusAccepted}, to: StatusReported},
	ActionArrived:  {from: []Status{StatusAccepted}, to: StatusArrived},
	ActionComplete: {from: []Status{StatusArrived}, to: StatusCompleted},
	ActionCancel: {
		from: []Status{
			StatusClientDetailsProvided,
			StatusPending,
			StatusAccepted,
			StatusReported,
			StatusArrived,
		},
		to: StatusCancelled,
	},
}

// ParseOwnerAction valida o nome vindo da rota antes de tocar no estado.
func ParseOwnerAction(raw string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "accept":
		return ActionAccept, nil
	case "reject":
		return ActionReject, nil
	case "report":
		return ActionReport, nil
	case "arrived":
		return ActionArrived, nil
	case "paid", "complete", "completed":
		return ActionComplete, nil
	}
	return "", httperr.ErrValidation("invalid_action", fmt.Sprintf("Invalid action %q", raw))
}

// CanApply verifica a transição sem alterar nada.
func CanApply(action Action, current Status) error {
	tr, ok := transitions[action]
	if !ok {
		return httperr.ErrValidation("invalid_action", fmt.Sprintf("Invalid action %q", action))
	}
	for _, s := range tr.from {
		if s == current {
			return nil
		}
	}
	return httperr.ErrConflict(
		"invalid_transition",
		fmt.Sprintf("Cannot %s an appointment in status %s", action, current),
	)
}

func Target(action Action) Status {
	return transitions[action].to
}
