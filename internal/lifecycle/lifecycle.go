// Package lifecycle owns the status/assignment rules of an asset.
//
// The only state is the pair (status, assignedTo). A state is consistent when
// status is "assigned" exactly when assignedTo is set. Every mutation path
// (create, update, assign, unassign) computes its next state here, so the
// invariant is enforced in one place.
//
//	available   <-> assigned
//	available   <-> maintenance
//	maintenance  -> assigned
//	assigned     -> maintenance
//	any          -> retired (terminal)
package lifecycle

import (
	"github.com/crucial707/asset-tracker/internal/apperr"
	"github.com/crucial707/asset-tracker/internal/models"
	"github.com/google/uuid"
)

// State is the status/assignment pair of one asset.
type State struct {
	Status     models.Status
	AssignedTo *uuid.UUID
}

// Of extracts the lifecycle state of a.
func Of(a models.Asset) State {
	return State{Status: a.Status, AssignedTo: a.AssignedTo}
}

// ApplyTo writes s onto a.
func (s State) ApplyTo(a *models.Asset) {
	a.Status = s.Status
	a.AssignedTo = s.AssignedTo
	if s.AssignedTo == nil {
		a.Assignee = nil
	}
}

// Consistent reports whether s satisfies the status/assignment invariant.
func (s State) Consistent() bool {
	return (s.Status == models.StatusAssigned) == (s.AssignedTo != nil)
}

func (s State) equal(o State) bool {
	if s.Status != o.Status {
		return false
	}
	if s.AssignedTo == nil || o.AssignedTo == nil {
		return s.AssignedTo == nil && o.AssignedTo == nil
	}
	return *s.AssignedTo == *o.AssignedTo
}

// transitions lists the legal direct status moves. Same-status moves are
// handled as no-ops before this table is consulted; assigned -> assigned
// (reassignment) is deliberately absent.
var transitions = map[models.Status]map[models.Status]bool{
	models.StatusAvailable: {
		models.StatusAssigned:    true,
		models.StatusMaintenance: true,
		models.StatusRetired:     true,
	},
	models.StatusAssigned: {
		models.StatusAvailable:   true,
		models.StatusMaintenance: true,
		models.StatusRetired:     true,
	},
	models.StatusMaintenance: {
		models.StatusAvailable: true,
		models.StatusAssigned:  true,
		models.StatusRetired:   true,
	},
	models.StatusRetired: {},
}

// CanTransition reports whether from -> to is a legal status move.
func CanTransition(from, to models.Status) bool {
	return transitions[from][to]
}

func transitionError(from, to models.Status, reason string) error {
	return &apperr.TransitionError{From: string(from), To: string(to), Reason: reason}
}

// Initial returns the state of a newly created asset. An empty status
// defaults to available, or to assigned when an assignee is given.
func Initial(status models.Status, assignedTo *uuid.UUID) (State, error) {
	if status == "" {
		status = models.StatusAvailable
		if assignedTo != nil {
			status = models.StatusAssigned
		}
	}
	if !status.Valid() {
		return State{}, apperr.Invalid("status", "must be one of: available assigned maintenance retired")
	}
	s := State{Status: status, AssignedTo: assignedTo}
	if status == models.StatusAssigned && assignedTo == nil {
		return State{}, apperr.Invalid("assignedTo", "required when status is assigned")
	}
	if status != models.StatusAssigned && assignedTo != nil {
		return State{}, apperr.Invalid("assignedTo", "must be null unless status is assigned")
	}
	return s, nil
}

// Assign moves s to assigned with userID as holder. Only available and
// maintenance assets can be assigned.
func Assign(s State, userID uuid.UUID) (State, error) {
	switch s.Status {
	case models.StatusAvailable, models.StatusMaintenance:
		id := userID
		return State{Status: models.StatusAssigned, AssignedTo: &id}, nil
	case models.StatusAssigned:
		return s, transitionError(s.Status, models.StatusAssigned, "asset is already assigned")
	case models.StatusRetired:
		return s, transitionError(s.Status, models.StatusAssigned, "asset is retired")
	}
	return s, transitionError(s.Status, models.StatusAssigned, "unknown current status")
}

// Unassign returns an assigned asset to available.
func Unassign(s State) (State, error) {
	if s.Status != models.StatusAssigned {
		return s, transitionError(s.Status, models.StatusAvailable, "asset is not assigned")
	}
	return State{Status: models.StatusAvailable}, nil
}

// Change is the status/assignment part of an update payload.
type Change struct {
	Status     models.Field[models.Status]
	AssignedTo models.Field[uuid.UUID]
}

// ChangeOf extracts the lifecycle fields of an update payload.
func ChangeOf(p models.AssetPatch) Change {
	return Change{Status: p.Status, AssignedTo: p.AssignedTo}
}

// Empty reports whether the change touches neither status nor assignee.
func (c Change) Empty() bool {
	return !c.Status.Set && !c.AssignedTo.Set
}

// Apply resolves an update payload against the current state.
//
// The payload is normalised where it is unambiguous and rejected where it
// contradicts itself:
//   - a non-assigned status with no assignedTo clears the assignee;
//   - a non-assigned status with a non-null assignedTo is rejected;
//   - status assigned needs an assignee, from the payload or the current state;
//   - assignedTo alone implies status assigned (value) or available (null,
//     only when currently assigned).
func Apply(s State, c Change) (State, error) {
	if c.Empty() {
		return s, nil
	}

	target, err := target(s, c)
	if err != nil {
		return s, err
	}
	if target.equal(s) {
		return s, nil
	}
	if s.Status == models.StatusRetired {
		return s, transitionError(s.Status, target.Status, "retired is terminal")
	}
	if target.Status == s.Status {
		// Only reachable as assigned -> assigned with a different holder.
		return s, transitionError(s.Status, target.Status, "asset is already assigned; unassign first")
	}
	if !CanTransition(s.Status, target.Status) {
		return s, transitionError(s.Status, target.Status, "")
	}
	return target, nil
}

func target(s State, c Change) (State, error) {
	if c.Status.Set {
		status := c.Status.Value
		if c.Status.Null || !status.Valid() {
			return s, apperr.Invalid("status", "must be one of: available assigned maintenance retired")
		}
		if status != models.StatusAssigned {
			if c.AssignedTo.Set && !c.AssignedTo.Null {
				return s, apperr.Invalid("assignedTo", "must be null unless status is assigned")
			}
			return State{Status: status}, nil
		}
		switch {
		case c.AssignedTo.Set && c.AssignedTo.Null:
			return s, apperr.Invalid("assignedTo", "required when status is assigned")
		case c.AssignedTo.Set:
			return State{Status: status, AssignedTo: c.AssignedTo.Ptr()}, nil
		case s.AssignedTo != nil:
			return s, nil
		}
		return s, apperr.Invalid("assignedTo", "required when status is assigned")
	}

	if c.AssignedTo.Null {
		if s.Status == models.StatusAssigned {
			return State{Status: models.StatusAvailable}, nil
		}
		return s, nil
	}
	return State{Status: models.StatusAssigned, AssignedTo: c.AssignedTo.Ptr()}, nil
}
