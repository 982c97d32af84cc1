// Package resolve decides what a typed intent means for a user's lead set.
// Resolution is a pure function over an in-memory snapshot: no I/O happens
// here, and expected failure modes (no match, ambiguity, nothing to change)
// are outcomes, not errors.
package resolve

import (
	"strings"

	contractx "leadline/assistant/contract"
	matchx "leadline/assistant/match"
	storex "leadline/assistant/store"
)

const (
	defaultName      = "Contact"
	defaultCompany   = "Unknown"
	defaultNextSteps = "Follow up"
)

// Resolve maps an intent onto an outcome given the owner's active leads.
// Ambiguity is always surfaced: multiple matches are never auto-resolved by
// recency or any other heuristic, since that risks mutating the wrong record.
func Resolve(intent contractx.Intent, owner *storex.User, activeLeads []storex.Lead) contractx.Outcome {
	if owner == nil {
		return contractx.Rejected(contractx.RejectUnresolvable)
	}

	// Cross-user leads in the snapshot are a caller bug; drop them before any
	// matching rather than mutate another user's record.
	leads := ownedActive(owner.ID, activeLeads)

	switch intent.Kind {
	case contractx.IntentAddLead:
		return resolveAdd(intent, owner)
	case contractx.IntentListLeads:
		return contractx.Listed(leads)
	case contractx.IntentUpdateLead:
		return resolveUpdate(intent, leads)
	case contractx.IntentCompleteLead:
		return resolveComplete(intent, leads)
	default:
		return contractx.Rejected(contractx.RejectUnresolvable)
	}
}

// resolveAdd never fails: absent optional fields get best-effort defaults.
func resolveAdd(intent contractx.Intent, owner *storex.User) contractx.Outcome {
	name := strings.TrimSpace(intent.Name)
	if name == "" {
		name = defaultName
	}
	company := strings.TrimSpace(intent.Company)
	if company == "" {
		company = defaultCompany
	}
	nextSteps := strings.TrimSpace(intent.NextSteps)
	if nextSteps == "" {
		nextSteps = defaultNextSteps
	}

	return contractx.Created(contractx.NewLead{
		UserID:    owner.ID,
		Name:      name,
		Company:   company,
		NextSteps: nextSteps,
		FollowUp:  intent.FollowUp,
	})
}

func resolveUpdate(intent contractx.Intent, leads []storex.Lead) contractx.Outcome {
	fragment := strings.TrimSpace(intent.Name)
	if fragment == "" {
		return contractx.Rejected(contractx.RejectMissingRequiredField)
	}

	matched := matchx.Leads(fragment, leads)
	switch len(matched) {
	case 0:
		return contractx.Rejected(contractx.RejectNoMatch)
	case 1:
		patch := storex.LeadPatch{}
		if next := strings.TrimSpace(intent.NextSteps); next != "" {
			patch.NextSteps = &next
		}
		if intent.FollowUp != nil {
			patch.FollowUpDate = intent.FollowUp
		}
		if patch.Empty() {
			// Matched, but there is nothing to change. A no-op, not a fault.
			return contractx.Rejected(contractx.RejectMissingRequiredField)
		}
		return contractx.Updated(matched[0].ID, patch)
	default:
		return contractx.Rejected(contractx.RejectAmbiguousMatch, matched...)
	}
}

func resolveComplete(intent contractx.Intent, leads []storex.Lead) contractx.Outcome {
	fragment := strings.TrimSpace(intent.Name)
	if fragment == "" {
		return contractx.Rejected(contractx.RejectMissingRequiredField)
	}

	matched := matchx.Leads(fragment, leads)
	switch len(matched) {
	case 0:
		return contractx.Rejected(contractx.RejectNoMatch)
	case 1:
		status := intent.Status
		if !status.Terminal() {
			status = storex.LeadWon
		}
		return contractx.StatusChanged(matched[0].ID, status)
	default:
		return contractx.Rejected(contractx.RejectAmbiguousMatch, matched...)
	}
}

func ownedActive(ownerID int64, leads []storex.Lead) []storex.Lead {
	owned := make([]storex.Lead, 0, len(leads))
	for _, lead := range leads {
		if lead.UserID != ownerID {
			continue
		}
		if lead.Status != storex.LeadActive {
			continue
		}
		owned = append(owned, lead)
	}
	return owned
}
