package contract

import (
	"time"

	storex "leadline/assistant/store"
)

// IntentKind tags the structured interpretation of an utterance.
type IntentKind string

const (
	IntentAddLead      IntentKind = "add_lead"
	IntentUpdateLead   IntentKind = "update_lead"
	IntentCompleteLead IntentKind = "complete_lead"
	IntentListLeads    IntentKind = "list_leads"
	IntentUnknown      IntentKind = "unknown"
)

// Intent is the transient output of an Extractor, consumed exactly once by
// the resolver. Unrecognized input is IntentUnknown, never an error.
type Intent struct {
	Kind IntentKind

	// Name doubles as the match fragment for update/complete intents.
	Name      string
	Company   string
	NextSteps string
	FollowUp  *time.Time

	// Status is only meaningful for IntentCompleteLead. Anything other than
	// won/lost is normalized to won by the resolver.
	Status storex.LeadStatus
}

// Unknown is the canonical intent for input no strategy could interpret.
func Unknown() Intent {
	return Intent{Kind: IntentUnknown}
}

type OutcomeKind string

const (
	OutcomeCreated       OutcomeKind = "created"
	OutcomeUpdated       OutcomeKind = "updated"
	OutcomeStatusChanged OutcomeKind = "status_changed"
	OutcomeListed        OutcomeKind = "listed"
	OutcomeRejected      OutcomeKind = "rejected"
)

type RejectReason string

const (
	RejectNoMatch              RejectReason = "no_match"
	RejectAmbiguousMatch       RejectReason = "ambiguous_match"
	RejectMissingRequiredField RejectReason = "missing_required_field"
	RejectUnresolvable         RejectReason = "unresolvable"
)

// NewLead carries the fields of a creation request before the store assigns
// an id.
type NewLead struct {
	UserID    int64
	Name      string
	Company   string
	NextSteps string
	FollowUp  *time.Time
}

// Outcome is the resolver's decision. Exactly one of the payload fields is
// meaningful, selected by Kind.
type Outcome struct {
	Kind OutcomeKind

	// OutcomeCreated
	Created *NewLead

	// OutcomeUpdated / OutcomeStatusChanged
	LeadID    int64
	Patch     storex.LeadPatch
	NewStatus storex.LeadStatus

	// OutcomeListed
	Leads []storex.Lead

	// OutcomeRejected; Candidates is populated for RejectAmbiguousMatch.
	Reason     RejectReason
	Candidates []storex.Lead
}

func Created(lead NewLead) Outcome {
	return Outcome{Kind: OutcomeCreated, Created: &lead}
}

func Updated(leadID int64, patch storex.LeadPatch) Outcome {
	return Outcome{Kind: OutcomeUpdated, LeadID: leadID, Patch: patch}
}

func StatusChanged(leadID int64, status storex.LeadStatus) Outcome {
	return Outcome{Kind: OutcomeStatusChanged, LeadID: leadID, NewStatus: status}
}

func Listed(leads []storex.Lead) Outcome {
	return Outcome{Kind: OutcomeListed, Leads: leads}
}

func Rejected(reason RejectReason, candidates ...storex.Lead) Outcome {
	return Outcome{Kind: OutcomeRejected, Reason: reason, Candidates: candidates}
}
