package models

// Stage is the mutable status of a match. It drives both the business state
// and the card presentation of a match in the student view.
//
// The set is intentionally permissive: organizers correct mistakes by moving
// a match to any recognized stage, so validation is membership only and no
// transition graph is enforced. The one distinguished transition is the undo,
// which returns any stage to StagePending.
type Stage string

// Recognized stage values. Exact spelling is part of the wire contract.
const (
	StagePending        Stage = "pending"
	StageAccepted       Stage = "accepted"
	StageRejected       Stage = "rejected"
	StageAssigned       Stage = "assigned"
	StageNeedToSchedule Stage = "need_to_schedule"
	StageScheduled      Stage = "scheduled"
	StageCompleted      Stage = "completed"
	StageDeclined       Stage = "declined"
	StageCanceled       Stage = "canceled"
	StageNoShow         Stage = "no_show"
)

// AllStages lists every recognized stage value.
var AllStages = []Stage{
	StagePending,
	StageAccepted,
	StageRejected,
	StageAssigned,
	StageNeedToSchedule,
	StageScheduled,
	StageCompleted,
	StageDeclined,
	StageCanceled,
	StageNoShow,
}

var recognizedStages = func() map[Stage]struct{} {
	m := make(map[Stage]struct{}, len(AllStages))
	for _, s := range AllStages {
		m[s] = struct{}{}
	}
	return m
}()

// Recognized reports whether s is a member of the recognized stage set.
func (s Stage) Recognized() bool {
	_, ok := recognizedStages[s]
	return ok
}

// ViewState is the card presentation a stage implies. It drives the UI only,
// never persistence.
type ViewState string

const (
	// CardPending is the compact accept/decline card.
	CardPending ViewState = "pending"
	// CardDetail is the expanded detail card with a scheduling action.
	CardDetail ViewState = "detail"
	// CardDetailNoAccept is the expanded detail card without an accept
	// affordance, offering undo only.
	CardDetailNoAccept ViewState = "detail_no_accept"
	// CardArchived is the collapsed card for declined matches.
	CardArchived ViewState = "archived"
)

// ViewState maps a stage to the card it renders as.
func (s Stage) ViewState() ViewState {
	switch s {
	case StageRejected, StageDeclined:
		return CardArchived
	case StageAccepted, StageNeedToSchedule, StageScheduled, StageCompleted:
		return CardDetail
	case StageCanceled, StageNoShow:
		return CardDetailNoAccept
	default:
		// pending and assigned both await the student's decision
		return CardPending
	}
}

// viewStateRank orders card groups in the student view: undecided matches
// first, then active ones, then canceled or missed, archived last.
var viewStateRank = map[ViewState]int{
	CardPending:        0,
	CardDetail:         1,
	CardDetailNoAccept: 2,
	CardArchived:       3,
}

// Rank returns the sort rank of the view state within the match list.
func (v ViewState) Rank() int {
	return viewStateRank[v]
}
