package constants

// Ticket pipeline stage codes (match rows seeded by the migrations).
const (
	TicketStageOpen       = "OPEN"
	TicketStageInProgress = "IN_PROGRESS"
	TicketStageResolved   = "RESOLVED"
	TicketStageClosed     = "CLOSED"
)

// Terminal ticket stages.
var FinalTicketStages = []string{
	TicketStageResolved,
	TicketStageClosed,
}

func IsFinalTicketStage(code string) bool {
	for _, s := range FinalTicketStages {
		if s == code {
			return true
		}
	}
	return false
}

// UI modules gated by the authorization predicate.
const (
	ModuleTickets    = "tickets"
	ModuleDeals      = "deals"
	ModulePipelines  = "pipelines"
	ModuleQuotations = "quotations"
	ModuleTasks      = "tasks"
)
