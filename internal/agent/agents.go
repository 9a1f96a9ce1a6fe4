package agent

import (
	"github.com/rs/zerolog"

	"github.com/hrdesk/hrdesk/internal/llm"
	"github.com/hrdesk/hrdesk/internal/search"
	"github.com/hrdesk/hrdesk/internal/store"
	"github.com/hrdesk/hrdesk/internal/tools"
)

// RegisterHRAgents builds the five specialists over the shared store and
// model provider and registers them with the supervisor. A nil policy index
// still registers the policy agent; its search tool reports that policy
// search is not configured.
func RegisterHRAgents(sup *Supervisor, s store.Store, provider llm.Provider, idx search.PolicyIndex, opts Options, log zerolog.Logger) {
	database := tools.NewRegistry()
	database.Register(tools.NewDatabaseQuestionTool(s, provider, opts.MaxTokens))
	database.Register(tools.NewListDepartmentsTool(s))
	database.Register(tools.NewListEmployeesTool(s))
	database.Register(tools.NewEmployeeDetailsTool(s))
	database.Register(tools.NewRequestLeaveTool(s))
	database.Register(tools.NewLeaveStatusTool(s))
	database.Register(tools.NewLeaveBalanceTool(s))
	database.Register(tools.NewCompanyHolidaysTool())
	sup.Register(New("database", databasePrompt, provider, database, opts, log))

	policy := tools.NewRegistry()
	policy.Register(tools.NewPolicySearchTool(idx))
	sup.Register(New("policy", policyPrompt, provider, policy, opts, log))

	performance := tools.NewRegistry()
	performance.Register(tools.NewSetGoalTool(s))
	performance.Register(tools.NewUpdateGoalProgressTool(s))
	performance.Register(tools.NewListGoalsTool(s))
	performance.Register(tools.NewRecordFeedbackTool(s))
	performance.Register(tools.NewScheduleReviewTool(s))
	sup.Register(New("performance", performancePrompt, provider, performance, opts, log))

	training := tools.NewRegistry()
	training.Register(tools.NewRecordTrainingTool(s))
	training.Register(tools.NewTrainingHistoryTool(s))
	training.Register(tools.NewScheduleAssessmentTool(s))
	sup.Register(New("training", trainingPrompt, provider, training, opts, log))

	analytics := tools.NewRegistry()
	analytics.Register(tools.NewDashboardTool(s))
	analytics.Register(tools.NewAttendanceReportTool(s))
	sup.Register(New("analytics", analyticsPrompt, provider, analytics, opts, log))
}

const databasePrompt = `You are an HR assistant answering questions about employees,
departments, attendance and leave. Use your tools to look up records; never
invent data. When a tool reports that a record was not found, say so plainly.
Dates are written as YYYY-MM-DD.`

const policyPrompt = `You are an HR policy assistant. Answer questions about company
policy by searching the handbook with your tool and quoting the relevant
passages. If nothing relevant is found, say so rather than guessing.`

const performancePrompt = `You are an HR performance assistant. You set and track
performance goals, record feedback and schedule reviews using your tools.
Confirm what was saved after each change. Dates are written as YYYY-MM-DD.`

const trainingPrompt = `You are an HR training assistant. You record training
enrollments and completions, report training history and schedule skills
assessments using your tools. Dates are written as YYYY-MM-DD.`

const analyticsPrompt = `You are an HR analytics assistant. You summarize workforce
metrics and attendance using your tools and present them clearly. Use the
numbers the tools return; never estimate.`
