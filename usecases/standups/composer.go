package standups

import (
	"fmt"
	"strings"
	"time"

	"dailydose/models"
)

const summaryDateLayout = "Monday, 2 January 2006"

// Summary is everything the daily summary message is built from
type Summary struct {
	Team         *models.Team
	Date         time.Time
	OnTime       []*models.StandupResponse
	Late         []*models.StandupResponse
	NotSubmitted []*models.TeamMember
	OnLeave      []*models.TeamMember
	// Users resolves response authors by user ID
	Users map[string]*models.User
}

// Compose builds the daily summary: header, one entry per on-time response,
// then the not-submitted and on-leave mention lists. Late responses are threaded separately.
func Compose(summary *Summary) *models.Message {
	builder := models.NewMessageBuilder().
		Header(fmt.Sprintf("Daily Standup · %s", summary.Team.Name)).
		Context(summary.Date.Format(summaryDateLayout))

	builder.Section(fmt.Sprintf("**Submitted (%d)**", len(summary.OnTime)))
	if len(summary.OnTime) == 0 {
		builder.Section("_No updates yet._")
	}
	for _, response := range summary.OnTime {
		builder.Entry(mention(summary.Users[response.UserID], response.UserID), responseFields(response)...)
	}
	builder.Divider()

	builder.Section(fmt.Sprintf("**Not submitted (%d)**\n%s", len(summary.NotSubmitted), mentionList(summary.NotSubmitted)))
	builder.Section(fmt.Sprintf("**On leave (%d)**\n%s", len(summary.OnLeave), mentionList(summary.OnLeave)))

	if len(summary.Late) > 0 {
		builder.Context(fmt.Sprintf("%d late update(s) are posted in the thread.", len(summary.Late)))
	}

	fallback := fmt.Sprintf(
		"Daily standup for %s on %s: %d submitted, %d not submitted, %d on leave",
		summary.Team.Name,
		summary.Date.Format(summaryDateLayout),
		len(summary.OnTime),
		len(summary.NotSubmitted),
		len(summary.OnLeave),
	)
	return builder.Build(fallback)
}

// ComposeLateReply renders a late response as a thread reply to the day's summary
func ComposeLateReply(response *models.StandupResponse, author *models.User) *models.Message {
	who := mention(author, response.UserID)
	return models.NewMessageBuilder().
		Section(fmt.Sprintf("%s posted a late update", who)).
		Fields(responseFields(response)...).
		Context(fmt.Sprintf("Submitted %s UTC", response.SubmittedAt.UTC().Format("15:04"))).
		Build(fmt.Sprintf("Late standup update from %s", displayName(author, response.UserID)))
}

// ComposeReminder is the direct message sent at the team's standup time
func ComposeReminder(team *models.Team, schedule *models.TeamSchedule) *models.Message {
	return models.NewMessageBuilder().
		Section(fmt.Sprintf("👋 Time for the **%s** standup!", team.Name)).
		Section("What did you do yesterday? What are you doing today? Anything blocking you?").
		Context(fmt.Sprintf("The summary is posted at %s (%s).", schedule.Posting, schedule.Location)).
		Build(fmt.Sprintf("Time for the %s standup", team.Name))
}

// ComposeFollowup nudges members who have not responded yet
func ComposeFollowup(team *models.Team, schedule *models.TeamSchedule) *models.Message {
	return models.NewMessageBuilder().
		Section(fmt.Sprintf("⏰ Friendly reminder: your **%s** standup update is still missing.", team.Name)).
		Context(fmt.Sprintf("Updates after %s (%s) are posted as late replies.", schedule.Posting, schedule.Location)).
		Build(fmt.Sprintf("Your %s standup update is still missing", team.Name))
}

func responseFields(response *models.StandupResponse) []models.FieldPair {
	return []models.FieldPair{
		{Label: "Yesterday", Value: orNone(response.Yesterday)},
		{Label: "Today", Value: orNone(response.Today)},
		{Label: "Blockers", Value: orNone(response.Blockers)},
	}
}

// mention uses the <@id> syntax understood by both Slack and Discord
func mention(user *models.User, fallbackID string) string {
	if user == nil {
		return fallbackID
	}
	if user.ExternalID == "" {
		return user.DisplayName
	}
	return "<@" + user.ExternalID + ">"
}

func displayName(user *models.User, fallbackID string) string {
	if user == nil || user.DisplayName == "" {
		return fallbackID
	}
	return user.DisplayName
}

func mentionList(members []*models.TeamMember) string {
	if len(members) == 0 {
		return "None"
	}
	mentions := make([]string, 0, len(members))
	for _, member := range members {
		mentions = append(mentions, mention(member.User, member.Membership.UserID))
	}
	return strings.Join(mentions, ", ")
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "None"
	}
	return s
}
