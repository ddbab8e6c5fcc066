package tips

import (
	"fmt"
	"strings"

	"github.com/materna-cli/materna/internal/model"
	"github.com/materna-cli/materna/internal/pregnancy"
)

// promptStyle is shared framing for all generated content.
const promptStyle = "You are a warm, supportive assistant for a pregnant user. " +
	"Answer in 1-3 short sentences, friendly and practical. " +
	"No medical diagnoses. Plain text only, no markdown."

// reminderPrompt builds the generation prompt for a reminder kind.
func reminderPrompt(kind model.ReminderKind, week int) string {
	var task string
	switch kind {
	case model.KindPregnancyTip:
		task = "Write today's pregnancy wellness tip. Mention something relevant to this stage."
	case model.KindNutrition:
		task = "Suggest a healthy snack for the mid-morning or afternoon break."
	case model.KindPosture:
		task = "Give a short posture adjustment reminder for someone working at a desk."
	case model.KindStandUp:
		task = "Encourage the user to stand up and move for a few minutes."
	case model.KindRelaxation:
		task = "Suggest a one-minute relaxation or breathing exercise."
	default:
		task = "Write a short, caring wellness reminder."
	}

	var sb strings.Builder
	sb.WriteString(promptStyle)
	sb.WriteString("\n\n")
	if week > 0 {
		fmt.Fprintf(&sb, "The user is in pregnancy week %d (%s). ", week, pregnancy.Status{Trimester: pregnancy.TrimesterOf(week)}.TrimesterName())
		if stage := pregnancy.DevelopmentStage(week); stage != "" {
			fmt.Fprintf(&sb, "Fetal development: %s. ", strings.ToLower(stage[:1])+stage[1:])
		}
	}
	sb.WriteString(task)
	return sb.String()
}

// dietPrompt builds the analysis prompt for a day's logged meals.
func dietPrompt(foods []string, week int) string {
	var sb strings.Builder
	sb.WriteString(promptStyle)
	sb.WriteString("\n\n")
	if week > 0 {
		fmt.Fprintf(&sb, "The user is in pregnancy week %d. ", week)
	}
	sb.WriteString("Today they ate: ")
	sb.WriteString(strings.Join(foods, ", "))
	sb.WriteString(". Briefly assess the day's nutrition balance for pregnancy and suggest one improvement. Keep it to 3-4 sentences.")
	return sb.String()
}
