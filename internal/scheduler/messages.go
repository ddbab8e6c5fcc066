package scheduler

import "github.com/materna-cli/materna/internal/model"

// defaultTitle returns the notification title for a reminder kind.
func defaultTitle(kind model.ReminderKind) string {
	switch kind {
	case model.KindWater:
		return "Time to Drink Water"
	case model.KindStandUp:
		return "Time to Stand Up"
	case model.KindEyeRest:
		return "Rest Your Eyes"
	case model.KindPosture:
		return "Posture Check"
	case model.KindNutrition:
		return "Snack Time"
	case model.KindRelaxation:
		return "Take a Breather"
	case model.KindNap:
		return "Nap Time"
	case model.KindMedication:
		return "Medication Reminder"
	case model.KindPregnancyTip:
		return "Daily Pregnancy Tip"
	case model.KindFetalMovement:
		return "Fetal Movement Check"
	case model.KindEvent:
		return "Upcoming Event"
	default:
		return "Reminder"
	}
}

// defaultMessage returns the static notification body for a reminder kind,
// used when no generated content is available.
func defaultMessage(kind model.ReminderKind) string {
	switch kind {
	case model.KindWater:
		return "A glass of water keeps you and your baby hydrated."
	case model.KindStandUp:
		return "You have been sitting for a while. Stand up and move around for a few minutes."
	case model.KindEyeRest:
		return "Look at something 20 feet away for 20 seconds."
	case model.KindPosture:
		return "Sit up straight and relax your shoulders."
	case model.KindNutrition:
		return "Have a healthy snack, like fruit, yogurt, or a handful of nuts."
	case model.KindRelaxation:
		return "Close your eyes and take a few slow, deep breaths."
	case model.KindNap:
		return "A short rest after lunch helps with fatigue."
	case model.KindMedication:
		return "Time for your medication."
	case model.KindPregnancyTip:
		return "Check in with yourself today. Every week brings something new."
	case model.KindFetalMovement:
		return "Take a moment to notice your baby's movements."
	case model.KindEvent:
		return "You have an upcoming event."
	default:
		return "Time for a wellness break."
	}
}
