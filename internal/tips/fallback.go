package tips

import (
	"time"

	"github.com/materna-cli/materna/internal/model"
	"github.com/materna-cli/materna/internal/pregnancy"
)

// Static templates used when no provider is configured, the daily budget
// is spent, or every provider fails.
var fallbackTemplates = map[model.ReminderKind]string{
	model.KindNutrition:     "Snack time! Try a handful of nuts, a piece of fruit, or a cup of yogurt.",
	model.KindRelaxation:    "Take five slow, deep breaths and close your eyes for a minute.",
	model.KindStandUp:       "Get up and move for 3-5 minutes. A short walk gets the blood flowing.",
	model.KindPosture:       "Check your posture: back straight, feet flat, lower back supported, legs uncrossed.",
	model.KindPregnancyTip:  "Drink plenty of water, move a little every hour, and keep your prenatal appointments.",
	model.KindWater:         "Time for a glass of water. Staying hydrated matters for both of you.",
	model.KindEyeRest:       "Rest your eyes: look into the distance and blink a few times.",
	model.KindMedication:    "Time for your medication. Take it as prescribed.",
	model.KindNap:           "Nap time. Thirty minutes of rest restores a lot of energy.",
	model.KindFetalMovement: "Settle down somewhere quiet and pay attention to your baby's movements.",
}

// Trimester-flavored daily tips, rotated by day of year.
var trimesterTips = map[int][]string{
	1: {
		"Small, frequent meals can help with morning sickness. Keep crackers within reach.",
		"Fatigue is normal in the first trimester. Rest when your body asks for it.",
		"Start a folic acid supplement if you have not already, and avoid alcohol completely.",
	},
	2: {
		"The second trimester is a good time for gentle, regular exercise like walking or swimming.",
		"Your baby is growing fast now. Make sure you get enough iron and calcium.",
		"Sleeping on your side with a pillow between your knees can ease back strain.",
	},
	3: {
		"Practice noticing daily movement patterns. Contact your midwife if movements change.",
		"Pack your hospital bag early and keep important phone numbers handy.",
		"Swollen feet are common now. Put your legs up whenever you can.",
	},
}

// Fallback returns the static content for a reminder kind. Daily tips are
// flavored by trimester when the pregnancy week is known.
func Fallback(kind model.ReminderKind, week int) string {
	if kind == model.KindPregnancyTip && week > 0 {
		tips := trimesterTips[pregnancy.TrimesterOf(week)]
		if len(tips) > 0 {
			return tips[time.Now().YearDay()%len(tips)]
		}
	}

	if msg, ok := fallbackTemplates[kind]; ok {
		return msg
	}
	return "Time for a wellness break."
}
