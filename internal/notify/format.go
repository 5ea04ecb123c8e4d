package notify

import (
	"fmt"
	"strings"
	"time"
)

const timeLayout = "02/01/2006 15:04"

// FormatEventReminder builds the HTML message for an event reminder.
func FormatEventReminder(title string, eventStart time.Time, minutesBefore int, location string) string {
	var b strings.Builder
	b.WriteString("🔔 <b>Recordatorio de Evento</b>\n\n")
	fmt.Fprintf(&b, "📅 <b>%s</b>\n", title)
	fmt.Fprintf(&b, "🕐 %s", eventStart.Format(timeLayout))

	if location != "" {
		fmt.Fprintf(&b, "\n📍 %s", location)
	}

	if minutesBefore > 0 {
		fmt.Fprintf(&b, "\n\n⏰ El evento comienza en %s", leadPhrase(minutesBefore))
	} else {
		b.WriteString("\n\n⏰ El evento está comenzando ahora")
	}
	return b.String()
}

// FormatInternalReminder builds the HTML message for an internal reminder.
func FormatInternalReminder(title string, reminderAt time.Time, minutesBefore int, description string) string {
	var b strings.Builder
	b.WriteString("⏰ <b>Recordatorio</b>\n\n")
	fmt.Fprintf(&b, "📋 <b>%s</b>\n", title)
	fmt.Fprintf(&b, "🕐 %s", reminderAt.Format(timeLayout))

	if description != "" {
		fmt.Fprintf(&b, "\n📝 %s", description)
	}

	if minutesBefore > 0 {
		fmt.Fprintf(&b, "\n\n⏳ Tiempo restante: %s", leadPhrase(minutesBefore))
	} else {
		b.WriteString("\n\n⏳ ¡Es ahora!")
	}
	return b.String()
}

func leadPhrase(minutesBefore int) string {
	if minutesBefore >= 60 {
		hours := minutesBefore / 60
		remaining := minutesBefore % 60
		if remaining > 0 {
			return fmt.Sprintf("%dh %dmin", hours, remaining)
		}
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%d minutos", minutesBefore)
}
