package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatEventReminder_WithLocation(t *testing.T) {
	eventStart := time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)

	message := FormatEventReminder("Dentista", eventStart, 30, "Calle Mayor 1")

	expected := "🔔 <b>Recordatorio de Evento</b>\n\n" +
		"📅 <b>Dentista</b>\n" +
		"🕐 01/06/2024 15:30\n" +
		"📍 Calle Mayor 1\n\n" +
		"⏰ El evento comienza en 30 minutos"
	assert.Equal(t, expected, message)
}

func TestFormatEventReminder_NoLocation(t *testing.T) {
	eventStart := time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)

	message := FormatEventReminder("Dentista", eventStart, 45, "")

	assert.NotContains(t, message, "📍")
	assert.Contains(t, message, "⏰ El evento comienza en 45 minutos")
}

func TestFormatEventReminder_HoursAndMinutes(t *testing.T) {
	eventStart := time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)

	assert.Contains(t, FormatEventReminder("X", eventStart, 90, ""), "⏰ El evento comienza en 1h 30min")
	assert.Contains(t, FormatEventReminder("X", eventStart, 120, ""), "⏰ El evento comienza en 2h")
	assert.NotContains(t, FormatEventReminder("X", eventStart, 120, ""), "0min")
}

func TestFormatEventReminder_StartingNow(t *testing.T) {
	eventStart := time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)

	message := FormatEventReminder("Dentista", eventStart, 0, "")

	assert.Contains(t, message, "⏰ El evento está comenzando ahora")
	assert.NotContains(t, message, "comienza en")
}

func TestFormatInternalReminder_WithDescription(t *testing.T) {
	reminderAt := time.Date(2024, 12, 5, 9, 0, 0, 0, time.UTC)

	message := FormatInternalReminder("Pagar alquiler", reminderAt, 15, "Antes del día 5")

	expected := "⏰ <b>Recordatorio</b>\n\n" +
		"📋 <b>Pagar alquiler</b>\n" +
		"🕐 05/12/2024 09:00\n" +
		"📝 Antes del día 5\n\n" +
		"⏳ Tiempo restante: 15 minutos"
	assert.Equal(t, expected, message)
}

func TestFormatInternalReminder_NoDescription(t *testing.T) {
	reminderAt := time.Date(2024, 12, 5, 9, 0, 0, 0, time.UTC)

	message := FormatInternalReminder("Pagar alquiler", reminderAt, 60, "")

	assert.NotContains(t, message, "📝")
	assert.Contains(t, message, "⏳ Tiempo restante: 1h")
}

func TestFormatInternalReminder_DueNow(t *testing.T) {
	reminderAt := time.Date(2024, 12, 5, 9, 0, 0, 0, time.UTC)

	message := FormatInternalReminder("Pagar alquiler", reminderAt, 0, "")

	assert.Contains(t, message, "⏳ ¡Es ahora!")
	assert.NotContains(t, message, "Tiempo restante")
}
