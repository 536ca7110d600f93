package reminder

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/smart-garage/internal/models"
)

func mustAdd(t *testing.T, v *models.Vehicle, date, kind string) {
	t.Helper()
	require.NoError(t, v.AddMaintenanceRecord(models.NewMaintenanceRecord(date, kind, 100, "")))
}

func TestFindDueReminders_TomorrowFromEvening(t *testing.T) {
	fleet := models.DefaultFleet()
	mustAdd(t, fleet[models.KindCar], "2024-04-11", "Revisão")

	today := time.Date(2024, 4, 10, 23, 59, 0, 0, time.Local)
	got := FindDueReminders(fleet, today)
	require.Len(t, got, 1)
	assert.Equal(t, DueTomorrow, got[0].Due)
	assert.Equal(t, models.KindCar, got[0].Kind)
	assert.Equal(t, "Onix", got[0].Model)
	assert.True(t, strings.HasPrefix(got[0].Message(), "LEMBRETE AMANHÃ: Revisão - Onix (Revisão em 11/04/2024 - "), got[0].Message())
}

func TestFindDueReminders_WindowAndOrder(t *testing.T) {
	fleet := models.DefaultFleet()
	mustAdd(t, fleet[models.KindTruck], "2024-04-10", "Freios")
	mustAdd(t, fleet[models.KindCar], "2024-04-11", "Pneus")
	mustAdd(t, fleet[models.KindCar], "2024-04-10", "Óleo")
	mustAdd(t, fleet[models.KindCar], "2024-04-09", "Ontem")
	mustAdd(t, fleet[models.KindCar], "2024-04-12", "Depois")
	mustAdd(t, fleet[models.KindMotorcycle], "2024-04-11", "Corrente")

	got := FindDueReminders(fleet, time.Date(2024, 4, 10, 8, 0, 0, 0, time.UTC))
	require.Len(t, got, 4)

	var summary []string
	for _, r := range got {
		summary = append(summary, string(r.Kind)+"/"+r.Record.ServiceType()+"/"+r.Due.String())
	}
	assert.Equal(t, []string{
		"Car/Óleo/today",
		"Car/Pneus/tomorrow",
		"Truck/Freios/today",
		"Motorcycle/Corrente/tomorrow",
	}, summary)

	assert.True(t, strings.HasPrefix(got[0].Message(), "LEMBRETE HOJE: Óleo - Onix ("))
}

func TestFindDueReminders_MonthBoundary(t *testing.T) {
	fleet := models.Fleet{models.KindCar: models.NewCar("Onix", "Prata")}
	mustAdd(t, fleet[models.KindCar], "2024-03-01", "Revisão")

	got := FindDueReminders(fleet, time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC))
	require.Len(t, got, 1)
	assert.Equal(t, DueTomorrow, got[0].Due)
}

func TestFindDueReminders_NothingDue(t *testing.T) {
	assert.Empty(t, FindDueReminders(models.DefaultFleet(), time.Now()))
	assert.Empty(t, FindDueReminders(models.Fleet{}, time.Now()))
}
