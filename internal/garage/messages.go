package garage

import (
	"errors"
	"fmt"

	"github.com/ukydev/smart-garage/internal/models"
	"github.com/ukydev/smart-garage/internal/notify"
)

// describe maps a vehicle error to the message and severity shown to the
// user. Benign outcomes are warnings, everything else an error. verb is the
// attempted action ("carregar", "descarregar", "turbo") where the message
// depends on it.
func describe(v *models.Vehicle, err error, verb string) (string, notify.Severity) {
	switch {
	case errors.Is(err, models.ErrAlreadyOn):
		return fmt.Sprintf("%s já está ligado.", v.Model()), notify.SeverityWarning
	case errors.Is(err, models.ErrAlreadyOff):
		return fmt.Sprintf("%s já está desligado.", v.Model()), notify.SeverityWarning
	case errors.Is(err, models.ErrMustStopFirst):
		return fmt.Sprintf("Pare o %s antes de desligar!", v.Model()), notify.SeverityError
	case errors.Is(err, models.ErrNotRunning):
		if verb == "turbo" {
			return fmt.Sprintf("Ligue o %s primeiro!", v.Model()), notify.SeverityError
		}
		return fmt.Sprintf("Ligue o %s para acelerar!", v.Model()), notify.SeverityError
	case errors.Is(err, models.ErrRunning):
		return fmt.Sprintf("Desligue o %s antes de %s.", v.Model(), verb), notify.SeverityError
	case errors.Is(err, models.ErrCargoFull):
		return fmt.Sprintf("%s já está cheio (Capacidade: %.0f kg).", v.Model(), v.CargoCapacity()), notify.SeverityWarning
	case errors.Is(err, models.ErrCargoEmpty):
		return fmt.Sprintf("%s já está vazio.", v.Model()), notify.SeverityWarning
	case errors.Is(err, models.ErrBlankColor):
		return "Por favor, insira um nome de cor válido.", notify.SeverityError
	case errors.Is(err, models.ErrMaintenanceNotSupported):
		return "Bicicletas não possuem registro de manutenção neste sistema.", notify.SeverityWarning
	case errors.Is(err, models.ErrInvalidMaintenance):
		return fmt.Sprintf("Erro ao adicionar manutenção para %s: Dados inválidos.", v.Model()), notify.SeverityError
	case errors.Is(err, models.ErrInvalidAmount):
		if verb != "" {
			return fmt.Sprintf("Quantidade inválida para %s.", verb), notify.SeverityError
		}
		return "Valor inválido.", notify.SeverityError
	case errors.Is(err, models.ErrNotApplicable):
		if v.Kind() == models.KindBicycle {
			if verb == "horn" {
				return "Bicicletas não têm buzina.", notify.SeverityWarning
			}
			return "Bicicletas não ligam.", notify.SeverityWarning
		}
		return fmt.Sprintf("Operação não disponível para %s.", v.Model()), notify.SeverityWarning
	default:
		return fmt.Sprintf("Erro inesperado em %s: %v", v.Model(), err), notify.SeverityError
	}
}
