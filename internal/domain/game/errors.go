package game

import "github.com/andrescamacho/railbot-go/internal/domain/shared"

func errTrainBusy(trainID int) error {
	return shared.NewTrainBusyError(trainID)
}
