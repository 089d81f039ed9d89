package tui

import (
	"github.com/MKhiriev/go-cookie-sync/models"
)

type stageMsg models.StageMessage

type syncDoneMsg struct {
	report models.SyncReport
	err    error
}

// stagesClosedMsg is sent once the stage channel is drained and closed.
type stagesClosedMsg struct{}
