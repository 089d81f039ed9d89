package service

import (
	"errors"
	"testing"

	"github.com/MKhiriev/go-cookie-sync/models"
	"github.com/stretchr/testify/assert"
)

func TestChanSink_DropsWhenFull(t *testing.T) {
	ch := make(chan models.StageMessage, 1)
	sink := NewChanSink(ch)

	sink.Emit(models.StageMessage{Stage: models.StageDumping})
	// канал полон: Emit не должен блокироваться
	sink.Emit(models.StageMessage{Stage: models.StageFiltering})

	assert.Equal(t, models.StageDumping, (<-ch).Stage)
	assert.Empty(t, ch)
}

func TestChanSink_NilChannel(t *testing.T) {
	sink := NewChanSink(nil)
	assert.NotPanics(t, func() { sink.Emit(models.StageMessage{Stage: models.StageDone}) })
}

func TestSinkFunc(t *testing.T) {
	var got []models.Stage
	sink := SinkFunc(func(m models.StageMessage) { got = append(got, m.Stage) })

	sink.Emit(models.StageMessage{Stage: models.StageDone})
	NopSink.Emit(models.StageMessage{Stage: models.StageError})

	assert.Equal(t, []models.Stage{models.StageDone}, got)
}

func TestStageError(t *testing.T) {
	cause := errors.New("boom")
	err := error(&StageError{Stage: models.StageFiltering, Err: cause})

	assert.Equal(t, "failed after filtering: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}
