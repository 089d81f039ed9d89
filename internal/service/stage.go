// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"

	"github.com/MKhiriev/go-cookie-sync/models"
)

// StageSink receives stage transitions of a sync run. Emit must not block.
type StageSink interface {
	Emit(msg models.StageMessage)
}

// SinkFunc adapts a function to [StageSink].
type SinkFunc func(models.StageMessage)

// Emit implements [StageSink].
func (f SinkFunc) Emit(msg models.StageMessage) { f(msg) }

type nopSink struct{}

func (nopSink) Emit(models.StageMessage) {}

// NopSink discards every message.
var NopSink StageSink = nopSink{}

type chanSink struct {
	ch chan<- models.StageMessage
}

// NewChanSink returns a sink writing to ch. When ch is full the message is
// dropped, so a slow or absent reader never stalls a sync.
func NewChanSink(ch chan<- models.StageMessage) StageSink {
	return chanSink{ch: ch}
}

func (s chanSink) Emit(msg models.StageMessage) {
	select {
	case s.ch <- msg:
	default:
	}
}

// StageError is a sync failure tagged with the last stage that was entered
// before it happened.
type StageError struct {
	Stage models.Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("failed after %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
