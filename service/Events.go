// Copyright 2024-2025 Maykin Media
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"time"

	"github.com/maykinmedia/archiefbeheer/view"
	log "github.com/sirupsen/logrus"
)

// ListEvent is emitted on every destruction list status transition. The audit
// log and notification mail collaborators consume these; the engine itself
// only publishes.
type ListEvent struct {
	ListUuid string          `json:"listUuid"`
	Action   string          `json:"action"`
	Actor    string          `json:"actor"`
	From     view.ListStatus `json:"from"`
	To       view.ListStatus `json:"to"`
	At       time.Time       `json:"at"`
}

type EventPublisher interface {
	PublishListEvent(event ListEvent)
}

// NewLogEventPublisher returns the default publisher, which writes events to
// the structured log where the audit collaborator tails them.
func NewLogEventPublisher() EventPublisher {
	return &logEventPublisher{}
}

type logEventPublisher struct{}

func (p *logEventPublisher) PublishListEvent(event ListEvent) {
	log.WithFields(log.Fields{
		"listUuid": event.ListUuid,
		"action":   event.Action,
		"actor":    event.Actor,
		"from":     event.From,
		"to":       event.To,
	}).Info("Destruction list transition")
}
