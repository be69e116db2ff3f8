package service

import (
	"context"
	"errors"
	"time"

	"gift-gap/config"
	"gift-gap/logger"
)

const (
	ReasonSendFailed      = "send_failed"
	ReasonTimeout         = "timeout"
	ReasonReceiverMissing = "receiver_missing"
)

// NotifyPayload carries what a giver needs to know about their receiver.
type NotifyPayload struct {
	ReceiverName string
	Wish         string
	Comment      string
	Redraw       bool
}

// SendFunc delivers one assignment message to the giver's chat.
type SendFunc func(ctx context.Context, giverId int64, payload NotifyPayload) error

type DeliveryFailure struct {
	GiverId int64  `json:"giverId"`
	Reason  string `json:"reason"`
}

// DeliveryReport summarizes one dispatch round. Attempted always equals
// Succeeded plus the number of failures.
type DeliveryReport struct {
	Attempted int               `json:"attempted"`
	Succeeded int               `json:"succeeded"`
	Failed    []DeliveryFailure `json:"failed"`
}

type DispatchService struct {
	participantService ParticipantService

	// SendTimeout bounds each individual send. Zero means the configured
	// default.
	SendTimeout time.Duration
}

// NotifyAll sends each giver their assignment, one pair at a time. A failed
// or missing receiver never aborts the round: the failure is recorded and the
// remaining pairs are still attempted. Only cancellation of ctx stops early.
func (s *DispatchService) NotifyAll(ctx context.Context, pairs []Pair, redraw bool, send SendFunc) (*DeliveryReport, error) {
	timeout := s.SendTimeout
	if timeout <= 0 {
		timeout = config.GetSendTimeout()
	}

	report := &DeliveryReport{Failed: []DeliveryFailure{}}
	for _, pair := range pairs {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		report.Attempted++

		receiver, err := s.participantService.Get(pair.ReceiverId)
		if err != nil {
			return report, err
		}
		if receiver == nil {
			logger.Warningf("dispatch: receiver %d for giver %d is gone", pair.ReceiverId, pair.GiverId)
			report.Failed = append(report.Failed, DeliveryFailure{GiverId: pair.GiverId, Reason: ReasonReceiverMissing})
			continue
		}

		payload := NotifyPayload{
			ReceiverName: receiver.Name,
			Wish:         receiver.Wish,
			Comment:      receiver.Comment,
			Redraw:       redraw,
		}

		sendCtx, cancel := context.WithTimeout(ctx, timeout)
		err = send(sendCtx, pair.GiverId, payload)
		cancel()
		if err != nil {
			reason := ReasonSendFailed
			if errors.Is(err, context.DeadlineExceeded) {
				reason = ReasonTimeout
			}
			logger.Warningf("dispatch: send to %d failed: %v", pair.GiverId, err)
			report.Failed = append(report.Failed, DeliveryFailure{GiverId: pair.GiverId, Reason: reason})
			continue
		}
		report.Succeeded++
	}
	return report, nil
}
