// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"go.uber.org/zap/zapcore"
)

// NotificationGroup is a run of RP objects followed by the notifications
// that apply to those requests.
type NotificationGroup struct {
	RPs           []*RPObject
	Notifications []*NotificationObject
}

// PCNtf Message
type NotificationMessage struct {
	Groups []*NotificationGroup
}

func (m *NotificationMessage) MessageType() MessageType {
	return MessageTypeNotification
}

func (m *NotificationMessage) Objects() []Object {
	var objs []Object
	for _, g := range m.Groups {
		objs = append(objs, asObjects(g.RPs)...)
		objs = append(objs, asObjects(g.Notifications)...)
	}
	return objs
}

func (m *NotificationMessage) Serialize() ([]uint8, error) {
	return SerializeMessage(m)
}

func (m *NotificationMessage) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return marshalMessage(enc, m)
}

func NewNotificationMessage(notificationType, notificationValue uint8, rps ...*RPObject) *NotificationMessage {
	return &NotificationMessage{
		Groups: []*NotificationGroup{{
			RPs: rps,
			Notifications: []*NotificationObject{{
				NotificationType:  notificationType,
				NotificationValue: notificationValue,
			}},
		}},
	}
}

func parseNotificationMessage(s *objectStream) (Message, error) {
	if s.empty() {
		return nil, deserializeErrorf("Notification message cannot be empty.")
	}
	m := &NotificationMessage{}
	for !s.empty() {
		g := &NotificationGroup{}
		rejected := false
		runChain(s,
			custom(func(o Object) bool {
				rp, ok := o.(*RPObject)
				if !ok {
					return false
				}
				if !rp.ProcessingRule {
					s.addError(PCEPErrPFlagNotSet, rp)
					rejected = true
				}
				g.RPs = append(g.RPs, rp)
				return true
			}).repeated(),
			many(&g.Notifications),
		)
		if len(g.Notifications) == 0 {
			if len(g.RPs) > 0 {
				return nil, deserializeErrorf("RP objects are not followed by a NOTIFICATION object.")
			}
			break
		}
		if !rejected {
			m.Groups = append(m.Groups, g)
		}
	}
	if err := s.finish(); err != nil {
		return nil, err
	}
	if len(m.Groups) == 0 {
		if len(s.errs) > 0 {
			return nil, nil
		}
		return nil, deserializeErrorf("At least one Notifications is mandatory.")
	}
	return m, nil
}
