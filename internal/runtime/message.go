package runtime

import "blesync/internal/domain"

// Message is the tagged union of mailbox messages (§4.6).
type Message struct {
	Kind  MessageKind
	Event domain.Event // only for MsgDomainEvent
}

func StartMessage() Message             { return Message{Kind: MsgStart} }
func DomainEventMessage(e domain.Event) Message { return Message{Kind: MsgDomainEvent, Event: e} }
func TimerFiredMessage() Message        { return Message{Kind: MsgTimerFired} }
func StopMessage() Message              { return Message{Kind: MsgStop} }
