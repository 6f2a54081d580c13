package ws

import (
	"jokenpo/internal/domain"
	"jokenpo/internal/match"
)

// connView renders match events as websocket frames.
type connView struct {
	client *Client
}

var _ match.View = connView{}

func (v connView) Busy(busy bool) {
	v.client.push(MsgBusy, BusyPayload{Busy: busy})
}

func (v connView) Notify(n match.Notice) {
	v.client.push(MsgNotice, NoticePayload{Level: n.Level, Message: n.Message, TTLMs: n.TTL.Milliseconds()})
}

func (v connView) ClearNotices() {
	v.client.push(MsgNoticeClear, nil)
}

func (v connView) RevealFrame(f match.RevealFrame) {
	v.client.push(MsgReveal, f)
}

func (v connView) RoundCommitted(u match.RoundUpdate) {
	v.client.push(MsgRound, u)
}

func (v connView) MatchFinished(r match.FinalReport) {
	v.client.push(MsgFinal, r)
}

func (v connView) SessionReset(s match.Snapshot) {
	v.client.push(MsgReset, s)
}

func (v connView) StatsChanged(s domain.LifetimeStats) {
	v.client.push(MsgStats, s)
}
