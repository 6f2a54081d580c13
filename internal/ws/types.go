package ws

const (
	// client - server
	MsgMove  = "move"
	MsgReset = "reset"
	MsgMusic = "music"
	MsgPing  = "ping"

	// server - client; "reset" is echoed back with the fresh snapshot
	MsgReady       = "ready"
	MsgBusy        = "busy"
	MsgNotice      = "notice"
	MsgNoticeClear = "notice_clear"
	MsgReveal      = "reveal"
	MsgRound       = "round"
	MsgFinal       = "final"
	MsgStats       = "stats"
	MsgError       = "error"
	MsgPong        = "pong"
)
