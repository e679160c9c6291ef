package message

import (
	"encoding/json"
)

const (
	TypeGameResult         = "GAME_RESULT"
	TypeGameResultRecorded = "GAME_RESULT_RECORDED"
	TypePlayerStats        = "PLAYER_STATS"
	TypeError              = "ERROR"
)

type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type GameResultPayload struct {
	Player1 string  `json:"player1"`
	Player2 string  `json:"player2"`
	Winner  *string `json:"winner"`
}

type GameResultRecordedPayload struct {
	Outcome  string `json:"outcome"`
	Recorded bool   `json:"recorded"`
}

type PlayerStatsRequestPayload struct {
	Username string `json:"username"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
