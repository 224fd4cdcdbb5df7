package model

type GameStatus string

const (
	GamePending GameStatus = "pending"
	GameActive  GameStatus = "active"
	GameFinal   GameStatus = "final"
)

func (s GameStatus) IsValid() bool {
	switch s {
	case GamePending, GameActive, GameFinal:
		return true
	}
	return false
}
