package entity

const (
	MessageGameCreated  = "game_created"
	MessagePlayerJoined = "player_joined"
	MessageMoveMade     = "move_made"
)

// Message - a cross-chain notification about a state change. Delivery is
// at-least-once, so consumers must apply messages idempotently.
type Message struct {
	Type    string `json:"type"`
	GameID  uint64 `json:"game_id"`
	ChainID string `json:"chain_id"`
	Player  string `json:"player,omitempty"`
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	// MoveCount is the ordinal of the move within its game, starting at 1.
	MoveCount int    `json:"move_count,omitempty"`
	Status    string `json:"status,omitempty"`
}

func NewGameCreatedMessage(game *Game) Message {
	return Message{
		Type:    MessageGameCreated,
		GameID:  game.ID,
		ChainID: game.ChainID,
		Player:  game.PlayerX,
	}
}

func NewPlayerJoinedMessage(game *Game, player string) Message {
	return Message{
		Type:    MessagePlayerJoined,
		GameID:  game.ID,
		ChainID: game.ChainID,
		Player:  player,
	}
}

func NewMoveMadeMessage(game *Game, player string, row, col int) Message {
	return Message{
		Type:      MessageMoveMade,
		GameID:    game.ID,
		ChainID:   game.ChainID,
		Player:    player,
		Row:       row,
		Col:       col,
		MoveCount: game.Moves,
		Status:    game.Status,
	}
}
