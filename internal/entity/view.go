package entity

// GameView - the read-only projection served by the query layer.
type GameView struct {
	ID            uint64                       `json:"id"`
	PlayerX       string                       `json:"player_x"`
	PlayerO       string                       `json:"player_o,omitempty"`
	Board         [BoardSize][BoardSize]string `json:"board"`
	CurrentPlayer string                       `json:"current_player,omitempty"`
	Status        string                       `json:"status"`
	Winner        string                       `json:"winner,omitempty"`
	ChainID       string                       `json:"chain_id"`
}

func (that *Game) View() GameView {
	return GameView{
		ID:            that.ID,
		PlayerX:       that.PlayerX,
		PlayerO:       that.PlayerO,
		Board:         that.Board,
		CurrentPlayer: that.Turn,
		Status:        that.Status,
		Winner:        that.Winner,
		ChainID:       that.ChainID,
	}
}

// Stats - aggregate game counts; waiting + active + completed == total.
type Stats struct {
	TotalGames     int `json:"total_games"`
	WaitingGames   int `json:"waiting_games"`
	ActiveGames    int `json:"active_games"`
	CompletedGames int `json:"completed_games"`
}
