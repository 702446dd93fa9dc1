package entity

type Mark string

const (
	PlayerX Mark = "X"
	PlayerO Mark = "O"

	EmptyCell Mark = ""
)

// MarkForTurn maps a turn counter value, taken after the increment, to the
// mark placed on that turn. Odd turns belong to X.
func MarkForTurn(turnCount int) Mark {
	if turnCount%2 == 0 {
		return PlayerO
	}

	return PlayerX
}

func (that Mark) Other() Mark {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

// Label is the name shown on the turn indicator.
func (that Mark) Label() string {
	switch that {
	case PlayerX:
		return "Player 1"
	case PlayerO:
		return "Player 2"
	default:
		return ""
	}
}
