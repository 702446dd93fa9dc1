package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-window/internal/apperror"
)

const (
	BoardSize = 3
	CellCount = BoardSize * BoardSize
)

type Outcome string

const (
	OutcomeContinue Outcome = "continue"
	OutcomeWin      Outcome = "win"
	OutcomeDraw     Outcome = "draw"
)

type DrawPolicy string

const (
	// DrawPolicyFixed announces a tie once the ninth move leaves no winner.
	DrawPolicyFixed DrawPolicy = "fixed"
	// DrawPolicyLegacy only announces a tie after a tenth move, which a 3x3
	// board can never produce. A full board without a winner stays full.
	DrawPolicyLegacy DrawPolicy = "legacy"
)

func ParseDrawPolicy(value string) (DrawPolicy, error) {
	switch policy := DrawPolicy(strings.ToLower(strings.TrimSpace(value))); policy {
	case DrawPolicyFixed, DrawPolicyLegacy:
		return policy, nil
	case "":
		return DrawPolicyFixed, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrUnknownDrawPolicy, value)
	}
}

// IsDraw reports whether a move that did not win ends the round.
func (that DrawPolicy) IsDraw(turnCount int) bool {
	if that == DrawPolicyLegacy {
		return turnCount > CellCount
	}

	return turnCount >= CellCount
}

// CellID addresses a cell by its 1-indexed row and column.
type CellID struct {
	Row    int
	Column int
}

func NewCellID(row, column int) (CellID, error) {
	cell := CellID{Row: row, Column: column}
	if !cell.Valid() {
		return CellID{}, fmt.Errorf("%w: row %d column %d", apperror.ErrInvalidCell, row, column)
	}

	return cell, nil
}

// ParseCellID accepts "11".."33" and any form whose digits spell a row and a
// column, e.g. "2 3", "2,3", "r2c3" or "Btn23".
func ParseCellID(value string) (CellID, error) {
	var digits []int
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}

	if len(digits) != 2 {
		return CellID{}, fmt.Errorf("%w: %q", apperror.ErrInvalidCell, value)
	}

	return NewCellID(digits[0], digits[1])
}

func (that CellID) Valid() bool {
	return that.Row >= 1 && that.Row <= BoardSize && that.Column >= 1 && that.Column <= BoardSize
}

func (that CellID) String() string {
	return fmt.Sprintf("%d%d", that.Row, that.Column)
}

// AllCells lists the cells row by row.
func AllCells() []CellID {
	cells := make([]CellID, 0, CellCount)
	for row := 1; row <= BoardSize; row++ {
		for column := 1; column <= BoardSize; column++ {
			cells = append(cells, CellID{Row: row, Column: column})
		}
	}

	return cells
}

type Board [BoardSize][BoardSize]Mark

func (that Board) At(cell CellID) Mark {
	return that[cell.Row-1][cell.Column-1]
}

func (that *Board) Set(cell CellID, mark Mark) {
	that[cell.Row-1][cell.Column-1] = mark
}

// Enabled reports whether the cell can still be activated.
func (that Board) Enabled(cell CellID) bool {
	return that.At(cell) == EmptyCell
}

func (that Board) Filled() int {
	filled := 0
	for _, row := range that {
		for _, mark := range row {
			if mark != EmptyCell {
				filled++
			}
		}
	}

	return filled
}

// State is the whole game: the grid and the number of moves since the last reset.
type State struct {
	Board     Board
	TurnCount int
}

func NewState() State {
	return State{}
}

// NextMark is the mark the next activation will place.
func (that State) NextMark() Mark {
	return MarkForTurn(that.TurnCount + 1)
}

type LineKind string

const (
	LineRow       LineKind = "row"
	LineColumn    LineKind = "column"
	LineDiagonal1 LineKind = "diagonal1"
	LineDiagonal2 LineKind = "diagonal2"
)

type Line struct {
	Kind  LineKind
	Cells [BoardSize]CellID
}

func (that Line) Contains(cell CellID) bool {
	for _, c := range that.Cells {
		if c == cell {
			return true
		}
	}

	return false
}

// Result describes what a single activation did.
type Result struct {
	Outcome Outcome
	Cell    CellID
	Mark    Mark
	// Board is the grid right after the mark was placed, before any reset.
	Board Board
	// Line is set when Outcome is OutcomeWin.
	Line *Line
	// Next is the player whose indicator is shown after the move.
	Next Mark
}

func (that Result) Finished() bool {
	return that.Outcome == OutcomeWin || that.Outcome == OutcomeDraw
}
