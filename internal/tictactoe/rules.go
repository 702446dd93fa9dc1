package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-window/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-window/internal/entity"
)

// ApplyMove plays the next mark on cell and returns the resulting state.
// The input state is never modified. A win or a draw returns a fresh state;
// Result.Board still holds the grid as it was when the round ended.
func ApplyMove(state entity.State, cell entity.CellID, policy entity.DrawPolicy) (entity.State, entity.Result, error) {
	if err := validateMove(state, cell); err != nil {
		return state, entity.Result{}, fmt.Errorf("invalid move: %w", err)
	}

	next := state
	next.TurnCount++
	mark := entity.MarkForTurn(next.TurnCount)
	next.Board.Set(cell, mark)

	result := entity.Result{
		Outcome: entity.OutcomeContinue,
		Cell:    cell,
		Mark:    mark,
		Board:   next.Board,
	}

	if line, ok := winningLine(next.Board, mark, cell); ok {
		result.Outcome = entity.OutcomeWin
		result.Line = &line
		result.Next = entity.PlayerX

		return entity.NewState(), result, nil
	}

	if policy.IsDraw(next.TurnCount) {
		result.Outcome = entity.OutcomeDraw
		result.Next = entity.PlayerX

		return entity.NewState(), result, nil
	}

	result.Next = mark.Other()

	return next, result, nil
}

func validateMove(state entity.State, cell entity.CellID) error {
	if !cell.Valid() {
		return fmt.Errorf("%w: %s", apperror.ErrInvalidCell, cell)
	}

	if !state.Board.Enabled(cell) {
		return fmt.Errorf("%w: %s", apperror.ErrCellDisabled, cell)
	}

	return nil
}

// CheckWin reports whether symbol holds a full line through cell or either diagonal.
func CheckWin(board entity.Board, symbol entity.Mark, cell entity.CellID) bool {
	_, ok := winningLine(board, symbol, cell)
	return ok
}

// winningLine checks the column and the row of cell, then both diagonals
// whether or not cell lies on them.
func winningLine(board entity.Board, symbol entity.Mark, cell entity.CellID) (entity.Line, bool) {
	if symbol == entity.EmptyCell || !cell.Valid() {
		return entity.Line{}, false
	}

	row, column := cell.Row-1, cell.Column-1

	switch {
	case CheckColumn(board, symbol, column):
		return columnLine(column), true
	case CheckRow(board, symbol, row):
		return rowLine(row), true
	case CheckDiagonal1(board, symbol):
		return diagonal1Line(), true
	case CheckDiagonal2(board, symbol):
		return diagonal2Line(), true
	default:
		return entity.Line{}, false
	}
}

// CheckRow takes a 0-indexed row.
func CheckRow(board entity.Board, symbol entity.Mark, row int) bool {
	if row < 0 || row >= entity.BoardSize {
		return false
	}

	return lineHolds(board, symbol, rowLine(row))
}

// CheckColumn takes a 0-indexed column.
func CheckColumn(board entity.Board, symbol entity.Mark, column int) bool {
	if column < 0 || column >= entity.BoardSize {
		return false
	}

	return lineHolds(board, symbol, columnLine(column))
}

func CheckDiagonal1(board entity.Board, symbol entity.Mark) bool {
	return lineHolds(board, symbol, diagonal1Line())
}

func CheckDiagonal2(board entity.Board, symbol entity.Mark) bool {
	return lineHolds(board, symbol, diagonal2Line())
}

func lineHolds(board entity.Board, symbol entity.Mark, line entity.Line) bool {
	for _, cell := range line.Cells {
		mark := board.At(cell)
		if mark == entity.EmptyCell || mark != symbol {
			return false
		}
	}

	return true
}

func rowLine(row int) entity.Line {
	line := entity.Line{Kind: entity.LineRow}
	for i := range line.Cells {
		line.Cells[i] = entity.CellID{Row: row + 1, Column: i + 1}
	}

	return line
}

func columnLine(column int) entity.Line {
	line := entity.Line{Kind: entity.LineColumn}
	for i := range line.Cells {
		line.Cells[i] = entity.CellID{Row: i + 1, Column: column + 1}
	}

	return line
}

func diagonal1Line() entity.Line {
	line := entity.Line{Kind: entity.LineDiagonal1}
	for i := range line.Cells {
		line.Cells[i] = entity.CellID{Row: i + 1, Column: i + 1}
	}

	return line
}

func diagonal2Line() entity.Line {
	line := entity.Line{Kind: entity.LineDiagonal2}
	for i := range line.Cells {
		line.Cells[i] = entity.CellID{Row: i + 1, Column: entity.BoardSize - i}
	}

	return line
}
