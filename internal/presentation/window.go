package presentation

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-window/internal/entity"
	"github.com/rocketscienceinc/tictactoe-window/internal/tictactoe"
)

const helpText = "enter a cell as row and column (11..33), \"reset\" or \"quit\""

type controller interface {
	OnCellActivated(cell entity.CellID) (entity.Result, error)
	Reset()
	State() entity.State
	Indicator() entity.Mark
	Subscribe(l tictactoe.Listener) func()
}

// Window is a terminal rendition of the game window: nine cells, one turn
// indicator per player and a notification line for wins and ties.
type Window struct {
	logger *slog.Logger
	ctrl   controller
	output *termenv.Output

	clearScreen bool

	board     entity.Board
	indicator entity.Mark
	notice    string
	status    string
	// final is the board that ended the previous round, shown with the notice.
	final     *entity.Board
	highlight *entity.Line
}

type Option func(*Window)

// WithClearScreen redraws the window in place instead of appending to the terminal.
func WithClearScreen(enabled bool) Option {
	return func(w *Window) {
		w.clearScreen = enabled
	}
}

func NewWindow(logger *slog.Logger, ctrl controller, output *termenv.Output, opts ...Option) *Window {
	state := ctrl.State()

	window := &Window{
		logger:    logger.With("component", "window"),
		ctrl:      ctrl,
		output:    output,
		board:     state.Board,
		indicator: ctrl.Indicator(),
		status:    helpText,
	}

	for _, opt := range opts {
		opt(window)
	}

	return window
}

// Run draws the window and handles one input line at a time until the input
// ends, the user quits or ctx is canceled.
func (that *Window) Run(ctx context.Context, in io.Reader) error {
	unsubscribe := that.ctrl.Subscribe(that.HandleEvent)
	defer unsubscribe()

	lines := make(chan string)
	scanErr := make(chan error, 1)

	// The reader goroutine exits on EOF, on a read error or when ctx ends
	// while it waits to hand over a line. A read blocked inside in is only
	// released when in is an io.Closer, which Run closes on cancel.
	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				scanErr <- nil
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	if err := that.draw(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			if closer, ok := in.(io.Closer); ok {
				if err := closer.Close(); err != nil {
					that.logger.Debug("could not close input", "error", err)
				}
			}

			that.logger.Info("window closed", "reason", ctx.Err())
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}

				that.logger.Info("window closed", "reason", "end of input")
				return nil
			}

			if quit := that.HandleInput(line); quit {
				that.logger.Info("window closed", "reason", "quit")
				return nil
			}

			if err := that.draw(); err != nil {
				return err
			}
		}
	}
}

// HandleInput applies one line of user input and reports whether the user asked to quit.
func (that *Window) HandleInput(line string) bool {
	that.notice = ""
	that.final = nil
	that.highlight = nil
	that.status = ""

	command := strings.ToLower(strings.TrimSpace(line))
	switch command {
	case "":
		return false
	case "q", "quit", "exit":
		return true
	case "r", "reset":
		that.ctrl.Reset()
		return false
	case "h", "help", "?":
		that.status = helpText
		return false
	}

	cell, err := entity.ParseCellID(command)
	if err != nil {
		that.status = fmt.Sprintf("unknown input %q, %s", line, helpText)
		return false
	}

	if _, err = that.ctrl.OnCellActivated(cell); err != nil {
		that.status = fmt.Sprintf("cell %s cannot be played: %s", cell, unwrapAll(err))
		that.logger.Debug("activation failed", "cell", cell.String(), "error", err)
	}

	return false
}

// HandleEvent keeps the rendered widgets in line with the controller.
func (that *Window) HandleEvent(event tictactoe.Event) {
	switch event.Kind {
	case tictactoe.EventMarkPlaced, tictactoe.EventIndicatorChanged:
		that.board = event.State.Board
		that.indicator = event.Indicator
	case tictactoe.EventWin:
		final := event.Result.Board
		that.notice = event.Message
		that.final = &final
		that.highlight = event.Result.Line
		that.status = fmt.Sprintf("%s (%s) wins, the board was reset", event.Result.Mark.Label(), event.Result.Mark)
		that.logger.Info("win shown", "player", string(event.Result.Mark))
	case tictactoe.EventDraw:
		final := event.Result.Board
		that.notice = event.Message
		that.final = &final
		that.status = "nobody wins, the board was reset"
	case tictactoe.EventReset:
		that.board = event.State.Board
		that.indicator = event.Indicator
	}
}

// Render returns the window as text.
func (that *Window) Render() string {
	var sb strings.Builder

	sb.WriteString(that.renderIndicators())
	sb.WriteString("\n\n")
	sb.WriteString(that.renderBoard(that.board, nil))
	sb.WriteString("\n")

	if that.notice != "" {
		sb.WriteString(that.renderNotice())
		sb.WriteString("\n")
	}

	if that.final != nil {
		sb.WriteString(that.renderBoard(*that.final, that.highlight))
		sb.WriteString("\n")
	}

	if that.status != "" {
		sb.WriteString(that.output.String(that.status).Faint().String())
		sb.WriteString("\n")
	}

	sb.WriteString("> ")

	return sb.String()
}

func (that *Window) draw() error {
	if that.clearScreen {
		that.output.ClearScreen()
		that.output.MoveCursor(1, 1)
	}

	if _, err := io.WriteString(that.output, that.Render()); err != nil {
		return fmt.Errorf("failed to draw window: %w", err)
	}

	return nil
}

// renderIndicators keeps the hidden indicator's width so the layout does not shift.
func (that *Window) renderIndicators() string {
	labels := make([]string, 0, 2)
	for _, mark := range []entity.Mark{entity.PlayerX, entity.PlayerO} {
		label := fmt.Sprintf("%s (%s)", mark.Label(), mark)
		if mark != that.indicator {
			labels = append(labels, strings.Repeat(" ", len(label)))
			continue
		}

		labels = append(labels, that.markStyle(mark, label).Bold().String())
	}

	return strings.TrimRight(strings.Join(labels, "   "), " ")
}

func (that *Window) renderBoard(board entity.Board, highlight *entity.Line) string {
	var sb strings.Builder

	sb.WriteString("     1   2   3\n")
	for row := 1; row <= entity.BoardSize; row++ {
		cells := make([]string, 0, entity.BoardSize)
		for column := 1; column <= entity.BoardSize; column++ {
			cells = append(cells, that.renderCell(board, entity.CellID{Row: row, Column: column}, highlight))
		}

		fmt.Fprintf(&sb, "  %d  %s\n", row, strings.Join(cells, " | "))
		if row < entity.BoardSize {
			sb.WriteString("    ---+---+---\n")
		}
	}

	return sb.String()
}

func (that *Window) renderCell(board entity.Board, cell entity.CellID, highlight *entity.Line) string {
	mark := board.At(cell)
	if mark == entity.EmptyCell {
		return that.output.String("·").Faint().String()
	}

	style := that.markStyle(mark, string(mark))
	if highlight != nil && highlight.Contains(cell) {
		style = style.Underline()
	}

	return style.String()
}

func (that *Window) renderNotice() string {
	border := "+" + strings.Repeat("-", len(that.notice)+2) + "+"
	body := "| " + that.output.String(that.notice).Bold().String() + " |"

	return border + "\n" + body + "\n" + border
}

func (that *Window) markStyle(mark entity.Mark, text string) termenv.Style {
	style := that.output.String(text)

	switch mark {
	case entity.PlayerX:
		return style.Foreground(that.output.Color("#E88388"))
	case entity.PlayerO:
		return style.Foreground(that.output.Color("#71BEF2"))
	default:
		return style
	}
}

// unwrapAll returns the innermost error text for the status line.
func unwrapAll(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
