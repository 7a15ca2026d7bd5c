package templatemodal

import (
	"reflect"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

var cmdType = reflect.TypeOf((*tea.Cmd)(nil)).Elem()

// Drive runs cmd and every command it produces against m without a
// terminal, until no work remains or the program quits. Commands run one at
// a time in the order produced; tea.Tick delays are waited out. Spinner
// ticks are dropped.
func Drive(m Model, cmd tea.Cmd) Model {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		msg := next()
		if cmds, ok := asCmds(msg); ok {
			queue = append(cmds, queue...)
			continue
		}
		switch msg.(type) {
		case nil, spinner.TickMsg:
		case tea.QuitMsg:
			return m
		default:
			updated, follow := m.Update(msg)
			m = updated.(Model)
			queue = append(queue, follow)
		}
	}
	return m
}

// asCmds unpacks batch and sequence messages, whose underlying type is a
// slice of commands
func asCmds(msg tea.Msg) ([]tea.Cmd, bool) {
	if msg == nil {
		return nil, false
	}
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Slice || v.Type().Elem() != cmdType {
		return nil, false
	}
	cmds := make([]tea.Cmd, v.Len())
	for i := range cmds {
		cmds[i], _ = v.Index(i).Interface().(tea.Cmd)
	}
	return cmds, true
}
