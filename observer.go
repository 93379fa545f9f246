// SPDX-License-Identifier: MIT
package groupstream

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"

	"gitlab.com/fisherprime/groupstream/lexer"
)

type (
	// Step is a snapshot of the Parser's state after handling an Item.
	Step struct {
		Item lexer.Item

		// Opened references the Group opened by this Step, nil otherwise.
		Opened *Group

		Depth      int
		Garbage    int
		InGarbage  bool
		JustClosed bool
	}

	// Observer receives every Step of a Parse call.
	//
	// Observers shared by concurrent Parse calls must synchronize themselves.
	Observer interface {
		Observe(Step)
	}

	// ObserverFunc adapts a function to the Observer interface.
	ObserverFunc func(Step)
)

// Observe calls f(s).
func (f ObserverFunc) Observe(s Step) { f(s) }

// NewLogObserver traces Steps at the debug level.
func NewLogObserver(logger logrus.FieldLogger) Observer {
	return ObserverFunc(func(s Step) {
		entry := logger.WithFields(logrus.Fields{
			"pos":        s.Item.Pos,
			"rune":       string(s.Item.Val),
			"cancelled":  s.Item.Cancelled,
			"depth":      s.Depth,
			"in_garbage": s.InGarbage,
			"closed":     s.JustClosed,
			"garbage":    s.Garbage,
		})

		if s.Opened != nil {
			entry.Debugf("opened %s", spew.Sprint(*s.Opened))
			return
		}
		entry.Debug("step")
	})
}
