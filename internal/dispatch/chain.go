package dispatch

import (
	"github.com/vyrodovalexey/avaweb/internal/controller"
	"github.com/vyrodovalexey/avaweb/internal/filter"
)

// Execute runs action inside chain.
//
// Before hooks run in chain order and the first error stops the request.
// Filters implementing filter.Around wrap the action, the first filter being
// the outermost. After hooks run in reverse order. When anything fails,
// OnException is called in reverse order on every filter whose Before was
// invoked, including the one that failed.
func Execute(c *controller.Context, chain []filter.Filter, action controller.Action) (err error) {
	invoked := 0
	defer func() {
		if err == nil {
			return
		}
		for i := invoked - 1; i >= 0; i-- {
			chain[i].OnException(c, err)
		}
	}()

	for _, f := range chain {
		invoked++
		if err = f.Before(c); err != nil {
			return err
		}
	}

	call := func() error {
		return action(c.Controller, c)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		around, ok := chain[i].(filter.Around)
		if !ok {
			continue
		}
		next := call
		call = func() error {
			return around.Around(c, next)
		}
	}

	if err = call(); err != nil {
		return err
	}

	for i := len(chain) - 1; i >= 0; i-- {
		if err = chain[i].After(c); err != nil {
			return err
		}
	}
	return nil
}
