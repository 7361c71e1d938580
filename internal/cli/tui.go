package cli

import "github.com/ritualapp/ritual/internal/tui"

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	return tui.Run(ctx.Store)
}
