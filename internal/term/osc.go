package term

// osc.go implements Consumer.oscDispatch. Only the window-title OSCs (0, 2)
// are interpreted; everything else is accepted and discarded — the host
// process, not the grid, owns things like hyperlinks or clipboard OSCs
// (§4.2 "OSC dispatch").
func (g *Grid) oscDispatch(params []string) {
	if len(params) < 2 {
		return
	}
	switch params[0] {
	case "0", "2":
		g.Title = params[1]
	}
}
