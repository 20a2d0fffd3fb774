package command

import "github.com/freitascorp/pwcli/internal/contextstore"

func noDelta() contextstore.ContextDelta {
	return contextstore.ContextDelta{}
}

func contextstoreSelectorDelta(selector string) contextstore.ContextDelta {
	return contextstore.ContextDelta{Selector: &selector}
}
