// Package catalog implements C8: the single declarative table of every
// command this CLI knows, and the lookup/dispatch/CLI-adapter functions
// built from it. A command's absence from this table means it does not
// exist anywhere else in the system — there is no secondary registration
// point (spec.md §4.8).
package catalog

import (
	"encoding/json"

	"github.com/freitascorp/pwcli/internal/command"
	"github.com/freitascorp/pwcli/internal/envelope"
	"github.com/freitascorp/pwcli/internal/pwerr"
)

// ID identifies a catalog entry. Stable for a given build; not persisted.
type ID int

// entry is one row of the catalog table: (id implicit via slice index,
// definition, names[primary, alias...], interactive_only/batch_enabled
// carried on the Definition itself).
type entry struct {
	def   command.Definition
	names []string // names[0] is canonical
}

var entries = []entry{
	{def: command.Navigate, names: []string{"navigate", "goto"}},
	{def: command.Click, names: []string{"click"}},
	{def: command.Fill, names: []string{"fill", "type"}},
	{def: command.Wait, names: []string{"wait"}},
	{def: command.Screenshot, names: []string{"screenshot"}},
	{def: command.PageText, names: []string{"page.text"}},
	{def: command.PageHTML, names: []string{"page.html"}},
	{def: command.PageEval, names: []string{"page.eval"}},
	{def: command.PageConsole, names: []string{"page.console"}},
	{def: command.PageRead, names: []string{"page.read"}},
	{def: command.PageElements, names: []string{"page.elements"}},
	{def: command.PageSnapshot, names: []string{"page.snapshot"}},
	{def: command.PageCoords, names: []string{"page.coords"}},
	{def: command.PageCoordsAll, names: []string{"page.coords-all"}},
	{def: command.AuthLogin, names: []string{"auth.login"}},
	{def: command.AuthCookies, names: []string{"auth.cookies"}},
	{def: command.AuthShow, names: []string{"auth.show"}},
	{def: command.AuthListen, names: []string{"auth.listen"}},
	{def: command.SessionStatus, names: []string{"session.status"}},
	{def: command.SessionClear, names: []string{"session.clear"}},
	{def: command.SessionStart, names: []string{"session.start"}},
	{def: command.SessionStop, names: []string{"session.stop"}},
	{def: command.DaemonStart, names: []string{"daemon.start"}},
	{def: command.DaemonStop, names: []string{"daemon.stop"}},
	{def: command.DaemonStatus, names: []string{"daemon.status"}},
	{def: command.TabsList, names: []string{"tabs.list"}},
	{def: command.TabsSwitch, names: []string{"tabs.switch"}},
	{def: command.TabsClose, names: []string{"tabs.close"}},
	{def: command.TabsNew, names: []string{"tabs.new"}},
	{def: command.ProtectAdd, names: []string{"protect.add"}},
	{def: command.ProtectRemove, names: []string{"protect.remove"}},
	{def: command.ProtectList, names: []string{"protect.list"}},
	{def: command.HarSet, names: []string{"har.set"}},
	{def: command.HarShow, names: []string{"har.show"}},
	{def: command.HarClear, names: []string{"har.clear"}},
	{def: command.Connect, names: []string{"connect"}},
	{def: command.ProfileList, names: []string{"profile.list"}},
	{def: command.ProfileShow, names: []string{"profile.show"}},
	{def: command.ProfileSet, names: []string{"profile.set"}},
	{def: command.ProfileDelete, names: []string{"profile.delete"}},
	{def: command.Init, names: []string{"init"}},
	{def: command.Quit, names: []string{"quit"}},
}

var byName = buildIndex()

func buildIndex() map[string]ID {
	idx := make(map[string]ID, len(entries)*2)
	for i, e := range entries {
		for _, n := range e.names {
			idx[n] = ID(i)
		}
	}
	return idx
}

// Lookup matches a command name (or alias) exactly. An unmatched name is
// the caller's cue to surface unknown-command (batch) or a CLI usage error.
func Lookup(name string) (ID, bool) {
	id, ok := byName[name]
	return id, ok
}

// Name returns the canonical (first) name for id.
func Name(id ID) string {
	if int(id) < 0 || int(id) >= len(entries) {
		return ""
	}
	return entries[id].names[0]
}

// Run enforces mode gating, deserializes argsJSON, then resolves and
// executes the command, tagging the outcome with its canonical name
// (spec.md §4.8 step 4).
func Run(id ID, argsJSON json.RawMessage, hasCdp bool, ec *command.ExecContext) command.Outcome {
	if int(id) < 0 || int(id) >= len(entries) {
		return errOutcome("unknown", pwerr.New(pwerr.InvalidInput, "unknown command id"))
	}
	e := entries[id]
	ec.HasCdp = hasCdp

	if err := e.def.ValidateMode(argsJSON, ec.Mode); err != nil {
		return errOutcome(e.names[0], err)
	}
	return e.def.Run(ec, argsJSON)
}

func errOutcome(name string, err error) command.Outcome {
	coded := pwerr.Wrap(pwerr.InternalError, err)
	return command.Outcome{Envelope: envelope.New(name).ErrorFrom(coded).Build()}
}

// PassthroughCLIVariants names CLI sub-variants handled outside the
// registry entirely (spec.md §4.8 step 5): they have no batch-loop
// equivalent and no catalog entry.
var PassthroughCLIVariants = []string{"run", "relay", "test"}
