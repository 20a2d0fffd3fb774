// Package sessionmgr implements C6: the session acquisition state machine
// described in spec.md §4.6, ported from the original's
// crates/cli/src/session/{manager,spec,repository,daemon_lease}.rs.
package sessionmgr

// PrimaryStrategy is the fallback acquisition path chosen when descriptor
// reuse and daemon leasing are unavailable or disabled.
type PrimaryStrategy int

const (
	AttachCdp PrimaryStrategy = iota
	PersistentDebug
	LaunchServer
	FreshLaunch
)

func (p PrimaryStrategy) String() string {
	switch p {
	case AttachCdp:
		return "attach-cdp"
	case PersistentDebug:
		return "persistent-debug"
	case LaunchServer:
		return "launch-server"
	default:
		return "fresh-launch"
	}
}

// Strategy is the triple produced by ResolveStrategy.
type Strategy struct {
	TryDescriptorReuse bool
	TryDaemonLease     bool
	Primary            PrimaryStrategy
}

// StrategyInput bundles every input ResolveStrategy reads. It carries no
// side-channel state; the same input always yields the same Strategy
// (spec.md §8 property 9).
type StrategyInput struct {
	HasDescriptorPath     bool
	Refresh               bool
	NoDaemon              bool
	CdpEndpoint           string
	RemoteDebuggingPort   int
	LaunchServerRequested bool
}

// ResolveStrategy is a pure function mirroring spec.md §4.6's pseudocode
// exactly: descriptor reuse is tried unless refreshing or no descriptor
// path exists; daemon leasing is tried unless disabled or an explicit CDP
// endpoint was given; the primary path is chosen by the first applicable
// of attach-cdp, persistent-debug, launch-server, fresh-launch.
func ResolveStrategy(in StrategyInput) Strategy {
	tryDescriptorReuse := !in.Refresh && in.HasDescriptorPath
	tryDaemonLease := !in.NoDaemon && in.CdpEndpoint == ""

	var primary PrimaryStrategy
	switch {
	case in.CdpEndpoint != "":
		primary = AttachCdp
	case in.RemoteDebuggingPort > 0:
		primary = PersistentDebug
	case in.LaunchServerRequested:
		primary = LaunchServer
	default:
		primary = FreshLaunch
	}

	return Strategy{
		TryDescriptorReuse: tryDescriptorReuse,
		TryDaemonLease:     tryDaemonLease,
		Primary:            primary,
	}
}
