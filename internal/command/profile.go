package command

import (
	"encoding/json"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/freitascorp/pwcli/internal/envelope"
	"github.com/freitascorp/pwcli/internal/pwerr"
	"github.com/freitascorp/pwcli/internal/workspace"
)

func profilesRoot(ec *ExecContext) string {
	if ec.ProjectRoot == "" {
		return ""
	}
	return filepath.Join(ec.ProjectRoot, workspace.PlaywrightDir, workspace.StateVersionDir, "profiles")
}

// ProfileList enumerates per-namespace profile directories (profile.list).
var ProfileList = Define("profile.list", false, true,
	func(raw noArgs, ec *ExecContext) (noArgs, error) { return raw, nil },
	func(_ noArgs, ec *ExecContext) (Outcome, error) {
		root := profilesRoot(ec)
		var names []string
		if root != "" {
			entries, err := os.ReadDir(root)
			if err == nil {
				for _, e := range entries {
					if e.IsDir() {
						names = append(names, e.Name())
					}
				}
			}
		}
		out := envelope.New("profile.list").Data(map[string]any{"profiles": names})
		return Success(out, noDelta()), nil
	},
)

// ProfileNameRaw is the wire shape of profile.show / profile.delete.
type ProfileNameRaw struct {
	Name   string `json:"name"`
	Format string `json:"format,omitempty"`
}

// ProfileShow reports whether a namespace profile exists and its config
// (profile.show). Format defaults to the config file's own JSON; "yaml"
// re-renders the same document as YAML for operators who'd rather read or
// diff it that way.
var ProfileShow = Define("profile.show", false, true,
	func(raw ProfileNameRaw, ec *ExecContext) (ProfileNameRaw, error) {
		if raw.Name == "" {
			return raw, pwerr.New(pwerr.InvalidInput, "name is required")
		}
		raw.Name = workspace.NormalizeProfile(raw.Name)
		if raw.Format != "" && raw.Format != "json" && raw.Format != "yaml" {
			return raw, pwerr.New(pwerr.InvalidInput, "format must be json or yaml")
		}
		return raw, nil
	},
	func(r ProfileNameRaw, ec *ExecContext) (Outcome, error) {
		paths := workspace.New(ec.ProjectRoot, r.Name)
		configBytes, err := os.ReadFile(paths.ConfigFile)
		exists := err == nil

		rendered := string(configBytes)
		if exists && r.Format == "yaml" {
			var doc any
			if err := json.Unmarshal(configBytes, &doc); err != nil {
				return Outcome{}, pwerr.Wrap(pwerr.IOError, err)
			}
			yamlBytes, err := yaml.Marshal(doc)
			if err != nil {
				return Outcome{}, pwerr.Wrap(pwerr.InternalError, err)
			}
			rendered = string(yamlBytes)
		}

		out := envelope.New("profile.show").Data(map[string]any{
			"name": r.Name, "exists": exists, "configPath": paths.ConfigFile,
			"format": r.Format, "config": rendered,
		})
		return Success(out, noDelta()), nil
	},
)

// ProfileSetRaw is the wire shape of profile.set.
type ProfileSetRaw struct {
	Name   string `json:"name"`
	Config string `json:"config"`
}

// ProfileSet writes a namespace's effective config.json (profile.set).
var ProfileSet = Define("profile.set", false, true,
	func(raw ProfileSetRaw, ec *ExecContext) (ProfileSetRaw, error) {
		if raw.Name == "" {
			return raw, pwerr.New(pwerr.InvalidInput, "name is required")
		}
		raw.Name = workspace.NormalizeProfile(raw.Name)
		return raw, nil
	},
	func(r ProfileSetRaw, ec *ExecContext) (Outcome, error) {
		paths := workspace.New(ec.ProjectRoot, r.Name)
		if err := os.MkdirAll(filepath.Dir(paths.ConfigFile), 0o755); err != nil {
			return Outcome{}, pwerr.Wrap(pwerr.IOError, err)
		}
		if err := os.WriteFile(paths.ConfigFile, []byte(r.Config), 0o644); err != nil {
			return Outcome{}, pwerr.Wrap(pwerr.IOError, err)
		}
		out := envelope.New("profile.set").Data(map[string]any{"name": r.Name, "configPath": paths.ConfigFile})
		return Success(out, noDelta()), nil
	},
)

// ProfileDelete removes a namespace's profile directory (profile.delete).
var ProfileDelete = Define("profile.delete", false, true,
	func(raw ProfileNameRaw, ec *ExecContext) (ProfileNameRaw, error) {
		if raw.Name == "" {
			return raw, pwerr.New(pwerr.InvalidInput, "name is required")
		}
		raw.Name = workspace.NormalizeProfile(raw.Name)
		return raw, nil
	},
	func(r ProfileNameRaw, ec *ExecContext) (Outcome, error) {
		paths := workspace.New(ec.ProjectRoot, r.Name)
		if paths.ProfileDir == "" {
			return Outcome{}, pwerr.New(pwerr.InvalidInput, "no project root; profiles are project-scoped")
		}
		if err := os.RemoveAll(paths.ProfileDir); err != nil {
			return Outcome{}, pwerr.Wrap(pwerr.IOError, err)
		}
		out := envelope.New("profile.delete").Data(map[string]any{"name": r.Name, "deleted": true})
		return Success(out, noDelta()), nil
	},
)
