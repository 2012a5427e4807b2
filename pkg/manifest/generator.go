package manifest

import (
	"fmt"
	"strings"

	"github.com/openbrine/brine/pkg/artifacts"
	"github.com/openbrine/brine/pkg/brinefile"
)

// Default modes applied when a %files or %directories line does not pin
// one explicitly.
const (
	DefaultFileMode      = "0644"
	DefaultDirectoryMode = "0755"
)

// Salt documentation links embedded in the generated section headers.
var docURLs = map[string]string{
	"includes": "http://docs.saltstack.com/en/latest/ref/states/include.html",
	"packages": "http://docs.saltstack.com/en/latest/ref/states/all/salt.states.pkg.html",
	"files":    "http://docs.saltstack.com/en/latest/ref/states/all/salt.states.file.html",
	"services": "http://docs.saltstack.com/en/latest/ref/states/all/salt.states.service.html",
	"cronjobs": "http://docs.saltstack.com/en/latest/ref/states/all/salt.states.cron.html",
	"commands": "http://docs.saltstack.com/en/latest/ref/states/all/salt.states.cmd.html",
	"sysctl":   "http://docs.saltstack.com/en/latest/ref/states/all/salt.states.sysctl.html",
}

// Generate renders the document into its init.sls body. Pure: same
// Document in, byte-identical text out. The returned error is always an
// *InternalConsistencyError; validated documents never produce one.
func Generate(doc *brinefile.Document) (string, error) {
	g := &generator{doc: doc}

	g.header()
	g.versionMapImport()

	g.sectionHeader("includes", len(doc.Includes) > 0)
	g.includes()

	g.sectionHeader("sysctl", len(doc.Sysctl) > 0)
	g.sysctl()

	g.sectionHeader("packages", len(doc.Packages) > 0)
	if err := g.packages(); err != nil {
		return "", err
	}

	g.sectionHeader("files", len(doc.Files) > 0 || len(doc.Directories) > 0 || len(doc.Symlinks) > 0)
	if err := g.directories(); err != nil {
		return "", err
	}
	if err := g.files(); err != nil {
		return "", err
	}
	if err := g.symlinks(); err != nil {
		return "", err
	}

	g.sectionHeader("services", len(doc.Services) > 0)
	if err := g.services(); err != nil {
		return "", err
	}

	g.sectionHeader("commands", len(doc.Commands) > 0 || len(doc.Scripts) > 0)
	g.commands()
	g.scripts()

	g.sectionHeader("cronjobs", len(doc.CronJobs) > 0)
	g.cronjobs()

	return strings.Join(g.blocks, "\n"), nil
}

// kv is one `- key: value` argument line of a state stanza.
type kv struct {
	key   string
	value string
}

type generator struct {
	doc    *brinefile.Document
	blocks []string
}

func (g *generator) add(block string) {
	g.blocks = append(g.blocks, block)
}

// state appends one Salt state stanza:
//
//	<id>:
//	  <function>:
//	    - key: value
func (g *generator) state(id, function string, args ...kv) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n  %s:\n", id, function)
	for _, a := range args {
		fmt.Fprintf(&b, "    - %s: %s\n", a.key, a.value)
	}
	g.add(b.String())
}

func (g *generator) header() {
	var b strings.Builder
	fmt.Fprintf(&b, "#\n# %s\n#\n", g.doc.Name)
	for _, line := range g.doc.Description {
		fmt.Fprintf(&b, "#   %s\n", line)
	}
	b.WriteString("#\n")
	g.add(b.String())
}

// versionMapImport pulls the pinned-version map into the manifest so
// package stanzas can reference versions by lookup instead of literal
// strings.
func (g *generator) versionMapImport() {
	if len(g.doc.VersionedPackages()) == 0 {
		return
	}
	path := g.doc.Path() + "/" + artifacts.VersionMapFile
	g.add(fmt.Sprintf("{%% import_yaml %q as versions %%}\n", path))
}

func (g *generator) sectionHeader(name string, present bool) {
	if !present {
		return
	}
	g.add(fmt.Sprintf("##\n##  %s\n##    %s\n", strings.ToUpper(name), docURLs[name]))
}

func (g *generator) includes() {
	if len(g.doc.Includes) == 0 {
		return
	}
	var b strings.Builder
	b.WriteString("include:\n")
	for _, inc := range g.doc.Includes {
		fmt.Fprintf(&b, "  - %s\n", inc)
	}
	g.add(b.String())
}

func (g *generator) sysctl() {
	for _, s := range g.doc.Sysctl {
		g.state(g.id(s.Key)+"_sysctl", "sysctl.present",
			kv{"name", s.Key},
			kv{"value", s.Value},
			kv{"config", "/etc/sysctl.conf"},
		)
	}
}

func (g *generator) packages() error {
	for _, p := range g.doc.Packages {
		switch p.Presence {
		case brinefile.PresencePresent:
			if p.Versioned() {
				g.state(g.id(p.Target)+"_pkg", "pkg.installed",
					kv{"name", p.Target},
					kv{"version", versionLookup(g.doc.Name, p.Target)},
					kv{"refresh", "True"},
				)
			} else {
				g.state(g.id(p.Target)+"_pkg", "pkg.installed", kv{"name", p.Target})
			}
		case brinefile.PresenceAbsent:
			g.state("remove_"+g.id(p.Target)+"_pkg", "pkg.removed", kv{"name", p.Target})
		default:
			return newInternalError("packages", "unknown presence %q for %q", p.Presence, p.Target)
		}
	}
	return nil
}

func (g *generator) files() error {
	for _, f := range g.doc.Files {
		switch f.Presence {
		case brinefile.PresencePresent:
			mode := f.Attribute
			if mode == "" {
				mode = DefaultFileMode
			}
			g.state(g.id(f.Target)+"_file", "file.managed",
				kv{"name", f.Target},
				kv{"source", payloadSource(g.doc.Path(), f.Target)},
				kv{"template", "jinja"},
				kv{"makedirs", "True"},
				kv{"mode", "'" + mode + "'"},
				kv{"user", "root"},
				kv{"group", "root"},
			)
		case brinefile.PresenceAbsent:
			g.state(g.id(f.Target)+"_file", "file.absent", kv{"name", f.Target})
		default:
			return newInternalError("files", "unknown presence %q for %q", f.Presence, f.Target)
		}
	}
	return nil
}

func (g *generator) directories() error {
	for _, d := range g.doc.Directories {
		switch d.Presence {
		case brinefile.PresencePresent:
			mode := d.Attribute
			if mode == "" {
				mode = DefaultDirectoryMode
			}
			g.state(g.id(d.Target)+"_dir", "file.directory",
				kv{"name", d.Target},
				kv{"makedirs", "True"},
				kv{"mode", "'" + mode + "'"},
				kv{"user", "root"},
				kv{"group", "root"},
			)
		case brinefile.PresenceAbsent:
			g.state(g.id(d.Target)+"_dir", "file.absent", kv{"name", d.Target})
		default:
			return newInternalError("directories", "unknown presence %q for %q", d.Presence, d.Target)
		}
	}
	return nil
}

func (g *generator) symlinks() error {
	for _, l := range g.doc.Symlinks {
		switch l.Presence {
		case brinefile.PresencePresent:
			g.state(g.id(l.LinkPath)+"_link", "file.symlink",
				kv{"name", l.LinkPath},
				kv{"target", l.TargetPath},
				kv{"force", "True"},
				kv{"makedirs", "True"},
				kv{"user", "root"},
				kv{"group", "root"},
			)
		case brinefile.PresenceAbsent:
			g.state(g.id(l.LinkPath)+"_link", "file.absent", kv{"name", l.LinkPath})
		default:
			return newInternalError("symlinks", "unknown presence %q for %q", l.Presence, l.LinkPath)
		}
	}
	return nil
}

func (g *generator) services() error {
	for _, s := range g.doc.Services {
		switch s.Presence {
		case brinefile.PresencePresent:
			g.state(g.id(s.Target)+"_svc", "service.running",
				kv{"name", s.Target},
				kv{"enable", "True"},
			)
		case brinefile.PresenceAbsent:
			g.state("stop_"+g.id(s.Target)+"_svc", "service.dead",
				kv{"name", s.Target},
				kv{"enable", "False"},
			)
		default:
			return newInternalError("services", "unknown presence %q for %q", s.Presence, s.Target)
		}
	}
	return nil
}

func (g *generator) commands() {
	for _, c := range g.doc.Commands {
		title := strings.Fields(c.Value)[0]
		g.state("run_"+g.id(title)+"_cmd", "cmd.run", kv{"name", c.Value})
	}
}

func (g *generator) scripts() {
	for _, s := range g.doc.Scripts {
		g.state("run_"+g.id(s.Value)+"_script", "cmd.script", kv{"name", s.Value})
	}
}

func (g *generator) cronjobs() {
	for _, j := range g.doc.CronJobs {
		g.state(g.id(j.Command)+"_cron", "cron.present",
			kv{"name", j.Command},
			kv{"user", j.User},
			kv{"minute", j.Minute},
			kv{"hour", j.Hour},
			kv{"daymonth", j.DayOfMonth},
			kv{"month", j.Month},
			kv{"dayweek", j.DayOfWeek},
		)
	}
}

// id builds a deterministic state ID from the document name and a
// target: slugified so paths and commands make legal YAML keys.
func (g *generator) id(target string) string {
	return g.doc.Name + "_" + slug(target)
}

// versionLookup renders the templated expression that resolves a
// package version from the version-map artifact at apply time.
func versionLookup(docName, pkg string) string {
	return fmt.Sprintf("{{ versions['%s'] }}", artifacts.VersionKey(docName, pkg))
}

// payloadSource points a managed file at its payload under files/ in
// the state tree.
func payloadSource(statePath, name string) string {
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	return "salt://" + statePath + "/files" + name + ".jinja"
}

// slug collapses anything outside [A-Za-z0-9._-] into single
// underscores so a target can serve as part of a state ID.
func slug(s string) string {
	var b strings.Builder
	lastUnderscore := true // trims a leading separator run
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
