package brinefile

import "strings"

// Kind distinguishes the two document flavours a Brinefile can declare.
type Kind string

const (
	// KindRole describes a complete machine identity.
	KindRole Kind = "role"

	// KindElement describes one reusable, composable configuration unit.
	KindElement Kind = "element"
)

// Presence is the desired state of a managed item.
type Presence string

const (
	// PresencePresent means the item must exist (installed, managed,
	// running). The default when a line carries no modifier.
	PresencePresent Presence = "present"

	// PresenceAbsent means the item must not exist (removed, stopped).
	// Set by the leading `-` modifier.
	PresenceAbsent Presence = "absent"
)

// ManagedItem is one entry of the %packages, %files, %directories or
// %services sections: a target plus its desired presence and optional
// attribute (package version or file mode).
type ManagedItem struct {
	// Target is the package name, path or service name.
	Target string `validate:"required"`

	// Presence is the desired state.
	Presence Presence `validate:"required,oneof=present absent"`

	// Attribute is the version (packages) or octal mode (files) set via
	// `target=value`. Empty when unset; always empty for absent items.
	Attribute string
}

// Versioned reports whether the item pins an explicit attribute.
func (m ManagedItem) Versioned() bool {
	return m.Attribute != ""
}

// Symlink is one `link->target` entry of the %symlinks section.
type Symlink struct {
	LinkPath   string `validate:"required"`
	TargetPath string `validate:"required"`

	// Presence follows the same `-` modifier grammar as ManagedItem.
	Presence Presence `validate:"required,oneof=present absent"`
}

// Executable is one entry of %commands (a shell command line) or
// %scripts (a script source path). Entries run unconditionally, in
// declaration order.
type Executable struct {
	Value string `validate:"required"`
}

// SysctlSetting is one `key=value` entry of the %sysctl section.
// Settings keep their declaration order so rendered output stays
// deterministic.
type SysctlSetting struct {
	Key   string `validate:"required"`
	Value string
}

// CronJob is one %cronjobs line split into its crontab fields:
// minute hour daymonth month dayweek user command.
type CronJob struct {
	Minute     string `validate:"required"`
	Hour       string `validate:"required"`
	DayOfMonth string `validate:"required"`
	Month      string `validate:"required"`
	DayOfWeek  string `validate:"required"`
	User       string `validate:"required"`
	Command    string `validate:"required"`
}

// Document is the validated in-memory model of one Brinefile. It owns
// all child collections; a parse run produces exactly one Document and
// nothing else shares it.
type Document struct {
	// Kind is role or element, set by %rolename vs %elementname.
	Kind Kind `validate:"required,oneof=role element"`

	// Name is the dotted identifier, e.g. "queue.mq-service".
	Name string `validate:"required"`

	// Description lines from %description. Required.
	Description []string `validate:"required,min=1"`

	// Readme lines from %readme. Optional long-form text.
	Readme []string

	// Includes are dotted references to other roles, elements or state
	// files, in author order. Duplicates are kept: include order is the
	// author's to control.
	Includes []string

	Packages    []ManagedItem `validate:"dive"`
	Files       []ManagedItem `validate:"dive"`
	Directories []ManagedItem `validate:"dive"`
	Services    []ManagedItem `validate:"dive"`
	Symlinks    []Symlink     `validate:"dive"`
	Commands    []Executable  `validate:"dive"`
	Scripts     []Executable  `validate:"dive"`
	Sysctl      []SysctlSetting
	CronJobs    []CronJob `validate:"dive"`
}

// Path returns the state tree path for the document, with the dotted
// name expanded to directories: role/queue/mq-service.
func (d *Document) Path() string {
	return string(d.Kind) + "/" + strings.ReplaceAll(d.Name, ".", "/")
}

// VersionedPackages returns the packages carrying a pinned version, in
// declaration order. Only present packages can qualify: the modifier
// grammar rejects absent items with attributes before a Document exists.
func (d *Document) VersionedPackages() []ManagedItem {
	var pkgs []ManagedItem
	for _, p := range d.Packages {
		if p.Versioned() {
			pkgs = append(pkgs, p)
		}
	}
	return pkgs
}
