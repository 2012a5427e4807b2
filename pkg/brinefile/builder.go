package brinefile

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// itemLine is the parsed form of one section line after the modifier
// grammar has been applied: a leading `-` marks the item absent, a
// trailing `=value` attaches an attribute. The two are mutually
// exclusive; parseItemLine enforces that so the invariant holds before
// a ManagedItem ever exists.
type itemLine struct {
	target    string
	absent    bool
	attribute string
}

func parseItemLine(section string, e Entry) (itemLine, error) {
	text := strings.TrimSpace(e.Text)

	if strings.HasPrefix(text, "-") {
		rest := strings.TrimSpace(strings.TrimPrefix(text, "-"))
		if strings.Contains(rest, "=") {
			return itemLine{}, newInvalidModifierCombinationError(section, e.Text, e.Line)
		}
		return itemLine{target: rest, absent: true}, nil
	}

	if target, attr, ok := strings.Cut(text, "="); ok {
		return itemLine{target: strings.TrimSpace(target), attribute: strings.TrimSpace(attr)}, nil
	}

	return itemLine{target: text}, nil
}

// Builder turns lexed sections into a validated Document.
type Builder struct {
	validate *validator.Validate
}

// NewBuilder creates a Builder with its struct validator.
func NewBuilder() *Builder {
	return &Builder{validate: validator.New()}
}

// Parse is the convenience entry point: lex raw Brinefile text and
// build the Document in one call.
func Parse(src string) (*Document, error) {
	sections, err := Lex(src)
	if err != nil {
		return nil, err
	}
	return NewBuilder().Build(sections)
}

// Build dispatches each section to its interpreter, accumulates the
// results into one Document, and runs whole-document validation. It
// fails on the first error; a Document is returned only when fully
// valid, so generation never sees a partial model.
func (b *Builder) Build(sections []Section) (*Document, error) {
	doc := &Document{}
	identitySeen := false

	for _, sec := range sections {
		if err := b.interpret(doc, sec, &identitySeen); err != nil {
			return nil, err
		}
	}

	if doc.Kind == "" {
		return nil, newMissingIdentityError()
	}
	if len(doc.Description) == 0 {
		return nil, newMissingDescriptionError()
	}

	// Defensive re-check of the per-section invariants.
	if err := b.validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("document validation failed: %w", err)
	}

	return doc, nil
}

func (b *Builder) interpret(doc *Document, sec Section, identitySeen *bool) error {
	switch sec.Name {
	case sectionRoleName:
		return interpretIdentity(doc, sec, KindRole, identitySeen)
	case sectionElementName:
		return interpretIdentity(doc, sec, KindElement, identitySeen)

	case sectionDescription:
		doc.Description = append(doc.Description, entryTexts(sec)...)
	case sectionReadme:
		doc.Readme = append(doc.Readme, entryTexts(sec)...)
	case sectionIncludes:
		doc.Includes = append(doc.Includes, entryTexts(sec)...)

	case sectionPackages:
		items, err := interpretManagedItems(sec)
		if err != nil {
			return err
		}
		doc.Packages = append(doc.Packages, items...)
	case sectionFiles:
		items, err := interpretManagedItems(sec)
		if err != nil {
			return err
		}
		doc.Files = append(doc.Files, items...)
	case sectionDirectories:
		items, err := interpretManagedItems(sec)
		if err != nil {
			return err
		}
		doc.Directories = append(doc.Directories, items...)
	case sectionServices:
		items, err := interpretManagedItems(sec)
		if err != nil {
			return err
		}
		doc.Services = append(doc.Services, items...)

	case sectionSymlinks:
		links, err := interpretSymlinks(sec)
		if err != nil {
			return err
		}
		doc.Symlinks = append(doc.Symlinks, links...)

	case sectionCommands:
		for _, text := range entryTexts(sec) {
			doc.Commands = append(doc.Commands, Executable{Value: text})
		}
	case sectionScripts:
		for _, text := range entryTexts(sec) {
			doc.Scripts = append(doc.Scripts, Executable{Value: text})
		}

	case sectionCronjobs:
		jobs, err := interpretCronjobs(sec)
		if err != nil {
			return err
		}
		doc.CronJobs = append(doc.CronJobs, jobs...)

	case sectionSysctl:
		settings, err := interpretSysctl(sec)
		if err != nil {
			return err
		}
		doc.Sysctl = append(doc.Sysctl, settings...)

	default:
		// Lex only emits known sections; a miss here is a programming
		// error, not user input.
		return fmt.Errorf("no interpreter for section %%%s", sec.Name)
	}

	return nil
}

func interpretIdentity(doc *Document, sec Section, kind Kind, identitySeen *bool) error {
	if *identitySeen {
		// Covers both a %rolename/%elementname clash and a duplicated
		// identity marker of the same kind.
		return newConflictingIdentityError(sec.Line)
	}
	if len(sec.Entries) == 0 {
		return newEmptyIdentitySectionError(sec.Name, sec.Line)
	}
	*identitySeen = true
	doc.Kind = kind
	doc.Name = sec.Entries[0].Text
	return nil
}

func interpretManagedItems(sec Section) ([]ManagedItem, error) {
	items := make([]ManagedItem, 0, len(sec.Entries))
	for _, e := range sec.Entries {
		parsed, err := parseItemLine(sec.Name, e)
		if err != nil {
			return nil, err
		}
		item := ManagedItem{Target: parsed.target, Presence: PresencePresent}
		if parsed.absent {
			item.Presence = PresenceAbsent
		} else {
			item.Attribute = parsed.attribute
		}
		items = append(items, item)
	}
	return items, nil
}

func interpretSymlinks(sec Section) ([]Symlink, error) {
	links := make([]Symlink, 0, len(sec.Entries))
	for _, e := range sec.Entries {
		text := e.Text
		presence := PresencePresent
		if strings.HasPrefix(text, "-") {
			presence = PresenceAbsent
			text = strings.TrimSpace(strings.TrimPrefix(text, "-"))
		}
		link, target, ok := strings.Cut(text, "->")
		if !ok || strings.Count(text, "->") != 1 {
			return nil, newMalformedSymlinkError(e.Text, e.Line)
		}
		link = strings.TrimSpace(link)
		target = strings.TrimSpace(target)
		if link == "" || target == "" {
			return nil, newMalformedSymlinkError(e.Text, e.Line)
		}
		links = append(links, Symlink{LinkPath: link, TargetPath: target, Presence: presence})
	}
	return links, nil
}

func interpretSysctl(sec Section) ([]SysctlSetting, error) {
	settings := make([]SysctlSetting, 0, len(sec.Entries))
	for _, e := range sec.Entries {
		key, value, ok := strings.Cut(e.Text, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, newMalformedSysctlError(e.Text, e.Line)
		}
		settings = append(settings, SysctlSetting{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		})
	}
	return settings, nil
}

func interpretCronjobs(sec Section) ([]CronJob, error) {
	jobs := make([]CronJob, 0, len(sec.Entries))
	for _, e := range sec.Entries {
		fields := strings.Fields(e.Text)
		if len(fields) < 7 {
			return nil, newMalformedCronjobError(e.Text, e.Line)
		}
		jobs = append(jobs, CronJob{
			Minute:     fields[0],
			Hour:       fields[1],
			DayOfMonth: fields[2],
			Month:      fields[3],
			DayOfWeek:  fields[4],
			User:       fields[5],
			Command:    strings.Join(fields[6:], " "),
		})
	}
	return jobs, nil
}

func entryTexts(sec Section) []string {
	texts := make([]string, 0, len(sec.Entries))
	for _, e := range sec.Entries {
		texts = append(texts, e.Text)
	}
	return texts
}
