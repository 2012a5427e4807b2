package brinefile

import "strings"

// Canonical section names. Marker keywords are matched
// case-insensitively and stored in this lower-case form.
const (
	sectionRoleName    = "rolename"
	sectionElementName = "elementname"
	sectionDescription = "description"
	sectionReadme      = "readme"
	sectionIncludes    = "includes"
	sectionPackages    = "packages"
	sectionFiles       = "files"
	sectionDirectories = "directories"
	sectionSymlinks    = "symlinks"
	sectionServices    = "services"
	sectionCommands    = "commands"
	sectionScripts     = "scripts"
	sectionCronjobs    = "cronjobs"
	sectionSysctl      = "sysctl"
)

var knownSections = map[string]struct{}{
	sectionRoleName:    {},
	sectionElementName: {},
	sectionDescription: {},
	sectionReadme:      {},
	sectionIncludes:    {},
	sectionPackages:    {},
	sectionFiles:       {},
	sectionDirectories: {},
	sectionSymlinks:    {},
	sectionServices:    {},
	sectionCommands:    {},
	sectionScripts:     {},
	sectionCronjobs:    {},
	sectionSysctl:      {},
}

// Entry is one content line of a section, trimmed, with its 1-based
// source line number kept for error reporting.
type Entry struct {
	Text string
	Line int
}

// Section is one `%name` marker and the content lines that follow it,
// up to the next marker or end of input.
type Section struct {
	// Name is the canonical (lower-case) section keyword.
	Name string

	// Line is the 1-based line number of the marker.
	Line int

	// Entries are the section's content lines in source order, with
	// blank and `#`-comment lines already dropped.
	Entries []Entry
}

// Lex splits raw Brinefile text into its ordered sections. Blank lines
// and `#` comments are skipped everywhere; content before the first
// marker is tolerated and ignored. An unrecognized `%keyword` marker
// fails with CodeUnknownSection naming the keyword and line.
func Lex(src string) ([]Section, error) {
	var sections []Section
	var current *Section

	for i, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(raw)
		num := i + 1

		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue

		case strings.HasPrefix(line, "%"):
			keyword := strings.TrimSpace(line[1:])
			name := strings.ToLower(keyword)
			if _, ok := knownSections[name]; !ok {
				return nil, newUnknownSectionError(keyword, num)
			}
			sections = append(sections, Section{Name: name, Line: num})
			current = &sections[len(sections)-1]

		default:
			if current == nil {
				// Leading prose before the first marker.
				continue
			}
			current.Entries = append(current.Entries, Entry{Text: line, Line: num})
		}
	}

	return sections, nil
}
