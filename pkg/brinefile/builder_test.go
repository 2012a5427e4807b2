package brinefile

import (
	"errors"
	"testing"
)

const mqBrinefile = `%rolename
queue.mq-service

%description
Sets up queue

%packages
nagios-plugins-check_rabbitmq
openssh=6.6p1-6.3
-telnet
`

func TestParse_RoleDocument(t *testing.T) {
	doc, err := Parse(mqBrinefile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Kind != KindRole {
		t.Errorf("expected kind role, got %q", doc.Kind)
	}
	if doc.Name != "queue.mq-service" {
		t.Errorf("expected name queue.mq-service, got %q", doc.Name)
	}
	if got := doc.Path(); got != "role/queue/mq-service" {
		t.Errorf("expected path role/queue/mq-service, got %q", got)
	}

	want := []ManagedItem{
		{Target: "nagios-plugins-check_rabbitmq", Presence: PresencePresent},
		{Target: "openssh", Presence: PresencePresent, Attribute: "6.6p1-6.3"},
		{Target: "telnet", Presence: PresenceAbsent},
	}
	if len(doc.Packages) != len(want) {
		t.Fatalf("expected %d packages, got %d", len(want), len(doc.Packages))
	}
	for i, w := range want {
		if doc.Packages[i] != w {
			t.Errorf("package %d: expected %+v, got %+v", i, w, doc.Packages[i])
		}
	}

	versioned := doc.VersionedPackages()
	if len(versioned) != 1 || versioned[0].Target != "openssh" {
		t.Errorf("expected only openssh versioned, got %+v", versioned)
	}
}

func TestParseItemLine(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		want     itemLine
		wantCode ErrorCode
	}{
		{
			name: "bare target",
			text: "nginx",
			want: itemLine{target: "nginx"},
		},
		{
			name: "target with attribute",
			text: "openssh=6.6p1-6.3",
			want: itemLine{target: "openssh", attribute: "6.6p1-6.3"},
		},
		{
			name: "absent target",
			text: "-telnet",
			want: itemLine{target: "telnet", absent: true},
		},
		{
			name: "attribute splits on first equals only",
			text: "key=a=b",
			want: itemLine{target: "key", attribute: "a=b"},
		},
		{
			name:     "absent with attribute rejected",
			text:     "-openssh=6.6p1-6.3",
			wantCode: CodeInvalidModifierCombination,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseItemLine("packages", Entry{Text: tt.text, Line: 1})

			if tt.wantCode != "" {
				if err == nil {
					t.Fatal("expected error, got none")
				}
				if CodeOf(err) != tt.wantCode {
					t.Fatalf("expected code %s, got %v", tt.wantCode, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestParse_Files(t *testing.T) {
	doc, err := Parse(`%elementname
base.sshd

%description
Manages sshd

%files
/etc/ssh/sshd_config=0640
/etc/motd
-/etc/ssh/legacy_keys
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Kind != KindElement {
		t.Errorf("expected kind element, got %q", doc.Kind)
	}

	want := []ManagedItem{
		{Target: "/etc/ssh/sshd_config", Presence: PresencePresent, Attribute: "0640"},
		{Target: "/etc/motd", Presence: PresencePresent},
		{Target: "/etc/ssh/legacy_keys", Presence: PresenceAbsent},
	}
	if len(doc.Files) != len(want) {
		t.Fatalf("expected %d files, got %d", len(want), len(doc.Files))
	}
	for i, w := range want {
		if doc.Files[i] != w {
			t.Errorf("file %d: expected %+v, got %+v", i, w, doc.Files[i])
		}
	}
}

func TestParse_Symlinks(t *testing.T) {
	doc, err := Parse(`%rolename
web

%description
Web server

%symlinks
/etc/nginx/sites-enabled/app->/etc/nginx/sites-available/app
-/etc/httpd->/opt/httpd
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Symlink{
		{LinkPath: "/etc/nginx/sites-enabled/app", TargetPath: "/etc/nginx/sites-available/app", Presence: PresencePresent},
		{LinkPath: "/etc/httpd", TargetPath: "/opt/httpd", Presence: PresenceAbsent},
	}
	if len(doc.Symlinks) != len(want) {
		t.Fatalf("expected %d symlinks, got %d", len(want), len(doc.Symlinks))
	}
	for i, w := range want {
		if doc.Symlinks[i] != w {
			t.Errorf("symlink %d: expected %+v, got %+v", i, w, doc.Symlinks[i])
		}
	}
}

func TestParse_MalformedSymlink(t *testing.T) {
	_, err := Parse(`%rolename
web

%description
Web server

%symlinks
/etc/nginx/missing-target
`)
	if CodeOf(err) != CodeMalformedSymlink {
		t.Fatalf("expected CodeMalformedSymlink, got %v", err)
	}
}

func TestParse_Sysctl(t *testing.T) {
	doc, err := Parse(`%rolename
db

%description
Database host

%sysctl
vm.swappiness=1
net.core.somaxconn=4096
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []SysctlSetting{
		{Key: "vm.swappiness", Value: "1"},
		{Key: "net.core.somaxconn", Value: "4096"},
	}
	if len(doc.Sysctl) != len(want) {
		t.Fatalf("expected %d settings, got %d", len(want), len(doc.Sysctl))
	}
	for i, w := range want {
		if doc.Sysctl[i] != w {
			t.Errorf("setting %d: expected %+v, got %+v", i, w, doc.Sysctl[i])
		}
	}
}

func TestParse_MalformedSysctl(t *testing.T) {
	_, err := Parse(`%rolename
db

%description
Database host

%sysctl
vm.swappiness
`)
	if CodeOf(err) != CodeMalformedSysctl {
		t.Fatalf("expected CodeMalformedSysctl, got %v", err)
	}
}

func TestParse_Cronjobs(t *testing.T) {
	doc, err := Parse(`%rolename
batch

%description
Batch host

%cronjobs
0 3 * * 1 root /usr/local/bin/rotate-logs --all
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := CronJob{
		Minute:     "0",
		Hour:       "3",
		DayOfMonth: "*",
		Month:      "*",
		DayOfWeek:  "1",
		User:       "root",
		Command:    "/usr/local/bin/rotate-logs --all",
	}
	if len(doc.CronJobs) != 1 || doc.CronJobs[0] != want {
		t.Fatalf("expected %+v, got %+v", want, doc.CronJobs)
	}
}

func TestParse_MalformedCronjob(t *testing.T) {
	_, err := Parse(`%rolename
batch

%description
Batch host

%cronjobs
0 3 * * 1
`)
	if CodeOf(err) != CodeMalformedCronjob {
		t.Fatalf("expected CodeMalformedCronjob, got %v", err)
	}
}

func TestParse_IdentityErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantCode ErrorCode
	}{
		{
			name:     "missing identity",
			src:      "%description\nNo identity here\n",
			wantCode: CodeMissingIdentity,
		},
		{
			name:     "conflicting identities",
			src:      "%rolename\nweb\n\n%elementname\nbase.sshd\n\n%description\nBoth declared\n",
			wantCode: CodeConflictingIdentity,
		},
		{
			name:     "duplicate identity marker",
			src:      "%rolename\nweb\n\n%rolename\nweb2\n\n%description\nTwice\n",
			wantCode: CodeConflictingIdentity,
		},
		{
			name:     "empty identity section",
			src:      "%rolename\n\n%description\nEmpty name\n",
			wantCode: CodeEmptyIdentitySection,
		},
		{
			name:     "missing description",
			src:      "%rolename\nweb\n",
			wantCode: CodeMissingDescription,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			if err == nil {
				t.Fatal("expected error, got none")
			}
			if CodeOf(err) != tt.wantCode {
				t.Fatalf("expected code %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestParse_IncludesKeepOrderAndDuplicates(t *testing.T) {
	doc, err := Parse(`%rolename
web

%description
Web server

%includes
core.base
queue.mq-service
core.base
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"core.base", "queue.mq-service", "core.base"}
	if len(doc.Includes) != len(want) {
		t.Fatalf("expected %d includes, got %d", len(want), len(doc.Includes))
	}
	for i, w := range want {
		if doc.Includes[i] != w {
			t.Errorf("include %d: expected %q, got %q", i, w, doc.Includes[i])
		}
	}
}

func TestParseError_Is(t *testing.T) {
	err := newMalformedSysctlError("vm.swappiness", 3)
	if !errors.Is(err, &ParseError{Code: CodeMalformedSysctl}) {
		t.Error("expected errors.Is match on code")
	}
	if errors.Is(err, &ParseError{Code: CodeMalformedSymlink}) {
		t.Error("unexpected errors.Is match across codes")
	}
}
