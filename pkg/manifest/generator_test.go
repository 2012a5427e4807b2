package manifest

import (
	"strings"
	"testing"

	"github.com/openbrine/brine/pkg/brinefile"
)

func mustParse(t *testing.T, src string) *brinefile.Document {
	t.Helper()
	doc, err := brinefile.Parse(src)
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	return doc
}

func mustGenerate(t *testing.T, doc *brinefile.Document) string {
	t.Helper()
	out, err := Generate(doc)
	if err != nil {
		t.Fatalf("failed to generate: %v", err)
	}
	return out
}

func TestGenerate_PackagesScenario(t *testing.T) {
	doc := mustParse(t, `%rolename
queue.mq-service

%description
Sets up queue

%packages
nagios-plugins-check_rabbitmq
openssh=6.6p1-6.3
-telnet
`)

	want := `#
# queue.mq-service
#
#   Sets up queue
#

{% import_yaml "role/queue/mq-service/maps/versions.yaml" as versions %}

##
##  PACKAGES
##    http://docs.saltstack.com/en/latest/ref/states/all/salt.states.pkg.html

queue.mq-service_nagios-plugins-check_rabbitmq_pkg:
  pkg.installed:
    - name: nagios-plugins-check_rabbitmq

queue.mq-service_openssh_pkg:
  pkg.installed:
    - name: openssh
    - version: {{ versions['queue.mq-service.openssh'] }}
    - refresh: True

remove_queue.mq-service_telnet_pkg:
  pkg.removed:
    - name: telnet
`

	got := mustGenerate(t, doc)
	if got != want {
		t.Errorf("manifest mismatch\n--- want ---\n%s\n--- got ---\n%s", want, got)
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	doc := mustParse(t, `%rolename
web.frontend

%description
Front web tier

%includes
core.base

%packages
nginx=1.24.0

%files
/etc/nginx/nginx.conf=0640

%directories
/var/www

%symlinks
/etc/nginx/sites-enabled/app->/etc/nginx/sites-available/app

%services
nginx
-httpd

%commands
systemctl daemon-reload

%scripts
files/bootstrap.sh

%sysctl
net.core.somaxconn=4096

%cronjobs
0 3 * * 1 root /usr/local/bin/rotate-logs --all
`)

	first := mustGenerate(t, doc)
	second := mustGenerate(t, doc)
	if first != second {
		t.Error("repeated generation produced different output")
	}
}

func TestGenerate_FixedBlockOrder(t *testing.T) {
	doc := mustParse(t, `%rolename
web.frontend

%description
Front web tier

%cronjobs
0 3 * * 1 root /usr/local/bin/rotate-logs --all

%services
nginx

%packages
nginx

%includes
core.base
`)

	out := mustGenerate(t, doc)

	// Source ordered cronjobs first; output order is fixed regardless.
	order := []string{"##  INCLUDES", "##  PACKAGES", "##  SERVICES", "##  CRONJOBS"}
	last := -1
	for _, marker := range order {
		idx := strings.Index(out, marker)
		if idx < 0 {
			t.Fatalf("missing %q in output:\n%s", marker, out)
		}
		if idx < last {
			t.Errorf("%q rendered out of order", marker)
		}
		last = idx
	}
}

func TestGenerate_FileModes(t *testing.T) {
	doc := mustParse(t, `%elementname
base.sshd

%description
Manages sshd

%files
/etc/ssh/sshd_config=0640
/etc/motd
-/etc/ssh/legacy_keys
`)

	out := mustGenerate(t, doc)

	wantStanzas := []string{
		`base.sshd_etc_ssh_sshd_config_file:
  file.managed:
    - name: /etc/ssh/sshd_config
    - source: salt://element/base/sshd/files/etc/ssh/sshd_config.jinja
    - template: jinja
    - makedirs: True
    - mode: '0640'
    - user: root
    - group: root
`,
		`    - name: /etc/motd
`,
		`    - mode: '0644'
`,
		`base.sshd_etc_ssh_legacy_keys_file:
  file.absent:
    - name: /etc/ssh/legacy_keys
`,
	}
	for _, stanza := range wantStanzas {
		if !strings.Contains(out, stanza) {
			t.Errorf("missing stanza:\n%s\nin output:\n%s", stanza, out)
		}
	}
}

func TestGenerate_ServicesAndRemovals(t *testing.T) {
	doc := mustParse(t, `%rolename
web

%description
Web server

%services
nginx
-httpd
`)

	out := mustGenerate(t, doc)

	running := `web_nginx_svc:
  service.running:
    - name: nginx
    - enable: True
`
	dead := `stop_web_httpd_svc:
  service.dead:
    - name: httpd
    - enable: False
`
	if !strings.Contains(out, running) {
		t.Errorf("missing running stanza in:\n%s", out)
	}
	if !strings.Contains(out, dead) {
		t.Errorf("missing dead stanza in:\n%s", out)
	}
}

func TestGenerate_Symlinks(t *testing.T) {
	doc := mustParse(t, `%rolename
web

%description
Web server

%symlinks
/etc/nginx/sites-enabled/app->/etc/nginx/sites-available/app
`)

	out := mustGenerate(t, doc)

	want := `web_etc_nginx_sites-enabled_app_link:
  file.symlink:
    - name: /etc/nginx/sites-enabled/app
    - target: /etc/nginx/sites-available/app
    - force: True
    - makedirs: True
    - user: root
    - group: root
`
	if !strings.Contains(out, want) {
		t.Errorf("missing symlink stanza in:\n%s", out)
	}
}

func TestGenerate_Cronjobs(t *testing.T) {
	doc := mustParse(t, `%rolename
batch

%description
Batch host

%cronjobs
0 3 * * 1 root /usr/local/bin/rotate-logs --all
`)

	out := mustGenerate(t, doc)

	// Field order survives: minute, hour, daymonth, month, dayweek.
	want := `  cron.present:
    - name: /usr/local/bin/rotate-logs --all
    - user: root
    - minute: 0
    - hour: 3
    - daymonth: *
    - month: *
    - dayweek: 1
`
	if !strings.Contains(out, want) {
		t.Errorf("missing cron stanza in:\n%s", out)
	}
}

func TestGenerate_Sysctl(t *testing.T) {
	doc := mustParse(t, `%rolename
db

%description
Database host

%sysctl
vm.swappiness=1
`)

	out := mustGenerate(t, doc)

	want := `db_vm.swappiness_sysctl:
  sysctl.present:
    - name: vm.swappiness
    - value: 1
    - config: /etc/sysctl.conf
`
	if !strings.Contains(out, want) {
		t.Errorf("missing sysctl stanza in:\n%s", out)
	}
}

func TestGenerate_NoVersionedPackagesNoImport(t *testing.T) {
	doc := mustParse(t, `%rolename
web

%description
Web server

%packages
nginx
`)

	out := mustGenerate(t, doc)
	if strings.Contains(out, "import_yaml") {
		t.Errorf("unexpected version-map import in:\n%s", out)
	}
}

func TestGenerate_InternalConsistencyError(t *testing.T) {
	doc := &brinefile.Document{
		Kind:        brinefile.KindRole,
		Name:        "web",
		Description: []string{"Web server"},
		Packages:    []brinefile.ManagedItem{{Target: "nginx", Presence: "sideways"}},
	}

	_, err := Generate(doc)
	if err == nil {
		t.Fatal("expected error, got none")
	}
	if _, ok := err.(*InternalConsistencyError); !ok {
		t.Fatalf("expected *InternalConsistencyError, got %T: %v", err, err)
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"nginx", "nginx"},
		{"/etc/ssh/sshd_config", "etc_ssh_sshd_config"},
		{"queue.mq-service", "queue.mq-service"},
		{"/usr/local/bin/rotate-logs --all", "usr_local_bin_rotate-logs_--all"},
		{"a//b", "a_b"},
		{"/trailing/", "trailing"},
	}
	for _, tt := range tests {
		if got := slug(tt.in); got != tt.want {
			t.Errorf("slug(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
