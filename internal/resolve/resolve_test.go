package resolve

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"sshportal/internal/config"
)

func testStore() *config.Config {
	cfg := config.New()
	cfg.Hosts["prod"] = config.Host{Connection: "user@prod.example.com", Port: 22}
	cfg.Hosts["staging"] = config.Host{Connection: "admin@staging.example.com", Port: 2222, KeyPath: "/keys/staging"}
	cfg.HostPaths["prod"] = map[string]config.RemotePath{"webroot": {Path: "/var/www/html"}}
	cfg.LocalPaths["downloads"] = config.LocalPath{Path: "~/Downloads"}
	cfg.Paths = map[string]config.FlatPath{
		"oldlogs": {Path: "/var/log/old", IsRemote: true},
		"scratch": {Path: "/tmp/scratch", IsRemote: false},
	}
	return cfg
}

func TestResolveQualified(t *testing.T) {
	cfg := testStore()

	tests := []struct {
		name     string
		spec     string
		wantConn string
		wantPort uint16
		wantPath string
	}{
		{"host-scoped alias", "prod:webroot", "user@prod.example.com", 22, "/var/www/html"},
		{"literal remote path", "prod:/etc/nginx", "user@prod.example.com", 22, "/etc/nginx"},
		{"flat remote alias under host", "prod:oldlogs", "user@prod.example.com", 22, "/var/log/old"},
		{"flat local alias stays literal", "prod:scratch", "user@prod.example.com", 22, "scratch"},
		{"scoped alias of other host stays literal", "staging:webroot", "admin@staging.example.com", 2222, "webroot"},
		{"ad-hoc connection", "deploy@10.0.0.8:/tmp", "deploy@10.0.0.8", 22, "/tmp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := Resolve(cfg, tt.spec, "")
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.spec, err)
			}
			if !loc.IsRemote() {
				t.Fatalf("Resolve(%q) = local, want remote", tt.spec)
			}
			if loc.Host.Connection != tt.wantConn || loc.Host.EffectivePort() != tt.wantPort || loc.Path != tt.wantPath {
				t.Errorf("Resolve(%q) = {%s %d %s}, want {%s %d %s}",
					tt.spec, loc.Host.Connection, loc.Host.EffectivePort(), loc.Path, tt.wantConn, tt.wantPort, tt.wantPath)
			}
		})
	}
}

func TestResolveConfiguredAliasShadowsConnection(t *testing.T) {
	cfg := testStore()
	// A host alias that itself looks like user@host; the configured entry
	// must win over ad-hoc parsing.
	cfg.Hosts["ops@bastion"] = config.Host{Connection: "real@bastion.internal", Port: 2200}

	loc, err := Resolve(cfg, "ops@bastion:/srv", "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if loc.Host.Connection != "real@bastion.internal" || loc.Host.Port != 2200 {
		t.Errorf("configured alias did not win: %+v", loc.Host)
	}
}

func TestResolveQualifiedErrors(t *testing.T) {
	cfg := testStore()

	tests := []struct {
		spec    string
		wantErr error
	}{
		{"nosuch:/tmp", ErrUnknownHost},
		{"bad@@host:/tmp", ErrInvalidConnection},
		{"@host:/tmp", ErrInvalidConnection},
		{"user@-bad.example.com:/tmp", ErrInvalidConnection},
	}
	for _, tt := range tests {
		if _, err := Resolve(cfg, tt.spec, ""); !errors.Is(err, tt.wantErr) {
			t.Errorf("Resolve(%q) error = %v, want %v", tt.spec, err, tt.wantErr)
		}
	}
}

func TestResolveBare(t *testing.T) {
	cfg := testStore()
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	t.Run("local alias expands tilde", func(t *testing.T) {
		loc, err := Resolve(cfg, "downloads", "")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if loc.IsRemote() {
			t.Fatal("expected local location")
		}
		if want := filepath.Join(home, "Downloads"); loc.Path != want {
			t.Errorf("Path = %q, want %q", loc.Path, want)
		}
	})

	t.Run("flat local alias", func(t *testing.T) {
		loc, err := Resolve(cfg, "scratch", "")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if loc.IsRemote() || loc.Path != "/tmp/scratch" {
			t.Errorf("Resolve(scratch) = %+v", loc)
		}
	})

	t.Run("flat remote alias without host is ambiguous", func(t *testing.T) {
		if _, err := Resolve(cfg, "oldlogs", ""); !errors.Is(err, ErrAmbiguousRemoteAlias) {
			t.Errorf("error = %v, want ErrAmbiguousRemoteAlias", err)
		}
	})

	t.Run("unmatched bare string is a literal path", func(t *testing.T) {
		for _, spec := range []string{"/etc/hosts", "somefile.txt", "dir/sub"} {
			loc, err := Resolve(cfg, spec, "")
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", spec, err)
			}
			if loc.IsRemote() || loc.Path != spec {
				t.Errorf("Resolve(%q) = %+v", spec, loc)
			}
		}
	})

	t.Run("tilde literal expands", func(t *testing.T) {
		loc, err := Resolve(cfg, "~/notes.txt", "")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if want := filepath.Join(home, "notes.txt"); loc.Path != want {
			t.Errorf("Path = %q, want %q", loc.Path, want)
		}
	})
}

func TestResolveBareWithHostContext(t *testing.T) {
	cfg := testStore()

	// In the source host's scope, a bare alias binds to that host.
	loc, err := Resolve(cfg, "webroot", "prod")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !loc.IsRemote() || loc.Host.Connection != "user@prod.example.com" || loc.Path != "/var/www/html" {
		t.Errorf("Resolve(webroot, prod) = %+v", loc)
	}
	if loc.Alias != "prod" {
		t.Errorf("Alias = %q, want prod", loc.Alias)
	}

	// Outside any scope the same name is just a literal local path.
	loc, err = Resolve(cfg, "webroot", "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if loc.IsRemote() || loc.Path != "webroot" {
		t.Errorf("Resolve(webroot) = %+v", loc)
	}

	// A context that matches nothing falls through to the global tables.
	loc, err = Resolve(cfg, "downloads", "staging")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if loc.IsRemote() {
		t.Errorf("Resolve(downloads, staging) = %+v, want local", loc)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	cfg := testStore()
	for _, spec := range []string{"prod:webroot", "downloads", "/tmp/x", "deploy@10.0.0.8:/tmp"} {
		first, err1 := Resolve(cfg, spec, "")
		second, err2 := Resolve(cfg, spec, "")
		if err1 != nil || err2 != nil {
			t.Fatalf("Resolve(%q) errors = %v, %v", spec, err1, err2)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Resolve(%q) not idempotent: %+v vs %+v", spec, first, second)
		}
	}
}
