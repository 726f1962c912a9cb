package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func requireErrEq(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got nil", want)
	}
	if err.Error() != want {
		t.Fatalf("error=%q want %q", err.Error(), want)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoad_FileRequiresPath(t *testing.T) {
	path := writeTempConfig(t, "source: {}\n")
	_, err := Load(path)
	requireErrEq(t, err, "source.path is required when source.kind is 'file'")
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeTempConfig(t, "source:\n  path: ./track.nmea\nmqtt:\n  enable: true\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Source.Kind != "file" {
		t.Fatalf("kind=%q want file", cfg.Source.Kind)
	}
	if cfg.GeoJSON.ID != 2 {
		t.Fatalf("geojson.id=%d want 2", cfg.GeoJSON.ID)
	}
	if cfg.Web.LogLines != 2000 {
		t.Fatalf("web.log_lines=%d want 2000", cfg.Web.LogLines)
	}
	if cfg.MQTT.Broker != "tcp://localhost:1883" || cfg.MQTT.Topic != "nmea/fix" || cfg.MQTT.ClientID != "nmea2geojson" {
		t.Fatalf("mqtt defaults not applied: %+v", cfg.MQTT)
	}
}

func TestLoad_SourceDefaults(t *testing.T) {
	cfg, err := Parse([]byte("source:\n  kind: Serial\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Source.Kind != "serial" || cfg.Source.Baud != 9600 {
		t.Fatalf("source=%+v", cfg.Source)
	}

	cfg, err = Parse([]byte("source:\n  kind: tcp\n  addr: 127.0.0.1:10110\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Source.ReconnectDelay != 1*time.Second {
		t.Fatalf("reconnect_delay=%s want 1s", cfg.Source.ReconnectDelay)
	}

	cfg, err = Parse([]byte("source:\n  kind: gpsd\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Source.Addr != "127.0.0.1:2947" {
		t.Fatalf("gpsd addr=%q", cfg.Source.Addr)
	}

	cfg, err = Parse([]byte("source:\n  kind: replay\n  path: a.log\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Source.ReplaySpeed != 1 {
		t.Fatalf("replay_speed=%v want 1", cfg.Source.ReplaySpeed)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "UnknownKind",
			yaml: "source:\n  kind: usb\n",
			want: "source.kind must be one of file, serial, tcp, gpsd, replay (got \"usb\")",
		},
		{
			name: "TCPRequiresAddr",
			yaml: "source:\n  kind: tcp\n",
			want: "source.addr is required when source.kind is 'tcp'",
		},
		{
			name: "ReplayRequiresPath",
			yaml: "source:\n  kind: replay\n",
			want: "source.path is required when source.kind is 'replay'",
		},
		{
			name: "ReplayNegativeSpeed",
			yaml: "source:\n  kind: replay\n  path: a.log\n  replay_speed: -2\n",
			want: "source.replay_speed must be > 0",
		},
		{
			name: "NegativeBaud",
			yaml: "source:\n  kind: serial\n  baud: -1\n",
			want: "source.baud must be > 0",
		},
		{
			name: "RecordRequiresPath",
			yaml: "source:\n  path: a.nmea\nrecord:\n  enable: true\n",
			want: "record.path is required when record.enable is true",
		},
		{
			name: "RecordWithReplay",
			yaml: "source:\n  kind: replay\n  path: a.log\nrecord:\n  enable: true\n  path: b.log\n",
			want: "record cannot be used with source.kind 'replay'",
		},
		{
			name: "BadQoS",
			yaml: "source:\n  path: a.nmea\nmqtt:\n  enable: true\n  qos: 3\n",
			want: "mqtt.qos must be 0, 1 or 2",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			requireErrEq(t, err, tc.want)
		})
	}
}

func TestLoad_DurationParsing(t *testing.T) {
	cfg, err := Parse([]byte("source:\n  kind: tcp\n  addr: localhost:2947\n  reconnect_delay: 250ms\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Source.ReconnectDelay != 250*time.Millisecond {
		t.Fatalf("reconnect_delay=%s", cfg.Source.ReconnectDelay)
	}
}

func TestLoad_ForwardDefaultDest(t *testing.T) {
	cfg, err := Parse([]byte("source:\n  path: a.nmea\nforward:\n  enable: true\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Forward.Dest != "127.0.0.1:10110" {
		t.Fatalf("forward.dest=%q want 127.0.0.1:10110", cfg.Forward.Dest)
	}

	cfg, err = Parse([]byte("source:\n  path: a.nmea\nforward:\n  dest: 10.0.0.255:4000\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Forward.Enable || cfg.Forward.Dest != "10.0.0.255:4000" {
		t.Fatalf("forward=%+v", cfg.Forward)
	}
}
