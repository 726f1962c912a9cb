package publish

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"nmea2geojson/internal/config"
	"nmea2geojson/internal/track"
)

type fakeToken struct {
	err      error
	complete bool
}

func (t *fakeToken) Wait() bool                     { return t.complete }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return t.complete }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	if t.complete {
		close(ch)
	}
	return ch
}
func (t *fakeToken) Error() error { return t.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeClient struct {
	mu    sync.Mutex
	sent  []published
	token mqtt.Token
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, published{topic: topic, qos: qos, retained: retained, payload: payload.([]byte)})
	return c.token
}

func (c *fakeClient) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

// stuckToken never completes until release is closed, like a broker that
// stopped acknowledging.
type stuckToken struct{ release chan struct{} }

func (t *stuckToken) Wait() bool { <-t.release; return true }
func (t *stuckToken) WaitTimeout(d time.Duration) bool {
	select {
	case <-t.release:
		return true
	case <-time.After(d):
		return false
	}
}
func (t *stuckToken) Done() <-chan struct{} { return t.release }
func (t *stuckToken) Error() error          { return nil }

func TestPublisher_PublishesJSON(t *testing.T) {
	fc := &fakeClient{token: &fakeToken{complete: true}}
	p := newPublisher(fc, config.MQTTConfig{Topic: "nmea/fix", QoS: 1, Retained: true})

	kt := 5.5
	err := p.Publish(track.Fix{TalkerID: "GP", Type: "RMC", LatDeg: 51.5, LonDeg: -0.7, GroundKt: &kt})
	if err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	if len(fc.sent) != 1 {
		t.Fatalf("sent=%d want 1", len(fc.sent))
	}
	msg := fc.sent[0]
	if msg.topic != "nmea/fix" || msg.qos != 1 || !msg.retained {
		t.Fatalf("msg=%+v", msg)
	}
	var got map[string]any
	if err := json.Unmarshal(msg.payload, &got); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if got["talker"] != "GP" || got["lat_deg"] != 51.5 || got["ground_kt"] != 5.5 {
		t.Fatalf("payload=%v", got)
	}
	if _, ok := got["alt_m"]; ok {
		t.Fatalf("alt_m should be omitted: %v", got)
	}
}

func TestPublisher_Errors(t *testing.T) {
	fc := &fakeClient{token: &fakeToken{complete: false}}
	p := newPublisher(fc, config.MQTTConfig{Topic: "t"})
	if err := p.Publish(track.Fix{}); err == nil || !strings.Contains(err.Error(), "timeout") {
		t.Fatalf("err=%v want timeout", err)
	}

	boom := errors.New("not connected")
	fc.mu.Lock()
	fc.token = &fakeToken{complete: true, err: boom}
	fc.mu.Unlock()
	if err := p.Publish(track.Fix{}); !errors.Is(err, boom) {
		t.Fatalf("err=%v want %v", err, boom)
	}

	// Queued fixes are discarded on Close.
	p.OnFix(track.Fix{})
	p.Close()
}

func TestPublisher_OnFixPublishesInBackground(t *testing.T) {
	fc := &fakeClient{token: &fakeToken{complete: true}}
	p := newPublisher(fc, config.MQTTConfig{Topic: "nmea/fix"})
	defer p.Close()

	p.OnFix(track.Fix{Type: "GLL"})
	deadline := time.Now().Add(2 * time.Second)
	for fc.count() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("sent=%d want 1", fc.count())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPublisher_StuckBrokerDoesNotBlockCollector(t *testing.T) {
	tok := &stuckToken{release: make(chan struct{})}
	fc := &fakeClient{token: tok}
	p := newPublisher(fc, config.MQTTConfig{Topic: "nmea/fix"})
	p.timeout = time.Hour

	coll := track.New(nil, track.Options{})
	coll.OnFix(p.OnFix)

	n := queueSize * 2
	start := time.Now()
	for i := 0; i < n; i++ {
		if !coll.Add("$GPGLL,5133.81,N,00042.25,W*75") {
			t.Fatalf("line %d not accepted", i)
		}
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Add took %s with a stuck broker", elapsed)
	}
	if p.Dropped() == 0 {
		t.Fatalf("expected dropped fixes once the queue filled")
	}

	close(tok.release)
	p.Close()
	p.OnFix(track.Fix{})
}
