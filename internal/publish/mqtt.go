// Package publish forwards fixes to an MQTT broker as JSON.
package publish

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"nmea2geojson/internal/config"
	"nmea2geojson/internal/track"
)

// tokenPublisher is the subset of mqtt.Client the publisher needs.
type tokenPublisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

type Publisher struct {
	client   tokenPublisher
	topic    string
	qos      byte
	retained bool
	timeout  time.Duration

	queue   chan track.Fix
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	closed  bool
	dropped uint64

	disconnect func()
}

// queueSize bounds the fixes waiting for the broker.
const queueSize = 64

// Connect dials the broker from cfg.
func Connect(cfg config.MQTTConfig) (*Publisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(5 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect broker=%s: %w", cfg.Broker, token.Error())
	}
	log.Printf("mqtt connected broker=%s topic=%s", cfg.Broker, cfg.Topic)

	p := newPublisher(client, cfg)
	p.disconnect = func() { client.Disconnect(250) }
	return p, nil
}

func newPublisher(client tokenPublisher, cfg config.MQTTConfig) *Publisher {
	p := &Publisher{
		client:   client,
		topic:    cfg.Topic,
		qos:      cfg.QoS,
		retained: cfg.Retained,
		timeout:  2 * time.Second,
		queue:    make(chan track.Fix, queueSize),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go p.loop()
	return p
}

func (p *Publisher) loop() {
	defer close(p.done)
	for {
		select {
		case <-p.stop:
			return
		case fix := <-p.queue:
			if err := p.Publish(fix); err != nil {
				log.Printf("%v", err)
			}
		}
	}
}

// Publish sends one fix and waits for the broker acknowledgement (QoS > 0)
// or the local write (QoS 0).
func (p *Publisher) Publish(fix track.Fix) error {
	payload, err := json.Marshal(fix)
	if err != nil {
		return fmt.Errorf("mqtt marshal: %w", err)
	}
	token := p.client.Publish(p.topic, p.qos, p.retained, payload)
	if !token.WaitTimeout(p.timeout) {
		return fmt.Errorf("mqtt publish topic=%s: timeout", p.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish topic=%s: %w", p.topic, err)
	}
	return nil
}

// OnFix queues fix for the publishing goroutine and never blocks. Fixes are
// dropped while the queue is full or after Close.
func (p *Publisher) OnFix(fix track.Fix) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.queue <- fix:
	default:
		if p.dropped == 0 {
			log.Printf("mqtt queue full topic=%s, dropping fixes", p.topic)
		}
		p.dropped++
	}
}

// Dropped returns the number of fixes discarded because the queue was full.
func (p *Publisher) Dropped() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

// Close stops the publishing goroutine, discarding queued fixes, and
// disconnects from the broker.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.stop)
	p.mu.Unlock()

	<-p.done
	if p.disconnect != nil {
		p.disconnect()
	}
}
