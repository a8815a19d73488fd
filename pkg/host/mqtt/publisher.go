package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"github.com/robotalks/safety-io/pkg/host/msgs"
)

// Topics under a device ID.
const (
	TopicMeta      = "meta"
	TopicPins      = "pins"
	TopicHeartbeat = "heartbeat"
	TopicEcho      = "echo"
)

// PublishTimeout bounds the wait for a publish to be sent.
const PublishTimeout = time.Second

// Meta describes a monitored tester. It is retained on the meta topic
// while the publisher is connected, and cleared by the will otherwise.
type Meta struct {
	DeviceID string `json:"device_id"`
	Port     string `json:"port,omitempty"`
	Host     string `json:"host,omitempty"`
	Started  int64  `json:"started,omitempty"`
}

// EventTopic returns the topic an event is published to.
func EventTopic(msg msgs.Message) (string, error) {
	switch msg.(type) {
	case *msgs.PinStatesEvent:
		return TopicPins, nil
	case *msgs.HeartbeatEvent:
		return TopicHeartbeat, nil
	case *msgs.EchoEvent:
		return TopicEcho, nil
	}
	return "", &msgs.ErrUnknownType{TypeID: msg.TypeID()}
}

// Publisher publishes events of one device.
type Publisher struct {
	Queue *Queue
	Meta  Meta

	metaJSON []byte
}

// NewPublisher creates a Publisher.
func NewPublisher(brokerURL string, meta Meta) (*Publisher, error) {
	if meta.DeviceID == "" {
		return nil, fmt.Errorf("device ID required")
	}
	metaJSON, err := json.Marshal(&meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+meta.DeviceID+"/"+TopicMeta, nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("siot:" + meta.DeviceID)
	}
	p := &Publisher{
		Queue:    NewQueue(opts, topicPrefix),
		Meta:     meta,
		metaJSON: metaJSON,
	}
	p.Queue.OnConnect = func(*Queue) { p.publishMeta(p.metaJSON) }
	return p, nil
}

// Publish sends an event.
func (p *Publisher) Publish(msg msgs.Message) error {
	topic, err := EventTopic(msg)
	if err != nil {
		return err
	}
	data, err := msgs.EncodeMessage(msg)
	if err != nil {
		return err
	}
	token := p.Queue.Pub(p.Meta.DeviceID+"/"+topic, data)
	if !token.WaitTimeout(PublishTimeout) {
		return fmt.Errorf("publish %s: timeout", topic)
	}
	return token.Error()
}

// Run implements Runnable.
func (p *Publisher) Run(ctx context.Context) error {
	if token := p.Queue.Connect(); token.Wait() && token.Error() != nil {
		glog.Warningf("mqtt connect: %v, retrying in background", token.Error())
	}
	<-ctx.Done()
	p.publishMeta(nil).WaitTimeout(PublishTimeout)
	p.Queue.Close()
	return nil
}

func (p *Publisher) publishMeta(payload []byte) paho.Token {
	return p.Queue.PubWith(p.Meta.DeviceID+"/"+TopicMeta, payload, 1, true)
}
