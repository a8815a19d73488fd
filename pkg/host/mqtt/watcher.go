package mqtt

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/golang/glog"

	"github.com/robotalks/safety-io/pkg/host/msgs"
)

// EventHandler receives decoded events.
type EventHandler func(deviceID string, msg msgs.Message)

// MetaHandler receives meta updates, meta is nil when a device is gone.
type MetaHandler func(deviceID string, meta *Meta)

// Watcher subscribes to events of all devices.
type Watcher struct {
	Queue   *Queue
	OnEvent EventHandler
	OnMeta  MetaHandler
}

// NewWatcher creates a Watcher.
func NewWatcher(brokerURL string) (*Watcher, error) {
	q, err := NewQueueFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	w := &Watcher{Queue: q}
	q.Sub("+/"+TopicMeta, w.handle)
	q.Sub("+/"+TopicPins, w.handle)
	q.Sub("+/"+TopicHeartbeat, w.handle)
	q.Sub("+/"+TopicEcho, w.handle)
	return w, nil
}

// Run implements Runnable.
func (w *Watcher) Run(ctx context.Context) error {
	token := w.Queue.Connect()
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	<-ctx.Done()
	return w.Queue.Close()
}

func (w *Watcher) handle(topic string, payload []byte) {
	items := strings.Split(topic, "/")
	if len(items) != 2 {
		return
	}
	deviceID := items[0]
	if items[1] == TopicMeta {
		if h := w.OnMeta; h != nil {
			if len(payload) == 0 {
				h(deviceID, nil)
				return
			}
			var meta Meta
			if err := json.Unmarshal(payload, &meta); err != nil {
				glog.Warningf("invalid meta from %s: %v", deviceID, err)
				return
			}
			h(deviceID, &meta)
		}
		return
	}
	msg, err := msgs.DecodeMessage(payload)
	if err != nil {
		glog.Warningf("invalid event on %s: %v", topic, err)
		return
	}
	if h := w.OnEvent; h != nil {
		h(deviceID, msg)
	}
}
