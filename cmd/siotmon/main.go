package main

import (
	"context"
	"flag"
	"log"
	"os"
	"reflect"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/safety-io/pkg/framework"
	"github.com/robotalks/safety-io/pkg/host"
	"github.com/robotalks/safety-io/pkg/host/mqtt"
	"github.com/robotalks/safety-io/pkg/host/msgs"
	"github.com/robotalks/safety-io/pkg/link"
)

var (
	subscribe bool
)

func init() {
	link.SetupFlags()
	mqtt.SetupFlags()
	flag.BoolVar(&subscribe, "sub", subscribe, "Print events of all testers instead of monitoring one.")
}

func main() {
	flag.Parse()
	defer glog.Flush()
	log.SetFlags(log.Lmicroseconds)

	conf := mqtt.NewConfig()
	runner := fx.NewRunner().HandleSignals()
	if subscribe {
		w, err := conf.NewWatcher()
		if err != nil {
			log.Fatalln(err)
		}
		w.OnMeta = func(deviceID string, meta *mqtt.Meta) {
			if meta == nil {
				log.Printf("%s: gone", deviceID)
				return
			}
			log.Printf("%s: port=%s host=%s", deviceID, meta.Port, meta.Host)
		}
		w.OnEvent = func(deviceID string, msg msgs.Message) {
			log.Printf("%s: [%s] %s", deviceID,
				reflect.Indirect(reflect.ValueOf(msg)).Type().Name(), msg.String())
		}
		if err := runner.Go(w).Wait(); err != nil {
			log.Fatalln(err)
		}
		return
	}

	stream, name := link.NewConfig().MustOpen()
	defer stream.Close()
	hostname, _ := os.Hostname()
	pub, err := conf.NewPublisher(name, hostname, time.Now().Unix())
	if err != nil {
		log.Fatalln(err)
	}
	client := link.NewClient(stream)
	mon := host.NewMonitor(host.New(client), pub)

	ctx, cancel := context.WithCancel(runner.Context)
	defer cancel()
	err = runner.GoWith(ctx,
		fx.NamedRun("link", fx.RunFunc(func(ctx context.Context) error {
			err := client.Run(ctx)
			cancel()
			return err
		})),
		fx.NamedRun("monitor", mon),
		fx.NamedRun("mqtt", pub),
	).Wait()
	if err != nil {
		log.Fatalln(err)
	}
}
