package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/uartlog.go/pkg/framework"
	"github.com/robotalks/uartlog.go/pkg/uplink"
	"github.com/robotalks/uartlog.go/pkg/uplink/mqtt"
	"github.com/robotalks/uartlog.go/pkg/uplink/stream"
)

var (
	mqttURL string
	produce = 250 * time.Millisecond
)

func init() {
	if val := os.Getenv("UARTLOG_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL, empty to disable the MQTT sink.")
	flag.DurationVar(&produce, "produce", produce, "Interval between simulated device messages.")
	uplink.SetupFlags()
}

func main() {
	flag.Parse()

	conf := uplink.NewConfig()
	flusher, err := conf.NewFlusher()
	if err != nil {
		log.Fatalln(err)
	}
	flusher.Sinks = append(flusher.Sinks, stream.New(os.Stdout))
	if mqttURL != "" {
		q, qerr := mqtt.NewQueueFromURL(mqttURL)
		if qerr != nil {
			log.Fatalln(qerr)
		}
		q.Connect()
		defer q.Close()
		flusher.Sinks = append(flusher.Sinks, mqtt.NewSink(q, conf.DeviceID()))
	}

	err = fx.NewRunner().
		HandleSignals().
		Go(
			fx.NamedRun("flusher", flusher),
			fx.NamedRun("device", fx.RunFunc(func(ctx context.Context) error {
				return produceLoop(ctx, flusher)
			})),
		).
		Wait()
	if err != nil {
		log.Fatalln(err)
	}
}

// produceLoop plays the role of the instrumented firmware feeding
// the TX queue.
func produceLoop(ctx context.Context, flusher *uplink.Flusher) error {
	messages := []string{
		"System initialized...",
		"Sensor failed at T=123ms",
		"boot ok",
		"This is a longer test message than the others.",
	}
	tick := time.Tick(produce)
	for n := 0; ; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
			msg := fmt.Sprintf("%s (tick %d)", messages[n%len(messages)], n)
			if err := flusher.LogFramed([]byte(msg)); err != nil {
				// back-pressure: the queue is full, this message is lost
				glog.Warningf("dropped: %v", err)
			}
		}
	}
}
