package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/robotalks/uartlog.go/pkg/uplink/mqtt"
)

var (
	mqttURL = "mqtt://localhost:1883/uartlog/"
)

func init() {
	if val := os.Getenv("UARTLOG_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	q.Connect()

	q.Sub("#", mqtt.Handler(func(topic string, payload []byte) {
		if strings.HasSuffix(topic, "/corrupt") {
			log.Printf("%s: CORRUPT %q", topic, payload)
			return
		}
		log.Printf("%s: %q", topic, payload)
	}))
	<-(chan struct{})(nil)
}
