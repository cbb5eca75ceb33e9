// Command fader-sensor reads a potentiometer over two GPIO pins and
// publishes the conditioned volume to MQTT and HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/fader-sensor/internal/config"
	"github.com/sweeney/fader-sensor/internal/gpio"
	"github.com/sweeney/fader-sensor/internal/metrics"
	"github.com/sweeney/fader-sensor/internal/mqtt"
	"github.com/sweeney/fader-sensor/internal/sampler"
	"github.com/sweeney/fader-sensor/internal/status"
	"github.com/sweeney/fader-sensor/internal/volume"
	"github.com/sweeney/fader-sensor/internal/web"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	interval := flag.Duration("interval", 0, "Sampling interval (overrides config)")
	broker := flag.String("broker", "", "MQTT broker address (overrides config)")
	channel := flag.String("channel", "", "Channel name in MQTT payloads (overrides config)")
	httpAddr := flag.String("http", "", "HTTP status address (overrides config)")
	pinA := flag.Int("pin-a", -1, "BCM pin number for the charge pin (overrides config)")
	pinB := flag.Int("pin-b", -1, "BCM pin number for the sense pin (overrides config)")
	curve := flag.String("curve", "", "Volume curve: linear, log or exp (overrides config)")
	noPush := flag.Bool("no-push", false, "Disable MQTT publishing")
	printValue := flag.Bool("print-value", false, "Read once, print the raw count and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	if *interval > 0 {
		cfg.Sampling.Interval = *interval
	}
	if *broker != "" {
		cfg.MQTT.Broker = *broker
	}
	if *channel != "" {
		cfg.MQTT.Channel = *channel
	}
	if *httpAddr != "" {
		cfg.HTTP.Addr = *httpAddr
	}
	if *pinA >= 0 {
		cfg.Pins.A = *pinA
	}
	if *pinB >= 0 {
		cfg.Pins.B = *pinB
	}
	if *curve != "" {
		cfg.Volume.Curve = *curve
	}
	if *noPush {
		cfg.MQTT.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("fatal: invalid config: %v", err)
	}

	if err := run(cfg, *printValue); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config.Config, printValue bool) error {
	// Initialize GPIO
	pair, err := gpio.NewRealPair(cfg.Pins.A, cfg.Pins.B)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer pair.Close()

	smp := sampler.New(pair, cfg.Sampling.Settle, cfg.Sampling.MaxCount)

	// Print-value mode: one measurement, no daemon
	if printValue {
		raw, err := smp.Read()
		if err != nil {
			return fmt.Errorf("read potentiometer: %w", err)
		}
		fmt.Printf("%d\n", raw)
		return nil
	}

	pipe := volume.NewPipeline(cfg.VolumeConfig())

	// Initialize MQTT. A broker failure degrades to pull-only mode rather
	// than killing the daemon; the pot still works without the network.
	var publisher mqtt.Publisher
	var connStatus mqtt.ConnectionStatus
	if cfg.MQTT.Enabled {
		real, err := mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.Topic, cfg.MQTT.TopicSystem)
		if err != nil {
			log.Printf("mqtt init failed, continuing without push: %v", err)
		} else {
			publisher = real
			connStatus = real
			defer real.Close()
		}
	}

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		IntervalMs:  cfg.Sampling.Interval.Milliseconds(),
		SettleMs:    cfg.Sampling.Settle.Milliseconds(),
		MaxCount:    cfg.Sampling.MaxCount,
		RangeMin:    cfg.Volume.RangeMin,
		RangeMax:    cfg.Volume.RangeMax,
		Curve:       cfg.Volume.Curve,
		DBMin:       cfg.Volume.DBMin,
		DBMax:       cfg.Volume.DBMax,
		RateUp:      cfg.Volume.RateUp,
		RateDown:    cfg.Volume.RateDown,
		RateLimit:   cfg.Volume.RateLimit,
		Broker:      cfg.MQTT.Broker,
		Topic:       cfg.MQTT.Topic,
		Channel:     cfg.MQTT.Channel,
		HTTPAddr:    cfg.HTTP.Addr,
		HeartbeatMs: cfg.Sampling.Heartbeat.Milliseconds(),
		Push:        publisher != nil,
	})

	mets := metrics.New()

	// Publish startup event with full status snapshot
	if publisher != nil {
		snap := tracker.Snapshot()
		startupEvent := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := publisher.PublishSystem(startupEvent); err != nil {
			log.Printf("failed to publish startup event: %v", err)
		} else {
			log.Printf("published startup event")
		}
	}

	// Start HTTP status server
	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker, mets.Handler())
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	log.Printf("started: pins A=%d B=%d interval=%v curve=%s push=%v",
		cfg.Pins.A, cfg.Pins.B, cfg.Sampling.Interval, cfg.Volume.Curve, publisher != nil)

	ticker := time.NewTicker(cfg.Sampling.Interval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(smp, pipe, publisher, connStatus, tracker, mets,
		cfg.MQTT.Channel, cfg.Sampling.Heartbeat, time.Now, ticker.C, sigCh)
}

func runLoop(smp sampler.Sampler, pipe *volume.Pipeline, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, mets *metrics.Metrics, channel string, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	lastHeartbeat := now()

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			if publisher != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event := mqtt.SystemEvent{
					Timestamp:  now(),
					Event:      "SHUTDOWN",
					Reason:     signalName,
					Retained:   true,
					RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", signalName),
				}
				if err := publisher.PublishSystem(event); err != nil {
					log.Printf("failed to publish shutdown event: %v", err)
				} else {
					log.Printf("published shutdown event")
				}
			}
			return nil

		case <-tick:
			t := now()
			raw, err := smp.Read()
			if err != nil {
				// Skip the cycle; the last good reading stays visible.
				log.Printf("sampling error: %v", err)
				tracker.SetError()
				mets.CycleErrors.Inc()
				continue
			}

			res := pipe.Process(raw, t)
			tracker.SetReading(res, t)
			mets.ObserveCycle(raw, res.Value)

			if publisher == nil {
				continue
			}
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}

			reading := mqtt.Reading{
				Timestamp: t,
				Channel:   channel,
				Value:     res.Value,
				Raw:       res.Raw,
				DB:        res.DB,
			}
			if err := publisher.Publish(reading); errors.Is(err, mqtt.ErrQueued) {
				// Queued, not delivered: the publish counts stay honest and
				// the outbox may still drop it on overflow.
				log.Printf("broker unreachable, reading queued")
			} else if err != nil {
				// Don't crash on publish failure
				log.Printf("publish error: %v", err)
				mets.PublishErrors.Inc()
			} else {
				tracker.SetPublished()
				mets.Published.Inc()
			}

			if heartbeat > 0 && t.Sub(lastHeartbeat) >= heartbeat {
				lastHeartbeat = t
				snap := tracker.Snapshot()
				hbEvent := mqtt.SystemEvent{
					Timestamp:  t,
					Event:      "HEARTBEAT",
					RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				} else {
					log.Printf("heartbeat: volume=%.3f raw=%d cycles=%d",
						snap.Volume, snap.Raw, snap.Counts.Cycles)
				}
			}
		}
	}
}
