package notify

import "craftforge/internal/eventbus"

// Alert is the transient, dismissible surface raised for each valid push.
// It is never stored; the inbox entry is the durable copy.
type Alert struct {
	Title   string
	Message string
}

// Alerter receives one alert per accepted push.
type Alerter interface {
	Alert(title, message string)
}

type AlerterFunc func(title, message string)

func (f AlerterFunc) Alert(title, message string) { f(title, message) }

// BusAlerter fans alerts out through the event bus.
type BusAlerter struct {
	bus *eventbus.Bus
}

func NewBusAlerter(bus *eventbus.Bus) *BusAlerter {
	return &BusAlerter{bus: bus}
}

func (a *BusAlerter) Alert(title, message string) {
	a.bus.Publish(eventbus.EventNotificationAlert, Alert{Title: title, Message: message})
}
