package service

import (
	"log"
)

// Notifier shows short user-facing messages
type Notifier interface {
	Notify(level, message string)
}

// LogNotifier writes notifications to the standard logger
type LogNotifier struct{}

func (LogNotifier) Notify(level, message string) {
	log.Printf("[notify] %s: %s", level, message)
}

// MultiNotifier fans a notification out to several notifiers
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(level, message string) {
	for _, n := range m {
		if n != nil {
			n.Notify(level, message)
		}
	}
}
