package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/timekeeping/internal/core/events"
	"github.com/frahmantamala/timekeeping/pkg/logger"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event bus commands",
	Long:  `Publish sample domain events through the in-process bus to inspect the audit trail.`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a sample event",
	Long:  fmt.Sprintf("Publish a sample event. Known types: %s, %s, %s.", events.EventTypeCompanyRegistered, events.EventTypeTimeEntryRecorded, events.EventTypeTimeEntryRemoved),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishSampleEvent(args[0])
	},
}

var (
	eventEmployeeID int64
	eventCompanyID  int64
	eventEntryID    int64
)

func sampleEvent(eventType string) events.Event {
	switch eventType {
	case events.EventTypeCompanyRegistered:
		return events.NewCompanyRegisteredEvent(eventCompanyID, eventEmployeeID)
	case events.EventTypeTimeEntryRecorded:
		return events.NewTimeEntryRecordedEvent(eventEntryID, eventEmployeeID, time.Now())
	case events.EventTypeTimeEntryRemoved:
		return events.NewTimeEntryRemovedEvent(eventEntryID, eventEmployeeID, time.Now())
	default:
		return events.BaseEvent{
			ID:        fmt.Sprintf("cli-%d", time.Now().UnixNano()),
			Type:      eventType,
			Timestamp: time.Now(),
			Data:      map[string]interface{}{"source": "cli-command"},
		}
	}
}

func publishSampleEvent(eventType string) error {
	lg := logger.LoggerWrapper()

	bus := events.NewEventBus(lg)
	bus.Subscribe(events.AllEvents, events.AuditLogger(lg))

	event := sampleEvent(eventType)
	if err := bus.Publish(context.Background(), event); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	bus.Wait()

	lg.Info("sample event published", "event_type", event.EventType(), "event_id", event.EventID())
	return nil
}

func init() {
	publishEventCmd.Flags().Int64Var(&eventEmployeeID, "employee", 1, "employee id carried by the event")
	publishEventCmd.Flags().Int64Var(&eventCompanyID, "company", 1, "company id carried by company events")
	publishEventCmd.Flags().Int64Var(&eventEntryID, "entry", 1, "time entry id carried by time entry events")

	eventCmd.AddCommand(publishEventCmd)
	rootCmd.AddCommand(eventCmd)
}
