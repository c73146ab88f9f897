package cmd

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Ansari839/ecommerce-dashboard/internal/core/events"
	"github.com/Ansari839/ecommerce-dashboard/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Identity event commands",
	Long:  `Inspect the identity events and check the audit log wiring`,
}

var listEventsCmd = &cobra.Command{
	Use:   "list",
	Short: "List the identity event types",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range events.IdentityEventTypes {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
	},
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a sample event through the audit log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(args[0])
	},
}

var eventSubject string

func publishTestEvent(eventType string) error {
	if !slices.Contains(events.IdentityEventTypes, eventType) {
		return fmt.Errorf("unknown event type %q", eventType)
	}

	lg := logger.LoggerWrapper()
	bus := events.NewEventBus(lg)
	events.RegisterAuditLog(bus, lg)

	var event events.Event
	if eventType == events.EventTypeRoleCreated || eventType == events.EventTypeRoleUpdated || eventType == events.EventTypeRoleDeleted {
		event = events.NewRoleEvent(eventType, eventSubject, "sample-role", "cli")
	} else {
		event = events.NewUserEvent(eventType, eventSubject, "sample@example.com", "", "active", "cli")
	}

	lg.Info("publishing test event", "event_type", eventType, "event_id", event.EventID())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return bus.PublishSync(ctx, event)
}

func init() {
	publishEventCmd.Flags().StringVar(&eventSubject, "subject", "cli-test", "id of the user or role the event refers to")

	eventCmd.AddCommand(listEventsCmd, publishEventCmd)
	rootCmd.AddCommand(eventCmd)
}
