package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/dispatch"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/geo"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/reporter"
	"github.com/spf13/cobra"
)

var checkInCmd = &cobra.Command{
	Use:   "checkin CODE",
	Short: "Check in with the event's code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := dispatch.NewWorker(newClient()).CheckInWithCode(cmd.Context(), args[0])
		if err != nil {
			return explain(err)
		}

		fmt.Printf("✓ Checked in to %s\n", resp.EventTitle)
		fmt.Printf("  Attendance: %s\n", resp.AttendanceID)
		fmt.Printf("  At: %s\n", resp.CheckInTime)
		return nil
	},
}

var checkOutCmd = &cobra.Command{
	Use:   "checkout [ATTENDANCE_ID]",
	Short: "Check out of the open attendance",
	Long: `Check out of an attendance record. Without an id the current open record
is looked up first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := dispatch.NewWorker(newClient())

		var attendanceID string
		if len(args) == 1 {
			attendanceID = args[0]
		} else {
			open, err := w.Current(cmd.Context())
			if err != nil {
				return explain(err)
			}
			if open == nil {
				return errors.New("you are not checked in")
			}
			attendanceID = open.ID
		}

		resp, err := w.CheckOut(cmd.Context(), attendanceID)
		if err != nil {
			return explain(err)
		}

		fmt.Printf("✓ Checked out of %s\n", resp.EventTitle)
		fmt.Printf("  Worked: %d min\n", resp.WorkedMinutes)
		fmt.Printf("  Pay: %s\n", resp.PayAmount.StringFixed(0))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the open attendance record",
	RunE: func(cmd *cobra.Command, args []string) error {
		open, err := dispatch.NewWorker(newClient()).Current(cmd.Context())
		if err != nil {
			return explain(err)
		}
		if open == nil {
			fmt.Println("Not checked in")
			return nil
		}

		title := open.EventID
		if open.EventTitle != nil {
			title = *open.EventTitle
		}
		fmt.Printf("Checked in to %s\n", title)
		fmt.Printf("  Attendance: %s\n", open.ID)
		if open.CheckInTime != nil {
			fmt.Printf("  Since: %s\n", *open.CheckInTime)
		}
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report --event ID --lat LAT --lon LON",
	Short: "Report a fixed position for an event until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		eventID, _ := cmd.Flags().GetString("event")
		lat, _ := cmd.Flags().GetFloat64("lat")
		lon, _ := cmd.Flags().GetFloat64("lon")
		centerLat, _ := cmd.Flags().GetFloat64("center-lat")
		centerLon, _ := cmd.Flags().GetFloat64("center-lon")
		radius, _ := cmd.Flags().GetFloat64("radius")
		once, _ := cmd.Flags().GetBool("once")

		pos := geo.Coordinate{Latitude: lat, Longitude: lon}
		if err := pos.Validate(); err != nil {
			return err
		}
		interval, err := profile.interval()
		if err != nil {
			return err
		}

		fence := geo.NewGeofence(geo.Coordinate{Latitude: centerLat, Longitude: centerLon}, &radius, geo.DefaultRadiusMeters)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		updates := make(chan reporter.State, 4)
		tracker := reporter.NewTracker(reporter.StaticSource{Coordinate: pos}, newClient(),
			reporter.WithInterval(interval),
			reporter.WithLogger(logger),
			reporter.WithOnUpdate(func(s reporter.State) {
				select {
				case updates <- s:
				default:
				}
			}),
		)
		if _, err := tracker.Switch(ctx, eventID, fence); err != nil {
			return err
		}
		defer tracker.Stop()

		fmt.Printf("Reporting %.6f,%.6f for event %s every %s. Press Ctrl+C to stop.\n", lat, lon, eventID, interval)
		for {
			select {
			case <-ctx.Done():
				fmt.Println("\nStopped")
				return nil
			case s := <-updates:
				printState(s)
				if s.Status == reporter.StatusEnded {
					return s.Err
				}
				if once {
					return s.ReportErr
				}
			}
		}
	},
}

func init() {
	reportCmd.Flags().String("event", "", "Event ID")
	reportCmd.Flags().Float64("lat", 0, "Latitude")
	reportCmd.Flags().Float64("lon", 0, "Longitude")
	reportCmd.Flags().Float64("center-lat", 0, "Venue latitude for the local verdict")
	reportCmd.Flags().Float64("center-lon", 0, "Venue longitude for the local verdict")
	reportCmd.Flags().Float64("radius", geo.DefaultRadiusMeters, "Venue radius in meters")
	reportCmd.Flags().Bool("once", false, "Send a single report and exit")
	_ = reportCmd.MarkFlagRequired("event")
	_ = reportCmd.MarkFlagRequired("lat")
	_ = reportCmd.MarkFlagRequired("lon")
}

func printState(s reporter.State) {
	ts := s.UpdatedAt.Format("15:04:05")
	switch s.Status {
	case reporter.StatusTracking:
		verdict := "out of range"
		if s.Proximity.WithinRange() {
			verdict = "in range"
		}
		fmt.Printf("[%s] %s (%d m)", ts, verdict, geo.RoundMeters(s.Proximity.DistanceMeters))
		if s.ReportErr != nil {
			fmt.Printf(", not sent: %v", s.ReportErr)
		}
		fmt.Println()
	case reporter.StatusUnavailable:
		fmt.Printf("[%s] location unavailable: %v\n", ts, s.Err)
	case reporter.StatusEnded:
		fmt.Printf("[%s] reporting ended: %v\n", ts, s.Err)
	default:
		fmt.Printf("[%s] idle\n", ts)
	}
}

// explain adds a hint to the errors a worker can act on.
func explain(err error) error {
	switch {
	case errors.Is(err, dispatch.ErrInvalidCodeFormat):
		return fmt.Errorf("%w (codes are up to 10 letters or digits)", err)
	case attendance.IsCredentialError(err):
		return fmt.Errorf("%w (check the code with the event staff)", err)
	case attendance.IsStateConflict(err):
		return fmt.Errorf("%w (run 'shiftctl status' to see your current state)", err)
	default:
		return err
	}
}
