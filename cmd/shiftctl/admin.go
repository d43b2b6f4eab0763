package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/dispatch"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/confirmation"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/geo"
	"github.com/spf13/cobra"
)

var workersCmd = &cobra.Command{
	Use:   "workers EVENT_ID",
	Short: "List confirmed workers of an event with their attendance and distance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		withinRange, _ := cmd.Flags().GetBool("within-range")

		engine := dispatch.NewAdmin(newClient(), language(), logger)
		if err := engine.SelectEvent(cmd.Context(), args[0]); err != nil {
			return err
		}
		if withinRange {
			engine.ToggleWithinRange()
		}

		printWorkers(engine)
		return nil
	},
}

func init() {
	workersCmd.Flags().Bool("within-range", false, "Only show workers inside the geofence")
}

func printWorkers(engine *dispatch.Admin) {
	fence := engine.Geofence()
	fmt.Printf("%s (radius %.0f m, refreshed %s)\n\n", engine.EventTitle(), fence.RadiusMeters, engine.RefreshedAt().Format("15:04:05"))

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "APPLICATION\tNAME\tPHONE\tSTATE\tDISTANCE\tATTENDANCE\tACTION")
	for _, v := range engine.Views() {
		distance := "-"
		if v.Proximity.Known() {
			distance = fmt.Sprintf("%d m", geo.RoundMeters(v.Proximity.DistanceMeters))
		}
		attendanceID := "-"
		if v.Attendance != nil {
			attendanceID = v.Attendance.ID
		}
		action := engine.Label(v)
		if action == "" {
			action = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			v.ApplicationID, v.Name, v.Phone, v.State(), distance, attendanceID, action)
	}
	tw.Flush()
}

// Admin commands
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Operator check-in and check-out",
}

var adminCheckInCmd = &cobra.Command{
	Use:   "checkin EVENT_ID APPLICATION_ID",
	Short: "Check a worker in, by GPS when they are in range and manually otherwise",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine := dispatch.NewAdmin(newClient(), language(), logger)
		if err := engine.SelectEvent(cmd.Context(), args[0]); err != nil {
			return err
		}

		res, err := engine.CheckIn(cmd.Context(), args[1])
		printResult(res, err)
		return err
	},
}

var adminCheckOutCmd = &cobra.Command{
	Use:   "checkout EVENT_ID ATTENDANCE_ID",
	Short: "Check a worker out, by GPS when they are in range and manually otherwise",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine := dispatch.NewAdmin(newClient(), language(), logger)
		if err := engine.SelectEvent(cmd.Context(), args[0]); err != nil {
			return err
		}

		res, err := engine.CheckOut(cmd.Context(), args[1])
		printResult(res, err)
		return err
	},
}

func init() {
	adminCmd.AddCommand(adminCheckInCmd)
	adminCmd.AddCommand(adminCheckOutCmd)
}

func printResult(res dispatch.Result, err error) {
	if res.Label == "" {
		return
	}
	if err != nil {
		fmt.Printf("✗ %s failed\n", res.Label)
		return
	}
	fmt.Printf("✓ %s\n", res.Label)
	fmt.Printf("  Attendance: %s\n", res.Response.AttendanceID)
	fmt.Printf("  State: %s\n", res.Response.State)
	if res.Submission.Path == confirmation.PathGPS && res.Submission.Coordinate != nil {
		fmt.Printf("  Position: %.6f,%.6f\n", res.Submission.Coordinate.Latitude, res.Submission.Coordinate.Longitude)
	}
}
