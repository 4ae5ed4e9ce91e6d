package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	v1 "github.com/kubev2v/interface-queue/api/v1"
	"github.com/kubev2v/interface-queue/internal/util"
	"github.com/kubev2v/interface-queue/pkg/client"
)

const (
	serverFlag  = "server"
	timeoutFlag = "timeout"
)

func addClientFlags(cmd *cobra.Command) {
	cmd.Flags().String(serverFlag, "http://localhost:8000", "Address of the interface queue service")
	cmd.Flags().Duration(timeoutFlag, 10*time.Second, "Request timeout")
}

func newClient(cmd *cobra.Command) (*client.Client, error) {
	addr, _ := cmd.Flags().GetString(serverFlag)
	timeout, _ := cmd.Flags().GetDuration(timeoutFlag)
	return client.NewClient(addr, timeout)
}

func newStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show queue counters and limits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			status, err := c.GetQueueStatus(cmd.Context())
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), status)
			return nil
		},
	}
	addClientFlags(cmd)
	return cmd
}

func newLimitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "limit N",
		Short: "Change and persist the maximum number of active tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("limit must be a number: %w", err)
			}
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			status, err := c.SetQueueLimit(cmd.Context(), n)
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), status)
			return nil
		},
	}
	addClientFlags(cmd)
	return cmd
}

func newTasksCommand() *cobra.Command {
	var (
		limit    int
		states   []string
		failures bool
	)
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List recent task events, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			if failures {
				list, err := c.ListQueueFailures(cmd.Context(), limit)
				if err != nil {
					return err
				}
				printFailures(cmd.OutOrStdout(), list)
				return nil
			}

			filter := make([]v1.TaskState, 0, len(states))
			for _, s := range states {
				filter = append(filter, v1.TaskState(s))
			}
			events, err := c.ListQueueTasks(cmd.Context(), limit, filter...)
			if err != nil {
				return err
			}
			printEvents(cmd.OutOrStdout(), events)
			return nil
		},
	}
	addClientFlags(cmd)
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries")
	cmd.Flags().StringSliceVar(&states, "state", nil, "Only show events in these states (queued, running, finished, failed)")
	cmd.Flags().BoolVar(&failures, "failures", false, "List recorded background failures instead")
	return cmd
}

func printStatus(w io.Writer, s *v1.QueueStatus) {
	bold := color.New(color.Bold)
	state := color.GreenString("open")
	switch {
	case s.Broken:
		state = color.RedString("broken")
	case s.Closed:
		state = color.YellowString("closed")
	}

	running := strconv.Itoa(s.Running)
	if s.Running >= s.MaxActiveTasks && s.Queued > 0 {
		running = color.YellowString("%d", s.Running)
	}

	bold.Fprintln(w, "Interface queue")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  state\t%s\n", state)
	fmt.Fprintf(tw, "  running\t%s / %d\n", running, s.MaxActiveTasks)
	fmt.Fprintf(tw, "  queued\t%d\n", s.Queued)
	fmt.Fprintf(tw, "  finished\t%d\n", s.Finished)
	fmt.Fprintf(tw, "  pool size\t%d\n", s.PoolSize)
	_ = tw.Flush()
}

func printEvents(w io.Writer, events []v1.TaskEvent) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATE\tPRIORITY\tSUBJECT\tSITE\tWAITED\tRAN")
	for _, e := range events {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Id, stateString(e.State), e.Priority, e.Subject, util.Deref(e.Site, "-"), millis(e.QueueDelayMs), millis(e.DurationMs))
	}
	_ = tw.Flush()
}

func printFailures(w io.Writer, failures []v1.TaskFailure) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK\tFAILED AT\tPRIORITY\tSUBJECT\tERROR")
	for _, f := range failures {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			f.TaskId, f.FailedAt.Local().Format(time.DateTime), f.Priority, f.Subject, color.RedString(f.Error))
	}
	_ = tw.Flush()
}

func stateString(s v1.TaskState) string {
	switch s {
	case v1.Failed:
		return color.RedString(string(s))
	case v1.Finished:
		return color.GreenString(string(s))
	case v1.Running:
		return color.CyanString(string(s))
	default:
		return string(s)
	}
}

func millis(ms *int64) string {
	if ms == nil {
		return "-"
	}
	return (time.Duration(*ms) * time.Millisecond).String()
}
