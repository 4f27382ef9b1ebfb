package command

import (
	"fmt"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rentdash-go/internal/cli/output"
	"github.com/yndnr/rentdash-go/internal/core/domain"
)

// recentActivityLimit caps the activity feed.
const recentActivityLimit = 5

// DashboardCommand returns the dashboard command.
func DashboardCommand() *cli.Command {
	return &cli.Command{
		Name:    "dashboard",
		Aliases: []string{"dash", "home"},
		Usage:   "Show the fleet overview",
		Action:  dashboardAction,
	}
}

// dashboardView is the structured form of the dashboard.
type dashboardView struct {
	User              string     `json:"user"`
	Time              time.Time  `json:"time"`
	AvailableVehicles int        `json:"availableVehicles"`
	RentedVehicles    int        `json:"rentedVehicles"`
	TotalVehicles     int        `json:"totalVehicles"`
	RegisteredUsers   *int       `json:"registeredUsers"`
	TotalRevenue      int64      `json:"totalRevenue"`
	RecentActivity    []activity `json:"recentActivity"`
}

type activity struct {
	Reference string    `json:"reference"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
}

func dashboardAction(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	user, err := rt.requireUser(c.Context)
	if err != nil {
		return err
	}

	now := rt.now()
	counts := rt.fleet.CountByStatus(c.Context)
	view := dashboardView{
		User:              user.Name,
		Time:              now,
		AvailableVehicles: counts[domain.VehicleAvailable],
		RentedVehicles:    counts[domain.VehicleRented],
		TotalRevenue:      rt.rentals.Revenue(c.Context),
	}
	for _, n := range counts {
		view.TotalVehicles += n
	}

	// The user count is informational; a failed listing is shown as "-".
	if err := rt.users.FetchUsers(c.Context); err != nil {
		rt.log.Debug("dashboard user count unavailable", "error", err)
		rt.checkExpired(c.Context, err)
		rt.users.ClearError()
	} else {
		n := len(rt.users.Snapshot().Users)
		view.RegisteredUsers = &n
	}

	rentals, err := rt.desk.Rentals(c.Context)
	if err != nil {
		return err
	}
	for i := len(rentals) - 1; i >= 0 && len(view.RecentActivity) < recentActivityLimit; i-- {
		r := rentals[i]
		view.RecentActivity = append(view.RecentActivity, activity{
			Reference: r.Reference,
			Message:   fmt.Sprintf("%s rented %s for %s", r.Customer.Name, r.Vehicle.DisplayName(), plural(int(r.Days), "day")),
			At:        r.CreatedAt,
		})
	}

	if rt.structured(c) {
		return rt.print(c, view)
	}
	renderDashboard(rt, view)
	return nil
}

func renderDashboard(rt *Runtime, v dashboardView) {
	w := rt.out
	fmt.Fprintf(w, "Welcome, %s\n", v.User)
	fmt.Fprintf(w, "%s  %s\n\n", v.Time.Format("Monday, January 2, 2006"), v.Time.Format("15:04:05"))

	users := "-"
	if v.RegisteredUsers != nil {
		users = strconv.Itoa(*v.RegisteredUsers)
	}

	stats := output.NewTable("STAT", "VALUE")
	stats.AddRow("Available Vehicles", strconv.Itoa(v.AvailableVehicles))
	stats.AddRow("Active Rentals", strconv.Itoa(v.RentedVehicles))
	stats.AddRow("Registered Users", users)
	stats.AddRow("Total Revenue", output.Money(v.TotalRevenue))
	_ = stats.RenderWithOptions(w, true)

	fmt.Fprintf(w, "\nFleet utilization  %s\n", output.Bar(int64(v.RentedVehicles), int64(v.TotalVehicles), output.DefaultBarWidth))

	fmt.Fprintln(w, "\nRecent activity")
	if len(v.RecentActivity) == 0 {
		fmt.Fprintln(w, "  No rentals yet.")
		return
	}
	for _, a := range v.RecentActivity {
		fmt.Fprintf(w, "  %s  %s (%s)\n", a.Reference, a.Message, relativeTime(v.Time, a.At))
	}
}

// relativeTime describes t relative to now, e.g. "5 minutes ago".
func relativeTime(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour") + " ago"
	default:
		return plural(int(d/(24*time.Hour)), "day") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
