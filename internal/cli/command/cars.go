package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rentdash-go/internal/core/domain"
	"github.com/yndnr/rentdash-go/internal/storage/memory"
)

// CarsCommand returns the fleet subcommand group.
func CarsCommand() *cli.Command {
	return &cli.Command{
		Name:    "cars",
		Aliases: []string{"car", "fleet"},
		Usage:   "Browse the vehicle fleet",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List vehicles",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "search",
						Aliases: []string{"s"},
						Usage:   "Filter by model, brand or license plate",
					},
					&cli.StringFlag{
						Name:  "status",
						Value: "all",
						Usage: "Filter by status (all, available, rented, maintenance)",
					},
				},
				Action: carsList,
			},
			{
				Name:      "get",
				Usage:     "Show one vehicle",
				ArgsUsage: "VEHICLE_ID",
				Action:    carsGet,
			},
			{
				Name:      "rent",
				Usage:     "Book a rental for a vehicle",
				ArgsUsage: "VEHICLE_ID",
				Flags:     rentalFlags(false),
				Action:    carsRent,
			},
		},
	}
}

// vehicleRow is the table view of a vehicle.
type vehicleRow struct {
	ID      int64  `table:"ID"`
	Vehicle string `table:"VEHICLE"`
	Year    int    `table:"YEAR"`
	Plate   string `table:"PLATE"`
	Color   string `table:"COLOR,wide"`
	Rate    string `table:"RATE"`
	Status  string `table:"STATUS"`
	Image   string `table:"IMAGE,wide"`
}

func toVehicleRow(v domain.Vehicle) vehicleRow {
	return vehicleRow{
		ID:      v.ID,
		Vehicle: v.DisplayName(),
		Year:    v.Year,
		Plate:   v.LicensePlate,
		Color:   v.Color,
		Rate:    dailyRate(v.Rate),
		Status:  v.Status.Label(),
		Image:   v.ImageURL,
	}
}

func dailyRate(rate int64) string {
	return fmt.Sprintf("$%d/day", rate)
}

func carsList(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	status, err := domain.ParseVehicleStatus(c.String("status"))
	if err != nil {
		return err
	}
	if _, err := rt.requireUser(c.Context); err != nil {
		return err
	}

	vehicles, err := rt.fleet.List(c.Context, memory.VehicleFilter{
		Search: c.String("search"),
		Status: status,
	})
	if err != nil {
		return err
	}

	if rt.structured(c) {
		return rt.print(c, vehicles)
	}
	if len(vehicles) == 0 {
		rt.say(c, "No vehicles match the filters.")
		return nil
	}

	rows := make([]vehicleRow, 0, len(vehicles))
	for _, v := range vehicles {
		rows = append(rows, toVehicleRow(v))
	}
	if err := rt.print(c, rows); err != nil {
		return err
	}
	rt.say(c, "\nTotal: %d vehicles", len(rows))
	return nil
}

func carsGet(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "vehicle")
	if err != nil {
		return err
	}
	if _, err := rt.requireUser(c.Context); err != nil {
		return err
	}

	v, err := rt.fleet.Get(c.Context, id)
	if err != nil {
		return err
	}
	if rt.structured(c) {
		return rt.print(c, v)
	}
	return rt.print(c, toVehicleRow(*v))
}

func carsRent(c *cli.Context) error {
	id, err := parseID(c, "vehicle")
	if err != nil {
		return err
	}
	return bookRental(c, id)
}
