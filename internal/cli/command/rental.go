package command

import (
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rentdash-go/internal/cli/output"
	"github.com/yndnr/rentdash-go/internal/core/domain"
)

// RentalCommand returns the rental desk subcommand group.
func RentalCommand() *cli.Command {
	return &cli.Command{
		Name:    "rental",
		Aliases: []string{"rentals"},
		Usage:   "Quote and book rentals",
		Subcommands: []*cli.Command{
			{
				Name:   "customers",
				Usage:  "List customers",
				Action: rentalCustomers,
			},
			{
				Name:   "quote",
				Usage:  "Show the rental summary for a selection",
				Flags:  rentalFlags(true),
				Action: rentalQuote,
			},
			{
				Name:   "create",
				Usage:  "Book a rental",
				Flags:  rentalFlags(true),
				Action: rentalCreate,
			},
			{
				Name:   "list",
				Usage:  "List rentals booked in this session",
				Action: rentalList,
			},
		},
	}
}

func rentalFlags(withVehicle bool) []cli.Flag {
	flags := []cli.Flag{
		&cli.Int64Flag{Name: "customer", Aliases: []string{"c"}, Usage: "Customer ID"},
	}
	if withVehicle {
		flags = append(flags, &cli.Int64Flag{Name: "vehicle", Aliases: []string{"v"}, Usage: "Vehicle ID"})
	}
	return append(flags,
		&cli.StringFlag{Name: "start", Usage: "Start date (YYYY-MM-DD)"},
		&cli.StringFlag{Name: "end", Usage: "End date (YYYY-MM-DD)"},
		&cli.StringFlag{
			Name:  "payment",
			Value: string(domain.DefaultPaymentMethod),
			Usage: "Payment method (credit_card, debit_card, cash, bank_transfer)",
		},
		&cli.StringFlag{Name: "notes", Usage: "Additional notes"},
	)
}

// rentalRequest reads the rental form from flags. vehicleID overrides
// the --vehicle flag when non-zero.
func rentalRequest(c *cli.Context, vehicleID int64) (domain.RentalRequest, error) {
	start, err := domain.ParseDate(c.String("start"))
	if err != nil {
		return domain.RentalRequest{}, err
	}
	end, err := domain.ParseDate(c.String("end"))
	if err != nil {
		return domain.RentalRequest{}, err
	}
	if vehicleID == 0 {
		vehicleID = c.Int64("vehicle")
	}
	return domain.RentalRequest{
		CustomerID:    c.Int64("customer"),
		VehicleID:     vehicleID,
		StartDate:     start,
		EndDate:       end,
		PaymentMethod: domain.PaymentMethod(strings.ToLower(strings.TrimSpace(c.String("payment")))),
		Notes:         c.String("notes"),
	}, nil
}

// quoteView is the table view of the rental summary.
type quoteView struct {
	Customer  string `table:"CUSTOMER"`
	Vehicle   string `table:"VEHICLE"`
	DailyRate string `table:"DAILY RATE"`
	Start     string `table:"START"`
	End       string `table:"END"`
	Days      int64  `table:"DAYS"`
	Total     string `table:"TOTAL"`
}

func toQuoteView(q domain.Quote) quoteView {
	var v quoteView
	if q.Customer != nil {
		v.Customer = q.Customer.Name
	}
	if q.Vehicle != nil {
		v.Vehicle = q.Vehicle.DisplayName()
		v.DailyRate = dailyRate(q.DailyRate)
	}
	if !q.StartDate.IsZero() {
		v.Start = q.StartDate.Format(domain.DateLayout)
	}
	if !q.EndDate.IsZero() {
		v.End = q.EndDate.Format(domain.DateLayout)
	}
	if q.Days > 0 {
		v.Days = q.Days
		v.Total = output.Money(q.Total)
	}
	return v
}

// rentalRow is the table view of a booked rental.
type rentalRow struct {
	Reference string `table:"REFERENCE"`
	Customer  string `table:"CUSTOMER"`
	Vehicle   string `table:"VEHICLE"`
	Start     string `table:"START"`
	End       string `table:"END"`
	Days      int64  `table:"DAYS"`
	Total     string `table:"TOTAL"`
	Payment   string `table:"PAYMENT"`
	Notes     string `table:"NOTES,wide"`
}

func toRentalRow(r domain.Rental) rentalRow {
	return rentalRow{
		Reference: r.Reference,
		Customer:  r.Customer.Name,
		Vehicle:   r.Vehicle.DisplayName(),
		Start:     r.StartDate.Format(domain.DateLayout),
		End:       r.EndDate.Format(domain.DateLayout),
		Days:      r.Days,
		Total:     output.Money(r.Total),
		Payment:   r.PaymentMethod.Label(),
		Notes:     r.Notes,
	}
}

func rentalCustomers(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	if _, err := rt.requireUser(c.Context); err != nil {
		return err
	}

	customers, err := rt.fleet.Customers(c.Context)
	if err != nil {
		return err
	}
	return rt.print(c, customers)
}

func rentalQuote(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	req, err := rentalRequest(c, 0)
	if err != nil {
		return err
	}
	if _, err := rt.requireUser(c.Context); err != nil {
		return err
	}

	quote, err := rt.desk.Quote(c.Context, req)
	if err != nil {
		return err
	}
	if rt.structured(c) {
		return rt.print(c, quote)
	}
	if quote.IsEmpty() {
		rt.say(c, "Select a customer, a vehicle and dates to see the rental summary.")
		return nil
	}
	return rt.print(c, toQuoteView(quote))
}

func rentalCreate(c *cli.Context) error {
	return bookRental(c, 0)
}

// bookRental books the rental described by the flags.
func bookRental(c *cli.Context, vehicleID int64) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	req, err := rentalRequest(c, vehicleID)
	if err != nil {
		return err
	}
	if _, err := rt.requireUser(c.Context); err != nil {
		return err
	}

	rental, err := rt.desk.Book(c.Context, req)
	if err != nil {
		return err
	}
	rt.metrics.RentalsBooked.Inc()

	if rt.structured(c) {
		return rt.print(c, rental)
	}
	rt.say(c, "Rental %s created: %s for %s, %d days, %s.",
		rental.Reference,
		rental.Vehicle.DisplayName(),
		rental.Customer.Name,
		rental.Days,
		output.Money(rental.Total),
	)
	return nil
}

func rentalList(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	if _, err := rt.requireUser(c.Context); err != nil {
		return err
	}

	rentals, err := rt.desk.Rentals(c.Context)
	if err != nil {
		return err
	}
	if rt.structured(c) {
		return rt.print(c, rentals)
	}
	if len(rentals) == 0 {
		rt.say(c, "No rentals booked yet.")
		return nil
	}

	rows := make([]rentalRow, 0, len(rentals))
	for _, r := range rentals {
		rows = append(rows, toRentalRow(r))
	}
	return rt.print(c, rows)
}
