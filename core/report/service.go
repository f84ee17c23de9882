package report

import (
	"bytes"
	"context"
	"fmt"
	"net/mail"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/akshaywebstep/synco-sub001/core"
	"github.com/akshaywebstep/synco-sub001/core/booking"
)

// Service ties the external booking store to the engine. It holds no state of
// its own; every generated report is computed from scratch.
type Service struct {
	repo    booking.Repository
	logger  core.Logger
	mailSvc core.EmailService
}

func NewService(repo booking.Repository, logger core.Logger, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, logger: logger, mailSvc: mailSvc}
}

// Generate loads the report bookings and runs the engine against wall-clock now.
func (svc *Service) Generate(ctx context.Context, filter booking.QueryFilter) (*Report, error) {
	bookings, err := svc.repo.QueryReportBookings(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying report bookings")
	}
	return Build(bookings, filter, time.Now().UTC())
}

// Email generates the report and sends a plain-text digest to recipient.
func (svc *Service) Email(ctx context.Context, filter booking.QueryFilter, recipient string) error {
	rep, err := svc.Generate(ctx, filter)
	if err != nil {
		return err
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Address: recipient}},
		Subject: "Booking report",
		BodyStr: renderDigest(rep),
	})
	svc.logger.Info(fmt.Sprintf("booking report digest queued for %s", recipient))
	return nil
}

// renderDigest flattens the report into a plain-text summary, one line per year.
func renderDigest(rep *Report) string {
	years := make([]int, 0, len(rep.Years))
	for y := range rep.Years {
		years = append(years, y)
	}
	sort.Ints(years)

	var buf bytes.Buffer
	buf.WriteString("Booking report\n\n")
	for _, y := range years {
		t := rep.Years[y].Totals
		fmt.Fprintf(&buf, "%d: %d bookings, %.2f revenue, %d free trials, %.2f%% attendance, %.2f%% conversion\n",
			y, t.TotalSales.BookingCount, t.TotalSales.TotalRevenue, t.FreeTrialsCount, t.AttendanceRate, t.ConversionRate)
	}
	t := rep.OverallTrends
	fmt.Fprintf(&buf, "\nOverall: %d bookings, %.2f revenue, %d free trials, %.2f%% attendance, %.2f%% conversion\n",
		t.TotalSales.BookingCount, t.TotalSales.TotalRevenue, t.FreeTrialsCount, t.AttendanceRate, t.ConversionRate)
	return buf.String()
}
