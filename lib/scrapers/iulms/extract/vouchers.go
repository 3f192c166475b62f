package extract

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

const noVouchersMarker = "No records found"

// Vouchers parses the fee voucher table. A missing table next to a
// "No records found" marker is the portal's normal empty state; a
// missing table without it means the markup changed underneath us.
func Vouchers(ctx context.Context, html string) []VoucherEntry {
	ctx, span := tracer.Start(ctx, "Vouchers")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse html")
		slog.WarnContext(ctx, "failed to parse voucher html", "err", err)
		return nil
	}

	table := doc.Find("table#voucherTable").First()
	if table.Length() == 0 {
		if strings.Contains(doc.Text(), noVouchersMarker) {
			slog.DebugContext(ctx, "no vouchers on record")
		} else {
			slog.WarnContext(ctx, "voucher table missing and no-records marker absent")
		}
		return nil
	}

	var out []VoucherEntry
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cols := row.Find("td")
		if cols.Length() < 8 {
			return
		}
		cell := func(n int) string { return strings.TrimSpace(cols.Eq(n).Text()) }

		// the nested form holds the ids the print endpoint wants
		form := row.Find("form").First()

		out = append(out, VoucherEntry{
			VoucherNumber:          cell(1),
			Semester:               cell(2),
			DueDate:                cell(3),
			InstallmentNumber:      cell(4),
			Description:            cell(5),
			Amount:                 cell(6),
			IsLate:                 row.HasClass("latePayment"),
			PrintableVoucherNumber: form.Find("input[name=VoucherNumber]").AttrOr("value", ""),
			PrintableStudentId:     form.Find("input[name=studentId]").AttrOr("value", ""),
		})
	})
	return out
}
