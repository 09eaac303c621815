package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/cafepos-api/internal/domain/entity"
	"github.com/sangkips/cafepos-api/internal/domain/pos"
	"github.com/sangkips/cafepos-api/internal/domain/repository"
	"github.com/sangkips/cafepos-api/internal/logger"
	"github.com/sangkips/cafepos-api/pkg/apperror"
	"github.com/sangkips/cafepos-api/pkg/printer"
	"github.com/sangkips/cafepos-api/pkg/utils"
	"github.com/shopspring/decimal"
)

const printTimeout = 5 * time.Second

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer   printer.Printer
	orderRepo repository.OrderRepository
	header    entity.ReceiptHeader
	width     int
	loc       *time.Location
}

// NewPrinterService creates a new printer service. width is the paper width in characters.
func NewPrinterService(
	p printer.Printer,
	orderRepo repository.OrderRepository,
	header entity.ReceiptHeader,
	width int,
	loc *time.Location,
) *PrinterService {
	if width <= 0 {
		width = printer.Width58mm
	}
	if loc == nil {
		loc = time.Local
	}
	return &PrinterService{
		printer:   p,
		orderRepo: orderRepo,
		header:    header,
		width:     width,
		loc:       loc,
	}
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() printer.Status {
	return printer.Describe(s.printer)
}

// TestPrint sends a sample receipt to the printer and returns it.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	latte := decimal.NewFromInt(120)
	receipt := &entity.Receipt{
		Header:        s.header,
		InvoiceNo:     "TEST-001",
		Date:          time.Now().In(s.loc).Format("2006-01-02 15:04"),
		Cashier:       "System",
		PaymentMethod: "cash",
		Items: []entity.ReceiptItem{
			{Name: "Test Latte", Quantity: 2, UnitPrice: latte, Total: latte.Mul(decimal.NewFromInt(2)), Modifiers: []string{"Oat milk"}},
		},
		Subtotal:       decimal.NewFromInt(240),
		DiscountAmount: decimal.Zero,
		Total:          decimal.NewFromInt(240),
		Tendered:       decimal.NewFromInt(300),
		Change:         decimal.NewFromInt(60),
	}

	if err := s.print(ctx, receipt); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	return receipt, nil
}

// Receipt builds the receipt of an order without printing it.
func (s *PrinterService) Receipt(ctx context.Context, orderID uint) (*entity.Receipt, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return s.BuildReceipt(order), nil
}

// PrintOrderReceipt fetches an order and prints its receipt.
func (s *PrinterService) PrintOrderReceipt(ctx context.Context, orderID uint) (*entity.Receipt, error) {
	receipt, err := s.Receipt(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.print(ctx, receipt); err != nil {
		logger.L().WithError(err).WithField("order_id", orderID).Warn("Printer error")
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	return receipt, nil
}

// printAfterCheckout prints a new order's receipt. Failures are logged and never fail the sale.
func (s *PrinterService) printAfterCheckout(ctx context.Context, order *entity.Order) {
	if s == nil || s.printer.Kind() == "none" {
		return
	}
	if err := s.print(ctx, s.BuildReceipt(order)); err != nil {
		logger.L().WithError(err).WithField("invoice_no", order.InvoiceNo).Warn("Receipt was not printed")
	}
}

func (s *PrinterService) print(ctx context.Context, r *entity.Receipt) error {
	ctx, cancel := context.WithTimeout(ctx, printTimeout)
	defer cancel()
	return s.printer.Print(ctx, FormatReceipt(r, s.width))
}

// BuildReceipt composes the printable receipt of an order.
func (s *PrinterService) BuildReceipt(order *entity.Order) *entity.Receipt {
	receipt := &entity.Receipt{
		Header:         s.header,
		InvoiceNo:      order.InvoiceNo,
		Date:           order.CreatedAt.In(s.loc).Format("2006-01-02 15:04"),
		Cashier:        order.CashierEmail,
		PaymentMethod:  order.PaymentMethod.String(),
		Subtotal:       order.Subtotal,
		Discounts:      pos.Discounts{SeniorPWD: order.SeniorPWDDiscount, Employee: order.EmployeeDiscount}.Labels(),
		DiscountAmount: order.DiscountAmount,
		Total:          order.Total,
		Tendered:       order.Tendered,
		Change:         order.Change,
		Void:           order.IsVoid,
	}
	if order.Branch != "" {
		receipt.Header.Branch = order.Branch
	}

	for _, it := range order.Items {
		item := entity.ReceiptItem{
			Name:         it.ProductName,
			Quantity:     it.Quantity,
			UnitPrice:    it.FinalPrice,
			Total:        it.LineTotal,
			Instructions: it.Instructions,
		}
		if item.Total.IsZero() {
			item.Total = it.FinalPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		}
		if it.Upgrade != nil {
			item.Modifiers = append(item.Modifiers, it.Upgrade.Name)
		}
		for _, a := range it.Addons {
			item.Modifiers = append(item.Modifiers, "+ "+a.Name)
		}
		receipt.Items = append(receipt.Items, item)
	}
	return receipt
}

// FormatReceipt converts a Receipt into ESC/POS bytes for paper width characters wide.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Branch != "" {
		doc.Text(r.Header.Branch)
	}
	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Void {
		doc.SetBold(true).Text("*** VOID ***").SetBold(false)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Invoice:", r.InvoiceNo).
		KeyValue("Date:", r.Date)
	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	if r.PaymentMethod != "" {
		doc.KeyValue("Payment:", r.PaymentMethod)
	}

	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, utils.FormatPeso(item.Total))
		for _, m := range item.Modifiers {
			doc.Wrapped("   ", m)
		}
		if item.Instructions != "" {
			doc.Wrapped("   ", "Note: "+item.Instructions)
		}
		if item.Quantity > 1 {
			doc.TextF("   @ %s each", utils.FormatPeso(item.UnitPrice))
		}
	}

	doc.Separator('-')

	doc.KeyValue("Subtotal:", utils.FormatPeso(r.Subtotal))
	for _, d := range r.Discounts {
		doc.Text(d)
	}
	if r.DiscountAmount.IsPositive() {
		doc.KeyValue("Discount:", utils.FormatPeso(r.DiscountAmount.Neg()))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", utils.FormatPeso(r.Total)).
		SetBold(false)

	if r.Tendered.IsPositive() {
		doc.KeyValue("Tendered:", utils.FormatPeso(r.Tendered)).
			KeyValue("Change:", utils.FormatPeso(r.Change))
	}

	doc.Separator('-')

	doc.SetAlign(printer.AlignCenter).
		FeedLines(1).
		Text("Thank you, come again!").
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
