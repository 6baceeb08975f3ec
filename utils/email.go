package utils

import (
	"bytes"
	"html/template"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"
)

// ReceiptLine một dòng món trên hóa đơn
type ReceiptLine struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
	IsGift    bool
}

// ReceiptData dữ liệu cho template email hóa đơn
type ReceiptData struct {
	OrderCode      string
	CustomerName   string
	TableName      string
	Lines          []ReceiptLine
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
	PaidAmount     decimal.Decimal
	PaymentMethod  string
	CompletedAt    *time.Time
}

// SendReceiptEmail gửi email hóa đơn sau thanh toán (async)
func SendReceiptEmail(to string, data ReceiptData, qrBytes []byte) {
	go func() { // Async để không delay response
		tmplPath := "templates/receipt.html"
		tmpl, err := template.ParseFiles(tmplPath)
		if err != nil {
			log.Printf("Lỗi load template hóa đơn: %v", err)
			return
		}

		var body bytes.Buffer
		if err := tmpl.Execute(&body, data); err != nil {
			log.Printf("Lỗi render template hóa đơn: %v", err)
			return
		}

		host := os.Getenv("SMTP_HOST")
		portStr := os.Getenv("SMTP_PORT")
		username := os.Getenv("SMTP_USERNAME")
		password := os.Getenv("SMTP_PASSWORD")
		from := os.Getenv("SMTP_FROM")

		port, _ := strconv.Atoi(portStr)

		m := gomail.NewMessage()
		m.SetHeader("From", from)
		m.SetHeader("To", to)
		m.SetHeader("Subject", "Hóa đơn thanh toán #"+data.OrderCode)
		m.SetBody("text/html", body.String())

		if len(qrBytes) > 0 {
			m.Embed("receipt_qr.png", gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(qrBytes)
				return err
			}), gomail.SetHeader(map[string][]string{
				"Content-Type":        {"image/png"},
				"Content-ID":          {"<receipt_qr>"},
				"Content-Disposition": {"inline"},
			}))
		}

		d := gomail.NewDialer(host, port, username, password)
		if err := d.DialAndSend(m); err != nil {
			log.Printf("Lỗi gửi email hóa đơn: %v", err)
		}
	}()
}
