package cart

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// Delivery methods offered at checkout.
const (
	DeliverPickup   = "Retirar na loja"
	DeliverDelivery = "Entrega"
)

// NoDiscount is the neutral multiplier applied when no coupon is in play.
var NoDiscount = decimal.NewFromInt(1)

var oneHundred = decimal.NewFromInt(100)

// CheckoutOrder is the buyer-entered form data a checkout message is
// composed from.
type CheckoutOrder struct {
	Name          string
	Phone         string
	Deliver       string
	PaymentMethod string
	Neighborhood  string
	Address       string
	Coupon        string
}

// Total computes subtotal x discount + deliveryFee in minor currency
// units. The result may carry a fractional part after the discount;
// rounding happens only at display time.
func Total(subtotal, deliveryFee int64, discount decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(subtotal).Mul(discount).Add(decimal.NewFromInt(deliveryFee))
}

// FormatBRL renders an amount of minor currency units as "R$ 12.34",
// always with two decimal places.
func FormatBRL(minor decimal.Decimal) string {
	return "R$ " + minor.Div(oneHundred).StringFixed(2)
}

// FormatBRLCents is FormatBRL for exact integer amounts.
func FormatBRLCents(minor int64) string {
	return FormatBRL(decimal.NewFromInt(minor))
}

// ComposeMessage formats the structured checkout text block handed off to
// WhatsApp. Pure function: deliveryFee only applies when the order is a
// delivery, discount is 1 when no coupon was applied.
func ComposeMessage(storeName string, order CheckoutOrder, items []LineItem, deliveryFee int64, discount decimal.Decimal) string {
	var subtotal int64
	for _, item := range items {
		subtotal += item.Price * int64(item.Quantity)
	}

	isDelivery := order.Deliver == DeliverDelivery
	if !isDelivery {
		deliveryFee = 0
	}

	var b strings.Builder
	b.WriteString(storeName + "\n")
	b.WriteString("\n---------------------------\n\n")

	fmt.Fprintf(&b, "Nome: %s\n", order.Name)
	fmt.Fprintf(&b, "Telefone: %s\n", order.Phone)
	fmt.Fprintf(&b, "Forma de retirada: %s\n", order.Deliver)
	if isDelivery {
		fmt.Fprintf(&b, "Bairro: %s\n", order.Neighborhood)
		fmt.Fprintf(&b, "Endereço: %s\n", order.Address)
	}

	b.WriteString("\n---------------------------\n\n")
	b.WriteString("PRODUTOS:\n")
	for _, item := range items {
		variation := ""
		if item.Variation != "" {
			variation = fmt.Sprintf(" (%s)", item.Variation)
		}
		fmt.Fprintf(&b, "  - %dx %s%s - %s\n",
			item.Quantity, item.Name, variation,
			FormatBRLCents(item.Price*int64(item.Quantity)))
	}

	b.WriteString("\n---------------------------\n\n")
	fmt.Fprintf(&b, "Forma de pagamento: %s\n\n", order.PaymentMethod)

	if discount.LessThan(NoDiscount) {
		percentOff := oneHundred.Sub(discount.Mul(oneHundred))
		fmt.Fprintf(&b, "Cupom %s aplicado: %s%% de desconto\n", order.Coupon, percentOff.String())
	} else {
		b.WriteString("Sem desconto\n")
	}

	if isDelivery {
		fmt.Fprintf(&b, "Taxa de entrega: %s\n", FormatBRLCents(deliveryFee))
	} else {
		b.WriteString("Sem taxa de entrega\n")
	}

	fmt.Fprintf(&b, "\nTotal: %s", FormatBRL(Total(subtotal, deliveryFee, discount)))

	return b.String()
}

// WhatsAppLink builds the chat hand-off deep link. The link scheme differs
// by coarse device class: mobile clients open api.whatsapp.com, desktop
// browsers web.whatsapp.com. The mobile flag is decided once at the
// boundary and passed in.
func WhatsAppLink(phone, message string, mobile bool) string {
	host := "web.whatsapp.com"
	if mobile {
		host = "api.whatsapp.com"
	}
	link := url.URL{Scheme: "https", Host: host, Path: "/send"}
	query := url.Values{}
	query.Set("phone", phone)
	if message != "" {
		query.Set("text", message)
	}
	link.RawQuery = query.Encode()
	return link.String()
}
