package cart

import (
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalWithDiscountAndDelivery(t *testing.T) {
	// A x2 at 1000 plus B x1 at 2500, 10% off, 500 delivery:
	// (1000*2+2500)*0.9 + 500 = 4550
	discount := decimal.NewFromFloat(0.9)
	total := Total(4500, 500, discount)

	assert.True(t, total.Equal(decimal.NewFromInt(4550)), "got %s", total)
	assert.Equal(t, "R$ 45.50", FormatBRL(total))
}

func TestTotalWithoutDiscount(t *testing.T) {
	total := Total(4500, 0, NoDiscount)
	assert.Equal(t, "R$ 45.00", FormatBRL(total))
}

func TestTotalRoundsOnlyAtDisplayTime(t *testing.T) {
	// 4505 * 0.9 = 4054.5 minor units; display rounds to two places
	total := Total(4505, 0, decimal.NewFromFloat(0.9))
	assert.Equal(t, "R$ 40.55", FormatBRL(total))
}

func TestComposeMessageDeliveryOrder(t *testing.T) {
	items := []LineItem{
		{ProductID: 1, Name: "Produto A", Price: 1000, Quantity: 2},
		{ProductID: 2, Name: "Produto B", Price: 2500, Quantity: 1, Variation: "G"},
	}
	order := CheckoutOrder{
		Name:          "Maria",
		Phone:         "91234-5678",
		Deliver:       DeliverDelivery,
		PaymentMethod: "Pix",
		Neighborhood:  "Centro",
		Address:       "Rua 1, 100",
		Coupon:        "DEZ",
	}

	msg := ComposeMessage("D085 SUPLEMENTOS", order, items, 500, decimal.NewFromFloat(0.9))

	assert.True(t, strings.HasPrefix(msg, "D085 SUPLEMENTOS\n"))
	assert.Contains(t, msg, "Nome: Maria")
	assert.Contains(t, msg, "Forma de retirada: Entrega")
	assert.Contains(t, msg, "Bairro: Centro")
	assert.Contains(t, msg, "Endereço: Rua 1, 100")
	assert.Contains(t, msg, "  - 2x Produto A - R$ 20.00")
	assert.Contains(t, msg, "  - 1x Produto B (G) - R$ 25.00")
	assert.Contains(t, msg, "Forma de pagamento: Pix")
	assert.Contains(t, msg, "Cupom DEZ aplicado: 10% de desconto")
	assert.Contains(t, msg, "Taxa de entrega: R$ 5.00")
	assert.True(t, strings.HasSuffix(msg, "Total: R$ 45.50"), "got %q", msg)
}

func TestComposeMessagePickupOrder(t *testing.T) {
	items := []LineItem{{ProductID: 1, Name: "Creatina", Price: 8990, Quantity: 1}}
	order := CheckoutOrder{
		Name:          "João",
		Phone:         "98888-0000",
		Deliver:       DeliverPickup,
		PaymentMethod: "Dinheiro",
	}

	// delivery fee must be ignored for pickup orders
	msg := ComposeMessage("Loja", order, items, 700, NoDiscount)

	assert.Contains(t, msg, "Sem desconto")
	assert.Contains(t, msg, "Sem taxa de entrega")
	assert.NotContains(t, msg, "Bairro:")
	assert.NotContains(t, msg, "Endereço:")
	assert.True(t, strings.HasSuffix(msg, "Total: R$ 89.90"))
}

func TestWhatsAppLinkSchemeByDeviceClass(t *testing.T) {
	mobile := WhatsAppLink("5511999990000", "olá", true)
	desktop := WhatsAppLink("5511999990000", "olá", false)

	assert.True(t, strings.HasPrefix(mobile, "https://api.whatsapp.com/send?"))
	assert.True(t, strings.HasPrefix(desktop, "https://web.whatsapp.com/send?"))

	parsed, err := url.Parse(mobile)
	require.NoError(t, err)
	assert.Equal(t, "5511999990000", parsed.Query().Get("phone"))
	assert.Equal(t, "olá", parsed.Query().Get("text"), "message round-trips through URL encoding")
}

func TestWhatsAppLinkWithoutMessage(t *testing.T) {
	link := WhatsAppLink("5511999990000", "", true)
	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.False(t, parsed.Query().Has("text"))
}
